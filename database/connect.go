package database

import (
	"log"
	"sync"
	"time"

	"github.com/Dxrie/skictf/config"
	"github.com/Dxrie/skictf/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB
var connectOnce sync.Once

// Connect 建立数据库连接。进程生命周期内只初始化一次，
// 并发调用时由 sync.Once 保证只持有一个连接句柄。
func Connect(cfg config.DatabaseConfig) {
	connectOnce.Do(func() {
		var err error
		DB, err = gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}

		sqlDB, err := DB.DB()
		if err != nil {
			log.Fatal("Failed to get underlying sql.DB:", err)
		}

		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)

		// 连接超过 1 小时后重建，避免 MySQL wait_timeout 断连
		sqlDB.SetConnMaxLifetime(time.Hour)

		log.Println("Database connection successfully established and connection pool configured.")
	})
}

func MigrateTables() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Challenge{},
		&models.ChallengeFile{},
		&models.Solve{},
		&models.FirstBlood{},
		&models.SolveLog{},
		&models.Publish{},
		&models.SurveyResponse{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	log.Println("Database migration completed.")
}
