package main

import (
	"log"

	"github.com/Dxrie/skictf/config"
	"github.com/Dxrie/skictf/controllers"
	"github.com/Dxrie/skictf/database"
	"github.com/Dxrie/skictf/routes"
	"github.com/Dxrie/skictf/services"
	"github.com/Dxrie/skictf/utils"
)

func main() {
	cfg := config.MustLoad()

	utils.InitJWT(cfg.JWTSecret)
	database.Connect(cfg.Database)
	database.InitRedis(cfg.Redis)

	// 禁用自动迁移 (推荐，生产环境用迁移脚本)
	// database.MigrateTables()

	controllers.Submissions = services.NewSubmissionService(
		services.NewGormStores(database.DB),
		services.WithMaxRetries(cfg.Submission.MaxRetries),
		services.WithRepeatSolveLogging(cfg.Submission.LogRepeatSolves),
	)

	r := routes.SetupRouter()

	log.Println("Starting server on :" + cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
