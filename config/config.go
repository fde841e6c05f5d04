package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string         `env:"ENV" env-default:"dev"`
	ServerPort string         `env:"SERVER_PORT" env-default:"8080"`
	Database   DatabaseConfig `env-prefix:"DB_"`
	Redis      RedisConfig    `env-prefix:"REDIS_"`
	JWTSecret  string         `env:"JWT_SECRET" env-default:"change-me-in-production"`
	Submission SubmissionConfig
}

type DatabaseConfig struct {
	Host     string `env:"HOST" env-default:"localhost"`
	Port     string `env:"PORT" env-default:"3306"`
	User     string `env:"USER" env-default:"root"`
	Password string `env:"PASSWORD" env-default:"123456"`
	Name     string `env:"NAME" env-default:"skictf"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR" env-default:"localhost:6379"`
	Password string `env:"PASSWORD" env-default:""`
	DB       int    `env:"DB" env-default:"0"`
}

type SubmissionConfig struct {
	// MaxRetries 是提交核心内部事务失败后的最大重试次数
	MaxRetries int `env:"SUBMIT_MAX_RETRIES" env-default:"3"`
	// LogRepeatSolves 控制队友重复提交正确 Flag 时是否仍写入解题日志
	LogRepeatSolves bool `env:"SUBMIT_LOG_REPEAT_SOLVES" env-default:"false"`
}

// DSN 拼接 MySQL 连接串
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// MustLoad 从环境变量读取配置，本地开发时支持 .env 文件
func MustLoad() *Config {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("failed to read config from environment: " + err.Error())
	}

	return &cfg
}
