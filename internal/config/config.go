package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	BotToken    string
	DatabaseURL string

	AdminAddr string

	ExpensePageSize int
	MoneyPageSize   int

	ReceiptBackend string // "db" или "s3"
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3UseSSL       bool

	MigrationsDir string
}

func MustLoad() Config {
	// .env удобен локально; в проде переменные приходят из окружения
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("ADMIN_ADDR", ":8090")
	viper.SetDefault("EXPENSE_PAGE_SIZE", 5)
	viper.SetDefault("MONEY_PAGE_SIZE", 10)
	viper.SetDefault("RECEIPT_BACKEND", "db")
	viper.SetDefault("S3_BUCKET", "receipts")
	viper.SetDefault("MIGRATIONS_DIR", "./migrations")

	cfg := Config{
		BotToken:        viper.GetString("BOT_TOKEN"),
		DatabaseURL:     viper.GetString("DATABASE_URL"),
		AdminAddr:       viper.GetString("ADMIN_ADDR"),
		ExpensePageSize: viper.GetInt("EXPENSE_PAGE_SIZE"),
		MoneyPageSize:   viper.GetInt("MONEY_PAGE_SIZE"),
		ReceiptBackend:  viper.GetString("RECEIPT_BACKEND"),
		S3Endpoint:      viper.GetString("S3_ENDPOINT"),
		S3AccessKey:     viper.GetString("S3_ACCESS_KEY"),
		S3SecretKey:     viper.GetString("S3_SECRET_KEY"),
		S3Bucket:        viper.GetString("S3_BUCKET"),
		S3UseSSL:        viper.GetBool("S3_USE_SSL"),
		MigrationsDir:   viper.GetString("MIGRATIONS_DIR"),
	}

	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN is required")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.ReceiptBackend != "db" && cfg.ReceiptBackend != "s3" {
		log.Fatalf("unknown RECEIPT_BACKEND: %s", cfg.ReceiptBackend)
	}

	return cfg
}
