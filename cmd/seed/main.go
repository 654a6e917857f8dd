package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"github.com/marentsov/financial-bot/internal/config"
	"github.com/marentsov/financial-bot/internal/db"
	"github.com/marentsov/financial-bot/internal/logger"
	"github.com/marentsov/financial-bot/internal/receipt"
	"github.com/marentsov/financial-bot/internal/repo"
	"github.com/marentsov/financial-bot/internal/seed"
)

func main() {
	nUsers := flag.Int("users", 10, "сколько пользователей создать")
	perUser := flag.Int("per-user", 3, "сколько заявок на пользователя")
	flag.Parse()

	cfg := config.MustLoad()
	logger.Init()
	defer logger.Log.Sync()

	ctx := context.Background()

	pool := db.MustConnect(ctx, cfg.DatabaseURL)
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
		logger.Log.Fatal("migrations", zap.Error(err))
	}

	err := seed.Run(ctx,
		repo.NewUsers(pool), repo.NewExpenses(pool), repo.NewMoney(pool),
		receipt.NewDBStorage(pool),
		*nUsers, *perUser,
	)
	if err != nil {
		logger.Log.Fatal("seed", zap.Error(err))
	}
	logger.Log.Info("seed complete", zap.Int("users", *nUsers))
}
