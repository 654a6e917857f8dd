package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/marentsov/financial-bot/internal/admin"
	"github.com/marentsov/financial-bot/internal/bot"
	"github.com/marentsov/financial-bot/internal/config"
	"github.com/marentsov/financial-bot/internal/db"
	"github.com/marentsov/financial-bot/internal/logger"
	"github.com/marentsov/financial-bot/internal/receipt"
	"github.com/marentsov/financial-bot/internal/repo"
	"github.com/marentsov/financial-bot/internal/session"
)

func main() {
	cfg := config.MustLoad()
	logger.Init()
	defer logger.Log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := db.MustConnect(ctx, cfg.DatabaseURL)
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
		logger.Log.Fatal("migrations", zap.Error(err))
	}

	var receipts receipt.Storage
	switch cfg.ReceiptBackend {
	case "s3":
		s3, err := receipt.NewS3Storage(receipt.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			logger.Log.Fatal("s3 init", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			logger.Log.Fatal("s3 bucket", zap.Error(err))
		}
		receipts = s3
	default:
		receipts = receipt.NewDBStorage(pool)
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Log.Fatal("bot init", zap.Error(err))
	}
	botAPI.Debug = false

	rUsers := repo.NewUsers(pool)
	rExpenses := repo.NewExpenses(pool)
	rMoney := repo.NewMoney(pool)

	h := bot.NewHandler(botAPI, cfg, rUsers, rExpenses, rMoney, session.NewStore(), receipts)
	disp := bot.NewDispatcher(h.HandleUpdate)

	adminSrv := &http.Server{
		Addr:    cfg.AdminAddr,
		Handler: admin.NewServer(rExpenses, rMoney, rUsers, receipts).Routes(),
	}
	go func() {
		logger.Log.Info("admin api listening", zap.String("addr", cfg.AdminAddr))
		if err := adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("admin api", zap.Error(err))
		}
	}()

	// Graceful shutdown
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botAPI.GetUpdatesChan(u)

	logger.Log.Info("bot started", zap.String("username", botAPI.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			shutCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			_ = adminSrv.Shutdown(shutCtx)
			stop()
			disp.Wait()
			logger.Log.Info("shutdown")
			return
		case upd := <-updates:
			disp.Dispatch(ctx, upd)
		}
	}
}
