// Package seed наполняет базу фейковыми пользователями и заявками,
// чтобы было с чем работать в бэк-офисе локально.
package seed

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marentsov/financial-bot/internal/logger"
	"github.com/marentsov/financial-bot/internal/receipt"
	"github.com/marentsov/financial-bot/internal/repo"
)

func Run(ctx context.Context, users *repo.Users, expenses *repo.Expenses, money *repo.Money, receipts receipt.Storage, nUsers, perUser int) error {
	for i := 0; i < nUsers; i++ {
		uname := gofakeit.Username()
		fullName := gofakeit.Name()
		telegramID := int64(gofakeit.Number(100_000_000, 999_999_999))

		user, _, err := users.GetOrCreate(ctx, telegramID, &uname, &fullName)
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}

		for j := 0; j < perUser; j++ {
			amount := decimal.NewFromFloat(gofakeit.Price(100, 20000)).Round(2)

			if gofakeit.Bool() {
				data := []byte(gofakeit.LoremIpsumSentence(20))
				name := fmt.Sprintf("receipt_%d_%d.jpg", telegramID, j)
				ref, err := receipts.Store(ctx, data, name, "image/jpeg")
				if err != nil {
					return fmt.Errorf("seed receipt: %w", err)
				}
				if _, err := expenses.Create(ctx, user.ID, amount, gofakeit.Sentence(6), ref, name, "image/jpeg"); err != nil {
					return fmt.Errorf("seed expense: %w", err)
				}
			} else {
				if _, err := money.Create(ctx, user.ID, amount, gofakeit.Sentence(6)); err != nil {
					return fmt.Errorf("seed money request: %w", err)
				}
			}
		}

		logger.Log.Info("seeded user", zap.Int64("telegram_id", telegramID), zap.Int("requests", perUser))
	}
	return nil
}
