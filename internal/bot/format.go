package bot

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/marentsov/financial-bot/internal/domain"
)

const dateTimeLayout = "02.01.2006 15:04"

func renderExpenseList(list []domain.ExpenseRequest) string {
	var b strings.Builder
	b.WriteString("📋 Ваши последние заявки:\n\n")
	for _, req := range list {
		b.WriteString(fmt.Sprintf("%s Заявка #%d\n", req.Status.Emoji(), req.ID))
		b.WriteString(fmt.Sprintf("Сумма: %s руб.\n", req.Amount.StringFixed(2)))
		b.WriteString(fmt.Sprintf("Статус: %s\n", req.Status.ExpenseLabel()))
		b.WriteString(fmt.Sprintf("Дата: %s\n", req.CreatedAt.Format(dateTimeLayout)))
		b.WriteString(fmt.Sprintf("Комментарий: %s\n", commentOrEmpty(req.AdminComment)))
		b.WriteString(strings.Repeat("-", 30) + "\n")
	}
	return b.String()
}

func renderMoneyList(list []domain.MoneyRequest) string {
	var b strings.Builder
	b.WriteString("📋 Ваши последние запросы:\n\n")
	for _, req := range list {
		b.WriteString(fmt.Sprintf("%s Запрос #%d\n", req.Status.Emoji(), req.ID))
		b.WriteString(fmt.Sprintf("Сумма: %s руб.\n", req.Amount.StringFixed(2)))
		b.WriteString(fmt.Sprintf("Статус: %s\n", req.Status.MoneyLabel()))
		b.WriteString(fmt.Sprintf("Дата: %s\n", req.CreatedAt.Format(dateTimeLayout)))
		b.WriteString(fmt.Sprintf("Комментарий: %s\n", commentOrEmpty(req.AdminComment)))
		b.WriteString(strings.Repeat("-", 30) + "\n")
	}
	return b.String()
}

func expenseConfirmation(req domain.ExpenseRequest) string {
	return fmt.Sprintf(
		"✅ Заявка #%d создана!\n\n"+
			"Сумма: %s руб.\n"+
			"Обоснование: %s\n"+
			"Дата: %s\n\n"+
			"Статус: %s %s\n\n"+
			"Финансист рассмотрит вашу заявку в ближайшее время.",
		req.ID, req.Amount.StringFixed(2), req.Justification,
		req.CreatedAt.Format(dateTimeLayout),
		req.Status.Emoji(), req.Status.ExpenseLabel(),
	)
}

func moneyConfirmation(req domain.MoneyRequest) string {
	return fmt.Sprintf(
		"✅ Запрос #%d создан!\n\n"+
			"Сумма: %s руб.\n"+
			"Обоснование: %s\n"+
			"Дата: %s\n\n"+
			"Статус: %s %s\n\n"+
			"Финансист рассмотрит ваш запрос в ближайшее время.",
		req.ID, req.Amount.StringFixed(2), req.Justification,
		req.CreatedAt.Format(dateTimeLayout),
		req.Status.Emoji(), req.Status.MoneyLabel(),
	)
}

func commentOrEmpty(c *string) string {
	if c == nil {
		return ""
	}
	return *c
}

// contentTypeForExt — тип по расширению файла из транспорта;
// всё незнакомое считаем jpeg.
func contentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg", "png", "gif":
		return "image/" + strings.ToLower(ext)
	default:
		return "image/jpeg"
	}
}

func extFromPath(p string) string {
	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ext == "" {
		return "jpg"
	}
	return strings.ToLower(ext)
}

func receiptFileName(telegramID int64, ts time.Time, ext string) string {
	return fmt.Sprintf("receipt_%d_%s.%s", telegramID, ts.Format("20060102_150405"), ext)
}
