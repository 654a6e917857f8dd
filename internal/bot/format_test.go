package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marentsov/financial-bot/internal/domain"
)

func TestContentTypeForExt(t *testing.T) {
	cases := []struct {
		ext  string
		want string
	}{
		{"jpg", "image/jpg"},
		{"JPEG", "image/jpeg"},
		{"png", "image/png"},
		{"gif", "image/gif"},
		{"webp", "image/jpeg"},
		{"pdf", "image/jpeg"},
		{"", "image/jpeg"},
	}
	for _, c := range cases {
		if got := contentTypeForExt(c.ext); got != c.want {
			t.Errorf("contentTypeForExt(%q) = %q, want %q", c.ext, got, c.want)
		}
	}
}

func TestExtFromPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"photos/file_123.jpg", "jpg"},
		{"photos/file_123.PNG", "png"},
		{"photos/file_123", "jpg"},
		{"", "jpg"},
	}
	for _, c := range cases {
		if got := extFromPath(c.in); got != c.want {
			t.Errorf("extFromPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestReceiptFileName(t *testing.T) {
	ts := time.Date(2024, 3, 15, 9, 30, 45, 0, time.UTC)
	got := receiptFileName(42, ts, "png")
	if got != "receipt_42_20240315_093045.png" {
		t.Errorf("receiptFileName = %q", got)
	}
}

func TestExpenseConfirmation(t *testing.T) {
	comment := "ok"
	req := domain.ExpenseRequest{
		ID:            7,
		Amount:        decimal.RequireFromString("1500.5"),
		Justification: "printer paper",
		Status:        domain.StatusNew,
		AdminComment:  &comment,
		CreatedAt:     time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
	}

	text := expenseConfirmation(req)
	for _, want := range []string{"#7", "1500.50", "printer paper", "15.03.2024 09:30", "Новая"} {
		if !strings.Contains(text, want) {
			t.Errorf("confirmation missing %q:\n%s", want, text)
		}
	}
}

func TestRenderMoneyListShowsStatusLabels(t *testing.T) {
	list := []domain.MoneyRequest{
		{ID: 2, Amount: decimal.RequireFromString("300"), Status: domain.StatusApproved, CreatedAt: time.Now()},
		{ID: 1, Amount: decimal.RequireFromString("100"), Status: domain.StatusRejected, CreatedAt: time.Now()},
	}

	text := renderMoneyList(list)
	for _, want := range []string{"Запрос #2", "Одобрен", "Запрос #1", "Отклонен", "✅", "❌"} {
		if !strings.Contains(text, want) {
			t.Errorf("listing missing %q:\n%s", want, text)
		}
	}
	if strings.Index(text, "Запрос #2") > strings.Index(text, "Запрос #1") {
		t.Error("listing must keep the order given by the store")
	}
}
