package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusNew      Status = "new"
	StatusApproved Status = "approved"
	StatusPaid     Status = "paid"
	StatusRejected Status = "rejected"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusNew, StatusApproved, StatusPaid, StatusRejected:
		return Status(s), true
	}
	return "", false
}

var statusEmoji = map[Status]string{
	StatusNew:      "🆕",
	StatusApproved: "✅",
	StatusPaid:     "💵",
	StatusRejected: "❌",
}

// Род различается: "заявка" женского рода, "запрос" мужского.
var expenseStatusLabels = map[Status]string{
	StatusNew:      "Новая",
	StatusApproved: "Одобрена",
	StatusPaid:     "Выплачена",
	StatusRejected: "Отклонена",
}

var moneyStatusLabels = map[Status]string{
	StatusNew:      "Новый",
	StatusApproved: "Одобрен",
	StatusPaid:     "Выплачен",
	StatusRejected: "Отклонен",
}

func (s Status) Emoji() string {
	if e, ok := statusEmoji[s]; ok {
		return e
	}
	return "📄"
}

func (s Status) ExpenseLabel() string {
	if l, ok := expenseStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s Status) MoneyLabel() string {
	if l, ok := moneyStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

type User struct {
	ID           int64     `json:"id"`
	TelegramID   int64     `json:"telegram_id"`
	Username     *string   `json:"username"`
	FullName     *string   `json:"full_name"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	AdminComment *string   `json:"admin_comment"`
}

// ExpenseRequest — заявка на возмещение расходов, всегда с фото чека.
// После создания меняются только status, admin_comment и updated_at.
type ExpenseRequest struct {
	ID                 int64           `json:"id"`
	UserID             int64           `json:"user_id"`
	Amount             decimal.Decimal `json:"amount"`
	Justification      string          `json:"justification"`
	ReceiptRef         string          `json:"receipt_ref"`
	ReceiptName        string          `json:"receipt_name"`
	ReceiptContentType string          `json:"receipt_content_type"`
	Status             Status          `json:"status"`
	AdminComment       *string         `json:"admin_comment"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// MoneyRequest — запрос денежных средств, без чека.
type MoneyRequest struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Justification string          `json:"justification"`
	Status        Status          `json:"status"`
	AdminComment  *string         `json:"admin_comment"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
