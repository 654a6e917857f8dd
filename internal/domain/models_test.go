package domain

import "testing"

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"new", "approved", "paid", "rejected"} {
		st, ok := ParseStatus(s)
		if !ok || string(st) != s {
			t.Errorf("ParseStatus(%q) = %q, %v", s, st, ok)
		}
	}
	if _, ok := ParseStatus("cancelled"); ok {
		t.Error("ParseStatus accepted unknown status")
	}
	if _, ok := ParseStatus(""); ok {
		t.Error("ParseStatus accepted empty status")
	}
}

func TestStatusPresentation(t *testing.T) {
	cases := []struct {
		st           Status
		emoji        string
		expenseLabel string
		moneyLabel   string
	}{
		{StatusNew, "🆕", "Новая", "Новый"},
		{StatusApproved, "✅", "Одобрена", "Одобрен"},
		{StatusPaid, "💵", "Выплачена", "Выплачен"},
		{StatusRejected, "❌", "Отклонена", "Отклонен"},
	}
	for _, c := range cases {
		if got := c.st.Emoji(); got != c.emoji {
			t.Errorf("%s.Emoji() = %q, want %q", c.st, got, c.emoji)
		}
		if got := c.st.ExpenseLabel(); got != c.expenseLabel {
			t.Errorf("%s.ExpenseLabel() = %q, want %q", c.st, got, c.expenseLabel)
		}
		if got := c.st.MoneyLabel(); got != c.moneyLabel {
			t.Errorf("%s.MoneyLabel() = %q, want %q", c.st, got, c.moneyLabel)
		}
	}

	// незнакомый статус не должен ронять рендеринг
	unknown := Status("weird")
	if unknown.Emoji() != "📄" {
		t.Errorf("unknown status emoji = %q", unknown.Emoji())
	}
	if unknown.ExpenseLabel() != "weird" || unknown.MoneyLabel() != "weird" {
		t.Error("unknown status must fall back to its raw value")
	}
}
