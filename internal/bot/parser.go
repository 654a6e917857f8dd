package bot

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errBadAmount = errors.New("bad amount")

// ParseAmount понимает "1500", "1500.50" и "1500,50". Сумма строго больше
// нуля, всё лишнее после второго знака округляется.
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errBadAmount
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, errBadAmount
	}
	return d.Round(2), nil
}

// ValidJustification — не короче трёх символов без учёта краевых пробелов.
func ValidJustification(text string) bool {
	return len([]rune(strings.TrimSpace(text))) >= 3
}
