package bot

import (
	"github.com/marentsov/financial-bot/internal/session"
)

// Шаговые переходы диалога. Функции чистые по отношению к вводу-выводу:
// мутируют черновик и возвращают текст ответа, побочные эффекты (Telegram,
// база) остаются в handlers.

const (
	promptExpenseAmount = "Новая заявка на возмещение\n\nШаг 1 из 3\nВведите сумму расхода в рублях:"
	promptMoneyAmount   = "Новый запрос денежных средств\n\nШаг 1 из 2\nВведите необходимую сумму в рублях:"

	promptExpenseJustification = "Шаг 2 из 3\nВведите обоснование расхода:\nНапример: Удлинитель в 305 кабинет"
	promptMoneyJustification   = "Шаг 2 из 2\nВведите обоснование запроса:\nНапример: необходимо заправить машину"

	promptReceipt = "Шаг 3 из 3\nПришлите фото чека:"

	replyBadAmount           = "Неверный формат суммы!\nВведите число (например: 1500 или 1500.50):"
	replyShortJustification  = "Слишком короткое обоснование. Попробуйте еще раз:"
	replyNotRegistered       = "Вы не зарегистрированы. Нажмите /start"
	replyExpenseCreateFailed = "Произошла ошибка при создании заявки. Попробуйте еще раз."
	replyMoneyCreateFailed   = "Произошла ошибка при создании запроса. Попробуйте еще раз."
	replyCancelled           = "Действие отменено."
)

func startPrompt(f session.Flow) string {
	if f == session.FlowExpense {
		return promptExpenseAmount
	}
	return promptMoneyAmount
}

// advanceAmount обрабатывает шаг ввода суммы. При неверном вводе черновик
// не меняется и состояние остаётся прежним.
func advanceAmount(d *session.Draft, text string) string {
	amount, err := ParseAmount(text)
	if err != nil {
		return replyBadAmount
	}
	d.Amount = amount
	d.State = session.StateAwaitJustification
	if d.Flow == session.FlowExpense {
		return promptExpenseJustification
	}
	return promptMoneyJustification
}

// advanceJustification обрабатывает шаг обоснования. commit=true означает,
// что все поля собраны (денежный запрос завершается без чека).
func advanceJustification(d *session.Draft, text string) (reply string, commit bool) {
	if !ValidJustification(text) {
		return replyShortJustification, false
	}
	d.Justification = text
	if d.Flow == session.FlowExpense {
		d.State = session.StateAwaitReceipt
		return promptReceipt, false
	}
	return "", true
}
