package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/marentsov/financial-bot/internal/config"
	"github.com/marentsov/financial-bot/internal/logger"
	"github.com/marentsov/financial-bot/internal/metrics"
	"github.com/marentsov/financial-bot/internal/receipt"
	"github.com/marentsov/financial-bot/internal/repo"
	"github.com/marentsov/financial-bot/internal/session"
)

const (
	btnNewExpense = "Новая заявка"
	btnMyExpenses = "Мои заявки"
	btnNewMoney   = "Новый запрос"
	btnMyMoney    = "Мои запросы"
)

type Handler struct {
	api *tgbotapi.BotAPI
	cfg config.Config

	users    *repo.Users
	expenses *repo.Expenses
	money    *repo.Money

	sessions *session.Store
	receipts receipt.Storage
}

func NewHandler(api *tgbotapi.BotAPI, cfg config.Config, u *repo.Users, e *repo.Expenses, m *repo.Money, s *session.Store, rs receipt.Storage) *Handler {
	return &Handler{api: api, cfg: cfg, users: u, expenses: e, money: m, sessions: s, receipts: rs}
}

func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	// работаем только в личке
	if !msg.Chat.IsPrivate() || msg.From == nil {
		return
	}

	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, "/start"):
		h.handleStart(ctx, msg)
		return
	case strings.HasPrefix(text, "/help"):
		h.reply(msg.Chat.ID, helpText)
		return
	case strings.HasPrefix(text, "/cancel"):
		h.handleCancel(msg)
		return
	}

	// незавершённый диалог имеет приоритет над кнопками меню
	if d := h.sessions.Get(msg.From.ID); d.State != session.StateIdle {
		h.handleStep(ctx, msg, d)
		return
	}

	switch text {
	case btnNewExpense:
		h.startFlow(msg, session.FlowExpense)
	case btnMyExpenses:
		h.handleMyExpenses(ctx, msg)
	case btnNewMoney:
		h.startFlow(msg, session.FlowMoney)
	case btnMyMoney:
		h.handleMyMoney(ctx, msg)
	default:
		h.replyWithMenu(msg.Chat.ID, "Выберите действие:")
	}
}

func (h *Handler) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	var uname *string
	if msg.From.UserName != "" {
		s := msg.From.UserName
		uname = &s
	}
	var fullName *string
	if fn := strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName); fn != "" {
		fullName = &fn
	}

	user, created, err := h.users.GetOrCreate(ctx, msg.From.ID, uname, fullName)
	if err != nil {
		logger.Log.Error("get or create user", zap.Int64("telegram_id", msg.From.ID), zap.Error(err))
		h.reply(msg.Chat.ID, "Произошла ошибка. Попробуйте еще раз.")
		return
	}
	if created {
		logger.Log.Info("user registered", zap.Int64("telegram_id", user.TelegramID))
	}

	h.sessions.Clear(msg.From.ID)
	h.replyWithMenu(msg.Chat.ID, fmt.Sprintf(
		"Привет, %s!\n\nЯ бот для подачи заявок и запросов на возмещение денежных средств\nВыберите действие:",
		msg.From.FirstName,
	))
}

func (h *Handler) handleCancel(msg *tgbotapi.Message) {
	h.sessions.Clear(msg.From.ID)
	h.replyWithMenu(msg.Chat.ID, replyCancelled)
}

func (h *Handler) startFlow(msg *tgbotapi.Message, flow session.Flow) {
	h.sessions.Set(msg.From.ID, session.Draft{Flow: flow, State: session.StateAwaitAmount})
	h.reply(msg.Chat.ID, startPrompt(flow))
}

func (h *Handler) handleStep(ctx context.Context, msg *tgbotapi.Message, d session.Draft) {
	switch d.State {
	case session.StateAwaitAmount:
		reply := advanceAmount(&d, msg.Text)
		h.sessions.Set(msg.From.ID, d)
		h.reply(msg.Chat.ID, reply)

	case session.StateAwaitJustification:
		reply, commit := advanceJustification(&d, msg.Text)
		if commit {
			h.commitMoney(ctx, msg, d)
			return
		}
		h.sessions.Set(msg.From.ID, d)
		h.reply(msg.Chat.ID, reply)

	case session.StateAwaitReceipt:
		if len(msg.Photo) == 0 {
			h.reply(msg.Chat.ID, promptReceipt)
			return
		}
		h.commitExpense(ctx, msg, d)
	}
}

func (h *Handler) commitMoney(ctx context.Context, msg *tgbotapi.Message, d session.Draft) {
	// черновик в любом исходе отбрасывается: либо запрос создан целиком,
	// либо пользователь начинает заново
	defer h.sessions.Clear(msg.From.ID)

	user, err := h.users.GetByTelegramID(ctx, msg.From.ID)
	if errors.Is(err, repo.ErrNotFound) {
		h.replyWithMenu(msg.Chat.ID, replyNotRegistered)
		return
	}
	if err != nil {
		logger.Log.Error("lookup user", zap.Int64("telegram_id", msg.From.ID), zap.Error(err))
		h.replyWithMenu(msg.Chat.ID, replyMoneyCreateFailed)
		return
	}

	req, err := h.money.Create(ctx, user.ID, d.Amount, d.Justification)
	if err != nil {
		logger.Log.Error("create money request", zap.Int64("user_id", user.ID), zap.Error(err))
		h.replyWithMenu(msg.Chat.ID, replyMoneyCreateFailed)
		return
	}

	metrics.RequestsCreated.WithLabelValues("money").Inc()
	logger.Log.Info("money request created",
		zap.Int64("id", req.ID), zap.Int64("telegram_id", msg.From.ID))
	h.replyWithMenu(msg.Chat.ID, moneyConfirmation(req))
}

func (h *Handler) commitExpense(ctx context.Context, msg *tgbotapi.Message, d session.Draft) {
	defer h.sessions.Clear(msg.From.ID)

	// наибольшее разрешение транспорт отдаёт последним
	photo := msg.Photo[len(msg.Photo)-1]
	file, err := h.api.GetFile(tgbotapi.FileConfig{FileID: photo.FileID})
	if err != nil {
		logger.Log.Error("get photo file", zap.Error(err))
		h.replyWithMenu(msg.Chat.ID, replyExpenseCreateFailed)
		return
	}

	data, err := h.download(ctx, file.Link(h.api.Token))
	if err != nil {
		logger.Log.Error("download photo", zap.Error(err))
		h.replyWithMenu(msg.Chat.ID, replyExpenseCreateFailed)
		return
	}

	ext := extFromPath(file.FilePath)
	contentType := contentTypeForExt(ext)
	fileName := receiptFileName(msg.From.ID, msg.Time(), ext)

	user, err := h.users.GetByTelegramID(ctx, msg.From.ID)
	if errors.Is(err, repo.ErrNotFound) {
		h.replyWithMenu(msg.Chat.ID, replyNotRegistered)
		return
	}
	if err != nil {
		logger.Log.Error("lookup user", zap.Int64("telegram_id", msg.From.ID), zap.Error(err))
		h.replyWithMenu(msg.Chat.ID, replyExpenseCreateFailed)
		return
	}

	ref, err := h.receipts.Store(ctx, data, fileName, contentType)
	if err != nil {
		logger.Log.Error("store receipt", zap.Error(err))
		h.replyWithMenu(msg.Chat.ID, replyExpenseCreateFailed)
		return
	}

	req, err := h.expenses.Create(ctx, user.ID, d.Amount, d.Justification, ref, fileName, contentType)
	if err != nil {
		logger.Log.Error("create expense request", zap.Int64("user_id", user.ID), zap.Error(err))
		h.replyWithMenu(msg.Chat.ID, replyExpenseCreateFailed)
		return
	}

	metrics.RequestsCreated.WithLabelValues("expense").Inc()
	logger.Log.Info("expense request created",
		zap.Int64("id", req.ID), zap.Int64("telegram_id", msg.From.ID))
	h.replyWithMenu(msg.Chat.ID, expenseConfirmation(req))
}

func (h *Handler) handleMyExpenses(ctx context.Context, msg *tgbotapi.Message) {
	user, err := h.users.GetByTelegramID(ctx, msg.From.ID)
	if errors.Is(err, repo.ErrNotFound) {
		h.reply(msg.Chat.ID, replyNotRegistered)
		return
	}
	if err != nil {
		logger.Log.Error("lookup user", zap.Error(err))
		h.reply(msg.Chat.ID, "Произошла ошибка. Попробуйте еще раз.")
		return
	}

	list, err := h.expenses.ListByUser(ctx, user.ID, h.cfg.ExpensePageSize)
	if err != nil {
		logger.Log.Error("list expenses", zap.Int64("user_id", user.ID), zap.Error(err))
		h.reply(msg.Chat.ID, "Произошла ошибка. Попробуйте еще раз.")
		return
	}
	if len(list) == 0 {
		h.reply(msg.Chat.ID, "У вас пока нет заявок.")
		return
	}
	h.reply(msg.Chat.ID, renderExpenseList(list))
}

func (h *Handler) handleMyMoney(ctx context.Context, msg *tgbotapi.Message) {
	user, err := h.users.GetByTelegramID(ctx, msg.From.ID)
	if errors.Is(err, repo.ErrNotFound) {
		h.reply(msg.Chat.ID, replyNotRegistered)
		return
	}
	if err != nil {
		logger.Log.Error("lookup user", zap.Error(err))
		h.reply(msg.Chat.ID, "Произошла ошибка. Попробуйте еще раз.")
		return
	}

	list, err := h.money.ListByUser(ctx, user.ID, h.cfg.MoneyPageSize)
	if err != nil {
		logger.Log.Error("list money requests", zap.Int64("user_id", user.ID), zap.Error(err))
		h.reply(msg.Chat.ID, "Произошла ошибка. Попробуйте еще раз.")
		return
	}
	if len(list) == 0 {
		h.reply(msg.Chat.ID, "У вас пока нет запросов.")
		return
	}
	h.reply(msg.Chat.ID, renderMoneyList(list))
}

func (h *Handler) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func mainMenu() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnNewExpense),
			tgbotapi.NewKeyboardButton(btnMyExpenses),
			tgbotapi.NewKeyboardButton(btnNewMoney),
			tgbotapi.NewKeyboardButton(btnMyMoney),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func (h *Handler) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		logger.Log.Warn("send message", zap.Int64("chat", chatID), zap.Error(err))
	}
}

func (h *Handler) replyWithMenu(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = mainMenu()
	if _, err := h.api.Send(msg); err != nil {
		logger.Log.Warn("send message", zap.Int64("chat", chatID), zap.Error(err))
	}
}

const helpText = "Доступные команды:\n\n" +
	"/start - Главное меню\n" +
	"/help - Эта справка\n" +
	"/cancel - Отменить текущее действие\n\n" +
	"Как подать заявку:\n" +
	"1. Нажмите 'Новая заявка'\n" +
	"2. Укажите сумму\n" +
	"3. Напишите обоснование\n" +
	"4. Прикрепите фото чека\n\n" +
	"Как подать запрос:\n" +
	"1. Нажмите 'Новый запрос'\n" +
	"2. Укажите сумму\n" +
	"3. Напишите обоснование\n\n" +
	"Статусы:\n" +
	"Новая/Новый - на рассмотрении\n" +
	"Одобрена/Одобрен - финансист одобрил, скоро вам поступят деньги\n" +
	"Выплачена/Выплачен - финансист отправил вам денежные средства\n" +
	"Отклонена/Отклонен - заявка/запрос отклонены с комментарием"
