package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/classbot/internal/booking"
	"github.com/example/classbot/internal/notify"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type bookingService interface {
	RegisterUser(ctx context.Context, id booking.UserID)
	ConfirmYes(key booking.SessionKey, user booking.UserID) (booking.Grid, error)
	ConfirmDecline()
	SelectSlot(ctx context.Context, key booking.SessionKey, slot int, user booking.UserID) (booking.SelectResult, booking.Grid, error)
	Grid(key booking.SessionKey, viewer booking.UserID) (booking.Grid, error)
}

// botClient is the slice of the Telegram API the transport uses. Satisfied by
// *tgbotapi.BotAPI; tests substitute a recorder.
type botClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Transport bridges Telegram to the booking core: it ingests commands and
// button presses via long polling and delivers outbound notifications,
// implementing notify.Notifier.
type Transport struct {
	bot     botClient
	service bookingService
	logger  *slog.Logger
}

// NewTransport authenticates against the Telegram API.
func NewTransport(token string, service bookingService, logger *slog.Logger) (*Transport, error) {
	if logger == nil {
		logger = slog.Default()
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate telegram bot: %w", err)
	}
	logger.Info("telegram bot authenticated", "username", bot.Self.UserName)
	return &Transport{bot: bot, service: service, logger: logger}, nil
}

// Send implements notify.Notifier.
func (t *Transport) Send(ctx context.Context, recipient int64, msg notify.Message) error {
	out := tgbotapi.NewMessage(recipient, msg.Text)
	out.ParseMode = tgbotapi.ModeHTML
	if msg.ConfirmKey != "" {
		key, err := booking.ParseSessionKey(msg.ConfirmKey)
		if err != nil {
			return fmt.Errorf("bad confirm key on outbound message: %w", err)
		}
		out.ReplyMarkup = confirmKeyboard(key)
	}
	if _, err := t.bot.Send(out); err != nil {
		return err
	}
	return nil
}

// Run consumes updates until ctx is done.
func (t *Transport) Run(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := t.bot.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			t.logger.Info("telegram transport stopping", "reason", ctx.Err())
			return
		case update, ok := <-updates:
			if !ok {
				t.logger.Info("telegram update channel closed")
				return
			}
			t.handleUpdate(ctx, update)
		}
	}
}

func (t *Transport) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		t.handleCommand(ctx, update.Message)
	case update.CallbackQuery != nil:
		t.handleCallback(ctx, update.CallbackQuery)
	}
}

func (t *Transport) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	if message.Command() != "start" {
		return
	}
	t.service.RegisterUser(ctx, message.From.ID)
	reply := tgbotapi.NewMessage(message.Chat.ID, "Бот запущен. Ждите уведомлений о занятиях.")
	if _, err := t.bot.Send(reply); err != nil {
		t.logger.Warn("failed to send registration reply", "user_id", message.From.ID, "error", err)
	}
}

func (t *Transport) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	parsed, err := parseCallback(query.Data)
	if err != nil {
		t.logger.Warn("ignoring unparseable callback", "data", query.Data, "error", err)
		t.answer(query.ID, "Произошла ошибка. Попробуйте еще раз.", true)
		return
	}

	// Telegram omits Message on queries from keyboards older than 48 hours,
	// long past any sign-up window. There is nothing left to edit; just
	// answer the tap.
	if query.Message == nil {
		t.answer(query.ID, "Запись на эту практику уже закрыта.", true)
		return
	}

	user := query.From.ID

	switch parsed.kind {
	case callbackBusy:
		t.answer(query.ID, "Это место уже занято другим пользователем.", true)

	case callbackClosed:
		t.answer(query.ID, "Запись на эту практику уже закрыта.", true)

	case callbackConfirmNo:
		t.service.ConfirmDecline()
		t.editText(query, "❌ Вы отказались от записи.")
		t.answer(query.ID, "", false)

	case callbackConfirmYes:
		grid, err := t.service.ConfirmYes(parsed.key, user)
		if err != nil {
			t.editText(query, "Запись на эту практику уже закрыта.")
			t.answer(query.ID, "Запись на эту практику уже закрыта.", true)
			return
		}
		t.editTextWithKeyboard(query,
			fmt.Sprintf("Выберите место на практику: <b>%s</b>\n(%s):", grid.Subject, parsed.key.Label()),
			slotKeyboard(grid))
		t.answer(query.ID, "", false)

	case callbackSlot:
		t.handleSlotPick(ctx, query, parsed, user)
	}
}

func (t *Transport) handleSlotPick(ctx context.Context, query *tgbotapi.CallbackQuery, parsed callback, user int64) {
	result, grid, err := t.service.SelectSlot(ctx, parsed.key, parsed.slot, user)
	switch {
	case errors.Is(err, booking.ErrSlotBusy):
		t.answer(query.ID, "Это место только что заняли. Выберите другое.", true)
		if fresh, gridErr := t.service.Grid(parsed.key, user); gridErr == nil {
			t.editKeyboard(query, slotKeyboard(fresh))
		}
		return
	case errors.Is(err, booking.ErrSessionClosed):
		t.editText(query, "Запись на эту практику уже закрыта.")
		t.answer(query.ID, "Запись на эту практику уже закрыта.", true)
		return
	case errors.Is(err, booking.ErrInvalidSlot):
		t.answer(query.ID, "Такого места не существует.", true)
		return
	case err != nil:
		t.logger.Error("slot selection failed", "user_id", user, "session", parsed.key.String(), "error", err)
		t.answer(query.ID, "Произошла ошибка. Попробуйте еще раз.", true)
		return
	}

	if result.Outcome == booking.OutcomeReleased {
		t.answer(query.ID, fmt.Sprintf("Ваша запись на место #%d отменена.", result.Slot), false)
	} else {
		t.answer(query.ID, fmt.Sprintf("Вы выбрали место #%d.", result.Slot), false)
	}

	if len(grid.Slots) > 0 {
		t.editKeyboard(query, slotKeyboard(grid))
	} else {
		// Window closed between the selection and the re-render.
		t.editKeyboard(query, closedKeyboard())
	}
}

func (t *Transport) answer(callbackID, text string, alert bool) {
	answer := tgbotapi.NewCallback(callbackID, text)
	if alert {
		answer = tgbotapi.NewCallbackWithAlert(callbackID, text)
	}
	if _, err := t.bot.Request(answer); err != nil {
		t.logger.Warn("failed to answer callback", "error", err)
	}
}

func (t *Transport) editText(query *tgbotapi.CallbackQuery, text string) {
	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := t.bot.Send(edit); err != nil {
		t.logger.Warn("failed to edit message text", "error", err)
	}
}

func (t *Transport) editTextWithKeyboard(query *tgbotapi.CallbackQuery, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(query.Message.Chat.ID, query.Message.MessageID, text, keyboard)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := t.bot.Send(edit); err != nil {
		t.logger.Warn("failed to edit message", "error", err)
	}
}

func (t *Transport) editKeyboard(query *tgbotapi.CallbackQuery, keyboard tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageReplyMarkup(query.Message.Chat.ID, query.Message.MessageID, keyboard)
	if _, err := t.bot.Send(edit); err != nil {
		t.logger.Warn("failed to edit reply markup", "error", err)
	}
}
