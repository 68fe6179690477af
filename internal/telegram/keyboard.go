package telegram

import (
	"fmt"

	"github.com/example/classbot/internal/booking"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const slotsPerRow = 6

// confirmKeyboard renders the yes/no sign-up affordance for an opened window.
func confirmKeyboard(key booking.SessionKey) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Да", confirmYesData(key)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Нет", confirmNoData(key)),
		),
	)
}

// closedKeyboard replaces the slot grid once the window is gone.
func closedKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Запись закрыта", "closed"),
		),
	)
}

// slotKeyboard renders the masked slot grid: the viewer's own slot carries a
// check mark and stays tappable (toggle off), other users' slots render
// locked, free slots render as bare numbers.
func slotKeyboard(grid booking.Grid) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, (len(grid.Slots)+slotsPerRow-1)/slotsPerRow)
	row := make([]tgbotapi.InlineKeyboardButton, 0, slotsPerRow)

	for _, slot := range grid.Slots {
		var button tgbotapi.InlineKeyboardButton
		switch slot.State {
		case booking.SlotHeld:
			button = tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅%d", slot.Number), slotData(grid.Key, slot.Number))
		case booking.SlotTaken:
			button = tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🔒%d", slot.Number), "busy")
		default:
			button = tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d", slot.Number), slotData(grid.Key, slot.Number))
		}
		row = append(row, button)
		if len(row) == slotsPerRow {
			rows = append(rows, row)
			row = make([]tgbotapi.InlineKeyboardButton, 0, slotsPerRow)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
