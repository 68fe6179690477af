package scheduler

import (
	"fmt"
	"time"

	"github.com/example/classbot/internal/booking"
	"github.com/example/classbot/internal/timetable"
)

// User-facing weekday names. Display only: control flow resolves weekdays
// through time.Weekday values, never through these strings.
var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Понедельник",
	time.Tuesday:   "Вторник",
	time.Wednesday: "Среда",
	time.Thursday:  "Четверг",
	time.Friday:    "Пятница",
	time.Saturday:  "Суббота",
	time.Sunday:    "Воскресенье",
}

func lectureMessage(entry timetable.Entry) string {
	return fmt.Sprintf("📘 Сейчас начинается лекция: <b>%s</b>\n%s в %s",
		entry.Subject, weekdayNames[entry.Day], entry.StartClock())
}

func openedMessage(entry timetable.Entry, window time.Duration) string {
	hours := int(window.Hours())
	if hours < 1 {
		hours = 1
	}
	return fmt.Sprintf("📢 Открыта запись на практику: <b>%s</b>\n%s в %s.\nЗапись будет открыта в течение %d часа.",
		entry.Subject, weekdayNames[entry.Day], entry.StartClock(), hours)
}

func closedMessage(subject string, key booking.SessionKey) string {
	return fmt.Sprintf("📢 Запись на практику <b>%s</b> (%s в %02d:%02d) закрыта. Ваше место подтверждено.",
		subject, weekdayNames[key.Day], key.Hour, key.Minute)
}
