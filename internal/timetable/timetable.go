package timetable

import (
	"fmt"
	"time"
)

// Kind distinguishes the two classes of scheduled events.
type Kind int

const (
	// KindLecture is announced to all registered users when it starts.
	KindLecture Kind = iota
	// KindPractice opens a time-boxed sign-up window when it starts.
	KindPractice
)

// String returns the stable identifier used in event keys and logs.
func (k Kind) String() string {
	switch k {
	case KindLecture:
		return "lecture"
	case KindPractice:
		return "practice"
	}
	return "unknown"
}

// Entry is one occurrence in the fixed weekly schedule. Entries are immutable
// after catalog construction.
type Entry struct {
	Day     time.Weekday
	Hour    int
	Minute  int
	Kind    Kind
	Subject string
}

// StartClock renders the entry start time as HH:MM.
func (e Entry) StartClock() string {
	return fmt.Sprintf("%02d:%02d", e.Hour, e.Minute)
}

// EventID is the stable identity of the entry used for notification
// deduplication. It is built from the locale-independent weekday index so the
// same entry produces the same ID regardless of host locale.
func (e Entry) EventID() string {
	return fmt.Sprintf("%d_%s_%s_%s", int(e.Day), e.StartClock(), e.Kind, e.Subject)
}

// Catalog is the full weekly schedule the scheduler loop consults each tick.
type Catalog []Entry

// At returns every entry scheduled exactly at the given weekday and
// minute-of-day. The tick interval is finer than a minute, so the caller is
// expected to deduplicate repeated matches.
func (c Catalog) At(day time.Weekday, hour, minute int) []Entry {
	var matched []Entry
	for _, entry := range c {
		if entry.Day == day && entry.Hour == hour && entry.Minute == minute {
			matched = append(matched, entry)
		}
	}
	return matched
}

// Default reproduces the production weekly schedule.
func Default() Catalog {
	return Catalog{
		{time.Monday, 9, 0, KindLecture, "Теория вероятностей и математическая статистика"},
		{time.Monday, 10, 40, KindLecture, "Проектирование баз данных"},
		{time.Monday, 12, 40, KindPractice, "Иностранный язык"},
		{time.Tuesday, 9, 0, KindLecture, "Философия"},
		{time.Tuesday, 10, 40, KindLecture, "Социальная психология и педагогика"},
		{time.Wednesday, 14, 35, KindLecture, "Лекция Среды (Финансы)"},
		{time.Wednesday, 15, 10, KindPractice, "Практика Среды (Английский)"},
		{time.Thursday, 10, 40, KindLecture, "Технология разработки программных приложений"},
		{time.Thursday, 12, 40, KindPractice, "Теория принятия решений"},
		{time.Thursday, 14, 20, KindPractice, "Технология разработки программных приложений"},
		{time.Thursday, 16, 20, KindPractice, "Физическая культура и спорт"},
		{time.Friday, 9, 0, KindPractice, "Анализ и концептуальное моделирование систем"},
		{time.Friday, 10, 40, KindPractice, "Проектирование баз данных"},
		{time.Friday, 12, 40, KindPractice, "Многоагентное моделирование"},
		{time.Friday, 14, 20, KindPractice, "Иностранный язык"},
		{time.Friday, 16, 20, KindPractice, "Иностранный язык"},
		{time.Saturday, 12, 40, KindPractice, "Теория вероятностей и математическая статистика"},
		{time.Saturday, 14, 20, KindPractice, "Теория вероятностей и математическая статистика"},
		{time.Saturday, 16, 20, KindPractice, "Программирование на языке Питон"},
		{time.Saturday, 18, 0, KindPractice, "Программирование на языке Питон"},
	}
}
