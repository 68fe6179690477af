package booking

import (
	"fmt"
	"strings"
	"time"
)

// SessionKey identifies one weekly occurrence of a practice sign-up window by
// its weekday and start time. The textual form is locale independent:
// Go weekday names are fixed English strings regardless of host locale.
type SessionKey struct {
	Day    time.Weekday
	Hour   int
	Minute int
}

// String renders the key in the wire format used by callbacks and
// persistence, e.g. "monday_12:40".
func (k SessionKey) String() string {
	return fmt.Sprintf("%s_%02d:%02d", strings.ToLower(k.Day.String()), k.Hour, k.Minute)
}

// Label renders the key for user-facing messages, e.g. "monday 12:40".
func (k SessionKey) Label() string {
	return fmt.Sprintf("%s %02d:%02d", strings.ToLower(k.Day.String()), k.Hour, k.Minute)
}

var weekdaysByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseSessionKey parses the wire form produced by SessionKey.String.
func ParseSessionKey(value string) (SessionKey, error) {
	parts := strings.SplitN(value, "_", 2)
	if len(parts) != 2 {
		return SessionKey{}, fmt.Errorf("malformed session key %q", value)
	}

	day, ok := weekdaysByName[strings.ToLower(parts[0])]
	if !ok {
		return SessionKey{}, fmt.Errorf("unknown weekday in session key %q", value)
	}

	var hour, minute int
	if _, err := fmt.Sscanf(parts[1], "%d:%d", &hour, &minute); err != nil {
		return SessionKey{}, fmt.Errorf("malformed time in session key %q: %w", value, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return SessionKey{}, fmt.Errorf("time out of range in session key %q", value)
	}

	return SessionKey{Day: day, Hour: hour, Minute: minute}, nil
}
