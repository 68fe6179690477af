package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/classbot/internal/booking"
)

// Callback data grammar, kept wire-compatible with the original bot:
//
//	confirm_yes_<key>  accept a sign-up invitation
//	confirm_no_<key>   decline a sign-up invitation
//	slot_<key>_<n>     pick (or toggle off) slot n
//	busy               tap on a slot held by someone else
//	closed             tap on the "window closed" placeholder
type callbackKind int

const (
	callbackUnknown callbackKind = iota
	callbackConfirmYes
	callbackConfirmNo
	callbackSlot
	callbackBusy
	callbackClosed
)

type callback struct {
	kind callbackKind
	key  booking.SessionKey
	slot int
}

func parseCallback(data string) (callback, error) {
	switch {
	case data == "busy":
		return callback{kind: callbackBusy}, nil
	case data == "closed":
		return callback{kind: callbackClosed}, nil
	case strings.HasPrefix(data, "confirm_yes_"):
		key, err := booking.ParseSessionKey(strings.TrimPrefix(data, "confirm_yes_"))
		if err != nil {
			return callback{}, err
		}
		return callback{kind: callbackConfirmYes, key: key}, nil
	case strings.HasPrefix(data, "confirm_no_"):
		key, err := booking.ParseSessionKey(strings.TrimPrefix(data, "confirm_no_"))
		if err != nil {
			return callback{}, err
		}
		return callback{kind: callbackConfirmNo, key: key}, nil
	case strings.HasPrefix(data, "slot_"):
		rest := strings.TrimPrefix(data, "slot_")
		sep := strings.LastIndex(rest, "_")
		if sep <= 0 || sep == len(rest)-1 {
			return callback{}, fmt.Errorf("malformed slot callback %q", data)
		}
		key, err := booking.ParseSessionKey(rest[:sep])
		if err != nil {
			return callback{}, err
		}
		slot, err := strconv.Atoi(rest[sep+1:])
		if err != nil {
			return callback{}, fmt.Errorf("malformed slot number in callback %q: %w", data, err)
		}
		return callback{kind: callbackSlot, key: key, slot: slot}, nil
	}
	return callback{}, fmt.Errorf("unknown callback %q", data)
}

func confirmYesData(key booking.SessionKey) string {
	return "confirm_yes_" + key.String()
}

func confirmNoData(key booking.SessionKey) string {
	return "confirm_no_" + key.String()
}

func slotData(key booking.SessionKey, slot int) string {
	return fmt.Sprintf("slot_%s_%d", key.String(), slot)
}
