package booking

import "errors"

var (
	// ErrSessionClosed is returned when the targeted sign-up window has
	// expired or was never opened. Non-retryable from the user's side.
	ErrSessionClosed = errors.New("booking: session closed")
	// ErrSlotBusy is returned when the requested slot is held by another
	// user. The caller should re-render the grid and let the user retry.
	ErrSlotBusy = errors.New("booking: slot busy")
	// ErrInvalidSlot is returned for slot numbers outside 1..MaxSlots.
	ErrInvalidSlot = errors.New("booking: invalid slot number")
)
