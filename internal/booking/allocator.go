package booking

// Outcome describes the effect of a successful slot selection.
type Outcome int

const (
	// OutcomeAssigned means the user now holds the requested slot.
	OutcomeAssigned Outcome = iota
	// OutcomeReleased means the user tapped their own slot and gave it up.
	OutcomeReleased
)

// SelectResult reports what a slot selection did.
type SelectResult struct {
	Outcome Outcome
	Slot    int
}

// SelectSlot applies one slot selection as a single atomic step.
//
// Rules, in order: the slot number must be in range; the session must still
// be open; a slot held by someone else is busy; re-selecting one's own slot
// releases it; otherwise any other slot the user holds in this session is
// released first, then the requested slot is assigned. A user therefore holds
// at most one slot per session, and a slot has at most one occupant.
func (r *Registry) SelectSlot(key SessionKey, slot int, user UserID) (SelectResult, error) {
	if slot < 1 || slot > r.maxSlots {
		return SelectResult{}, ErrInvalidSlot
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[key]
	if !ok {
		return SelectResult{}, ErrSessionClosed
	}

	if occupant, taken := sess.slots[slot]; taken {
		if occupant != user {
			return SelectResult{}, ErrSlotBusy
		}
		delete(sess.slots, slot)
		return SelectResult{Outcome: OutcomeReleased, Slot: slot}, nil
	}

	for held, occupant := range sess.slots {
		if occupant == user {
			delete(sess.slots, held)
			break
		}
	}
	sess.slots[slot] = user
	return SelectResult{Outcome: OutcomeAssigned, Slot: slot}, nil
}

// SlotState is the per-viewer visibility of one slot.
type SlotState int

const (
	// SlotFree means nobody holds the slot.
	SlotFree SlotState = iota
	// SlotHeld means the viewer holds the slot.
	SlotHeld
	// SlotTaken means another user holds the slot; the occupant identity is
	// not revealed to the viewer.
	SlotTaken
)

// SlotView is one cell of the rendered grid.
type SlotView struct {
	Number int
	State  SlotState
}

// Grid is the per-viewer masked rendering of a session's slot table.
type Grid struct {
	Key     SessionKey
	Subject string
	Slots   []SlotView
}

// Grid renders the slot table masked for the given viewer, or
// ErrSessionClosed when the window is no longer open.
func (r *Registry) Grid(key SessionKey, viewer UserID) (Grid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[key]
	if !ok {
		return Grid{}, ErrSessionClosed
	}

	grid := Grid{Key: key, Subject: sess.subject, Slots: make([]SlotView, 0, r.maxSlots)}
	for number := 1; number <= r.maxSlots; number++ {
		state := SlotFree
		if occupant, taken := sess.slots[number]; taken {
			if occupant == viewer {
				state = SlotHeld
			} else {
				state = SlotTaken
			}
		}
		grid.Slots = append(grid.Slots, SlotView{Number: number, State: state})
	}
	return grid, nil
}
