package model

// ShiftStatus is the lifecycle state of a scheduled shift
type ShiftStatus string

const (
	StatusPendingConfirmation ShiftStatus = "pending_confirmation"
	StatusConfirmed           ShiftStatus = "confirmed"
	StatusScheduled           ShiftStatus = "scheduled"
	StatusInProgress          ShiftStatus = "in_progress"
	StatusCompleted           ShiftStatus = "completed"
	StatusOffered             ShiftStatus = "offered"
	StatusUnfilled            ShiftStatus = "unfilled"
	StatusDeclined            ShiftStatus = "declined"
	StatusExpired             ShiftStatus = "expired"
	StatusCancelled           ShiftStatus = "cancelled"
	StatusNoShow              ShiftStatus = "no_show"
)

var allStatuses = map[ShiftStatus]bool{
	StatusPendingConfirmation: true,
	StatusConfirmed:           true,
	StatusScheduled:           true,
	StatusInProgress:          true,
	StatusCompleted:           true,
	StatusOffered:             true,
	StatusUnfilled:            true,
	StatusDeclined:            true,
	StatusExpired:             true,
	StatusCancelled:           true,
	StatusNoShow:              true,
}

func (s ShiftStatus) IsValid() bool {
	return allStatuses[s]
}

// Blocks reports whether a shift in this status occupies the caregiver's
// time for conflict purposes. Terminal "never happened" states don't.
func (s ShiftStatus) Blocks() bool {
	switch s {
	case StatusCancelled, StatusDeclined, StatusExpired, StatusUnfilled:
		return false
	}
	return true
}

// transitions lists the allowed status changes. Cancellation is allowed
// from any non-terminal state so it is handled separately in CanTransitionTo.
var transitions = map[ShiftStatus][]ShiftStatus{
	StatusOffered:             {StatusPendingConfirmation, StatusUnfilled, StatusExpired},
	StatusPendingConfirmation: {StatusConfirmed, StatusDeclined},
	StatusConfirmed:           {StatusInProgress, StatusNoShow},
	StatusScheduled:           {StatusInProgress, StatusNoShow},
	StatusInProgress:          {StatusCompleted},
	StatusUnfilled:            {StatusScheduled, StatusOffered},
}

// terminal statuses admit no further transitions, including cancellation
var terminal = map[ShiftStatus]bool{
	StatusCompleted: true,
	StatusCancelled: true,
	StatusDeclined:  true,
	StatusExpired:   true,
	StatusNoShow:    true,
}

// IsTerminal reports whether no further transitions are allowed from s
func (s ShiftStatus) IsTerminal() bool {
	return terminal[s]
}

// CanTransitionTo reports whether the status change from s to next is allowed
func (s ShiftStatus) CanTransitionTo(next ShiftStatus) bool {
	if terminal[s] {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
