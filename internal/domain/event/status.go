package event

import "fmt"

// Status is the persisted lifecycle status of an approved event.
type Status string

const (
	StatusScheduled  Status = "Scheduled"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusPostponed  Status = "Postponed"
	StatusCancelled  Status = "Cancelled"
)

// State is the full lifecycle position of an event, including the
// pre-approval states that have no Status.
type State string

const (
	StateUnapproved State = "unapproved"
	StateDeclined   State = "declined"
	StateScheduled  State = "scheduled"
	StateInProgress State = "in progress"
	StateCompleted  State = "completed"
	StatePostponed  State = "postponed"
	StateCancelled  State = "cancelled"
)

type Action string

const (
	ActionApprove  Action = "approve"
	ActionDecline  Action = "decline"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionPostpone Action = "postpone"
	ActionCancel   Action = "cancel"
)

var transitions = map[State]map[Action]State{
	StateUnapproved: {
		ActionApprove: StateScheduled,
		ActionDecline: StateDeclined,
	},
	StateScheduled: {
		ActionStart:    StateInProgress,
		ActionPostpone: StatePostponed,
		ActionCancel:   StateCancelled,
	},
	StateInProgress: {
		ActionComplete: StateCompleted,
	},
}

// NextState returns the state reached by applying action to current.
func NextState(current State, action Action) (State, error) {
	next, ok := transitions[current][action]
	if !ok {
		return current, fmt.Errorf("%w: cannot %s an event that is %s", ErrInvalidTransition, action, current)
	}
	return next, nil
}

// IsTerminal reports whether no action leads out of s.
func (s State) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Status returns the persisted status for an approved state.
func (s State) Status() (Status, bool) {
	switch s {
	case StateScheduled:
		return StatusScheduled, true
	case StateInProgress:
		return StatusInProgress, true
	case StateCompleted:
		return StatusCompleted, true
	case StatePostponed:
		return StatusPostponed, true
	case StateCancelled:
		return StatusCancelled, true
	}
	return "", false
}

// IsApproved reports whether s is reached only after approval.
func (s State) IsApproved() bool {
	_, ok := s.Status()
	return ok
}

// Editable reports whether event fields may still change in state s.
func (s State) Editable() bool {
	return s == StateUnapproved || s == StateScheduled
}

func stateForStatus(st Status) State {
	switch st {
	case StatusInProgress:
		return StateInProgress
	case StatusCompleted:
		return StateCompleted
	case StatusPostponed:
		return StatePostponed
	case StatusCancelled:
		return StateCancelled
	}
	return StateScheduled
}

// Transition is a conditional lifecycle write: it applies only while the
// stored event is still in From.
type Transition struct {
	From    State
	To      State
	Remarks *string
	Reason  *string
}
