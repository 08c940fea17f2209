package domain

// Status is the lifecycle state of a Conversation.
type Status string

const (
	StatusRequested Status = "requested"
	StatusStarted   Status = "started"
	StatusEnded     Status = "ended"
	StatusDenied    Status = "denied"
)

// transitions lists every allowed move. Terminal states have no entry.
var transitions = map[Status][]Status{
	StatusRequested: {StatusStarted, StatusDenied},
	StatusStarted:   {StatusEnded},
}

// Statuses returns every known status, initial state first.
func Statuses() []Status {
	return []Status{StatusRequested, StatusStarted, StatusEnded, StatusDenied}
}

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusRequested, StatusStarted, StatusEnded, StatusDenied:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}
