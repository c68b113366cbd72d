package domain

// Status represents the lifecycle state shared by tasks, products and
// orders. The same vocabulary is used at all three levels; product and
// order values are derived from their children, never set directly.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusInProcess Status = "IN_PROCESS"
	StatusFinished  Status = "FINISHED"

	// StatusDelayed is an overlay state stamped on tasks by the delay
	// audit. It is never produced by aggregation.
	StatusDelayed Status = "DELAYED"
)

// statusRank defines the total order PENDING < IN_PROCESS < FINISHED.
// DELAYED sits alongside IN_PROCESS: a delayed task is still mid-flow
// as far as its parents are concerned.
var statusRank = map[Status]int{
	StatusPending:   1,
	StatusInProcess: 2,
	StatusDelayed:   2,
	StatusFinished:  3,
}

// IsValid checks if the status is one of the allowed values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProcess, StatusFinished, StatusDelayed:
		return true
	default:
		return false
	}
}

// Rank returns the position of the status in the lifecycle order.
// Returns 0 for unknown statuses.
func (s Status) Rank() int {
	return statusRank[s]
}

// Before reports whether s comes strictly earlier in the lifecycle
// than other.
func (s Status) Before(other Status) bool {
	return s.Rank() < other.Rank()
}

// IsTerminal returns true if no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusFinished
}

// InFlight returns true if the status counts as progress when
// projecting a parent's state: anything other than PENDING means work
// on the child has begun.
func (s Status) InFlight() bool {
	return s != StatusPending
}
