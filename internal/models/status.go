package models

// Status is a train's lifecycle state. The lifecycle is a closed forward
// chain: waiting -> arriving -> at_platform -> departing -> departed.
// Transitions never skip a stage and never reverse.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusArriving   Status = "arriving"
	StatusAtPlatform Status = "at_platform"
	StatusDeparting  Status = "departing"
	StatusDeparted   Status = "departed"
)

// transitions is the set of permitted lifecycle moves. The operator-requested
// departure path still walks the chain: it applies departing and departed in
// sequence within a single operation.
var transitions = map[Status]Status{
	StatusWaiting:    StatusArriving,
	StatusArriving:   StatusAtPlatform,
	StatusAtPlatform: StatusDeparting,
	StatusDeparting:  StatusDeparted,
}

// CanTransition reports whether moving from one status to the next is a legal
// lifecycle step.
func (s Status) CanTransition(to Status) bool {
	return transitions[s] == to
}

// OnPlatform reports whether a train in this status holds a platform slot.
func (s Status) OnPlatform() bool {
	switch s {
	case StatusArriving, StatusAtPlatform, StatusDeparting:
		return true
	}
	return false
}

// Reportable reports whether trains in this status appear in the
// arrivals/departures report. Arriving trains are deliberately excluded: a
// train enters the report only once it has settled at its platform.
func (s Status) Reportable() bool {
	switch s {
	case StatusAtPlatform, StatusDeparting, StatusDeparted:
		return true
	}
	return false
}
