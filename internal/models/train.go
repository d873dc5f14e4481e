// Package models defines the data types shared across the simulator: trains,
// platform slots, reports, and the snapshot envelope broadcast to observers.
package models

// Priority is a train's allocation priority class. P1 is the highest and wins
// platforms ahead of P2 and P3 regardless of arrival order.
type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
)

// Rank returns the sort rank of the priority, lower being more urgent.
// Unknown priorities rank last.
func (p Priority) Rank() int {
	switch p {
	case PriorityP1:
		return 1
	case PriorityP2:
		return 2
	case PriorityP3:
		return 3
	default:
		return 4
	}
}

// IsValidPriority reports whether s names a known priority class.
func IsValidPriority(s string) bool {
	switch Priority(s) {
	case PriorityP1, PriorityP2, PriorityP3:
		return true
	}
	return false
}

// Train is one train record in the registry. Times are "HH:MM" time-of-day
// strings. Platform is 0 while the train holds no platform; actual times are
// empty until the corresponding lifecycle stage is reached.
type Train struct {
	TrainNumber        string   `json:"train_number"`
	ScheduledArrival   string   `json:"scheduled_arrival"`
	ScheduledDeparture string   `json:"scheduled_departure"`
	Priority           Priority `json:"priority"`
	ActualArrival      string   `json:"actual_arrival,omitempty"`
	ActualDeparture    string   `json:"actual_departure,omitempty"`
	Platform           int      `json:"platform,omitempty"`
	Status             Status   `json:"status"`
	IsDelayed          bool     `json:"is_delayed,omitempty"`
}

// PlatformSlot is one numbered single-occupancy platform. TrainNumber is a
// non-owning reference into the registry; "" means the slot is free.
type PlatformSlot struct {
	Number      int    `json:"platform_number"`
	TrainNumber string `json:"train_number,omitempty"`
}

// Occupied reports whether the slot currently holds a train.
func (s PlatformSlot) Occupied() bool {
	return s.TrainNumber != ""
}

// TrainReport is a train row in the arrivals/departures report, carrying the
// computed arrival delay in minutes (0 for on-time trains).
type TrainReport struct {
	Train
	DelayMinutes int `json:"delay_minutes"`
}
