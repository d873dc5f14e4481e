package models

// SnapshotSchemaVersion identifies the snapshot wire format.
const SnapshotSchemaVersion = "station.snapshot.v1"

// PlatformState is one platform slot joined with its occupant's full record
// for display. Train is nil when the slot is free.
type PlatformState struct {
	PlatformNumber int    `json:"platform_number"`
	Train          *Train `json:"train,omitempty"`
}

// Snapshot is the read-only view of the whole simulation at the end of a
// tick: what every observer (websocket clients, the control API, recordings,
// the console) consumes. Waiting preserves registry insertion order; the
// priority ordering is internal to allocation only.
type Snapshot struct {
	SchemaVersion string          `json:"schema_version"`
	RunID         string          `json:"run_id"`
	Sequence      int64           `json:"sequence"`
	CurrentTime   string          `json:"current_time"`
	Running       bool            `json:"running"`
	Speed         int             `json:"speed"`
	Platforms     []PlatformState `json:"platforms"`
	Waiting       []Train         `json:"waiting"`
	Reports       []TrainReport   `json:"reports"`
}

// NewSnapshot creates a snapshot envelope with the schema version stamped.
func NewSnapshot(runID string, sequence int64, currentTime string, running bool, speed int) Snapshot {
	return Snapshot{
		SchemaVersion: SnapshotSchemaVersion,
		RunID:         runID,
		Sequence:      sequence,
		CurrentTime:   currentTime,
		Running:       running,
		Speed:         speed,
	}
}
