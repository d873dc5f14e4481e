package sim

import (
	"log"

	"github.com/stationsim/station-cli/internal/models"
	"github.com/stationsim/station-cli/internal/timeutil"
)

// Registry owns the canonical train list and every mutation to it. Trains are
// never removed once loaded: departed trains stay behind for reporting. The
// registry is not safe for concurrent use on its own; the engine serializes
// all access.
type Registry struct {
	trains []*models.Train
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Patch is a partial update applied to a train record. Nil fields are left
// untouched.
type Patch struct {
	Status             *models.Status
	Platform           *int
	ActualArrival      *string
	ActualDeparture    *string
	ScheduledDeparture *string
	IsDelayed          *bool
}

// Load replaces the whole collection. Every supplied record is reset to the
// start of its lifecycle: status forced to waiting, platform assignment and
// actual times cleared, delay flag dropped, whatever the input carried.
func (r *Registry) Load(trains []models.Train) {
	r.trains = make([]*models.Train, 0, len(trains))
	for _, t := range trains {
		train := t
		train.Status = models.StatusWaiting
		train.Platform = 0
		train.ActualArrival = ""
		train.ActualDeparture = ""
		train.IsDelayed = false
		r.trains = append(r.trains, &train)
	}
}

// Apply merges a patch into the named train. An unknown train number is an
// internal invariant violation (callers only reference ids they obtained from
// the registry); it is logged and otherwise ignored. Status changes that are
// not legal lifecycle steps are likewise dropped.
func (r *Registry) Apply(trainNumber string, patch Patch) {
	train := r.find(trainNumber)
	if train == nil {
		log.Printf("registry: patch for unknown train %q dropped", trainNumber)
		return
	}

	if patch.Status != nil {
		if !train.Status.CanTransition(*patch.Status) {
			log.Printf("registry: illegal transition %s -> %s for train %s dropped",
				train.Status, *patch.Status, trainNumber)
			return
		}
		train.Status = *patch.Status
	}
	if patch.Platform != nil {
		train.Platform = *patch.Platform
	}
	if patch.ActualArrival != nil {
		train.ActualArrival = *patch.ActualArrival
	}
	if patch.ActualDeparture != nil {
		train.ActualDeparture = *patch.ActualDeparture
	}
	if patch.ScheduledDeparture != nil {
		train.ScheduledDeparture = *patch.ScheduledDeparture
	}
	if patch.IsDelayed != nil {
		train.IsDelayed = *patch.IsDelayed
	}
}

// Get returns a copy of the named train, if present.
func (r *Registry) Get(trainNumber string) (models.Train, bool) {
	if train := r.find(trainNumber); train != nil {
		return *train, true
	}
	return models.Train{}, false
}

// Waiting returns copies of all waiting trains in insertion order. The view
// is recomputed on every call, never cached.
func (r *Registry) Waiting() []models.Train {
	waiting := make([]models.Train, 0)
	for _, train := range r.trains {
		if train.Status == models.StatusWaiting {
			waiting = append(waiting, *train)
		}
	}
	return waiting
}

// Reports returns the arrivals/departures report rows: trains that are at a
// platform, departing, or departed. Arriving trains are excluded until they
// settle. Each row carries the arrival delay in minutes.
func (r *Registry) Reports() []models.TrainReport {
	reports := make([]models.TrainReport, 0)
	for _, train := range r.trains {
		if !train.Status.Reportable() {
			continue
		}
		reports = append(reports, models.TrainReport{
			Train:        *train,
			DelayMinutes: arrivalDelay(*train),
		})
	}
	return reports
}

// All returns copies of every train in insertion order.
func (r *Registry) All() []models.Train {
	all := make([]models.Train, len(r.trains))
	for i, train := range r.trains {
		all[i] = *train
	}
	return all
}

// Len returns the number of registered trains.
func (r *Registry) Len() int {
	return len(r.trains)
}

func (r *Registry) find(trainNumber string) *models.Train {
	for _, train := range r.trains {
		if train.TrainNumber == trainNumber {
			return train
		}
	}
	return nil
}

// arrivalDelay is the positive minute gap between scheduled and actual
// arrival, 0 for on-time or not-yet-arrived trains.
func arrivalDelay(train models.Train) int {
	if train.ActualArrival == "" {
		return 0
	}
	delay, err := timeutil.MinutesBetween(train.ScheduledArrival, train.ActualArrival)
	if err != nil || delay < 0 {
		return 0
	}
	return delay
}
