// Package sim implements the station simulation engine: the simulated clock,
// the train registry and its lifecycle, the platform pool, the priority
// allocator, and the departure processor.
//
// The engine advances in discrete one-minute ticks. Each tick runs three
// passes in a fixed order:
//
//  1. Dwell pass - pending arrival-settle and departure-removal transitions
//     count down one tick and fire when they reach zero, so platforms freed
//     by a completed departure are reusable within the same tick.
//
//  2. Departure pass - every settled occupant whose scheduled departure has
//     passed begins departing.
//
//  3. Allocation pass - eligible waiting trains are matched to free platforms
//     in priority order.
//
// Dwell is counted in simulated ticks rather than wall-clock time, so
// stopping the clock freezes in-flight arrivals and departures along with
// everything else.
package sim

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stationsim/station-cli/internal/models"
	"github.com/stationsim/station-cli/internal/timeutil"
)

// DefaultDwellTicks is how many ticks a train spends arriving before it
// settles, and departing before it vacates.
const DefaultDwellTicks = 2

// Config holds engine construction parameters.
type Config struct {
	PlatformCount int    // number of platform slots, caller-clamped to [2,20]
	DwellTicks    int    // ticks per arrival/departure dwell; 0 means default
	Speed         int    // initial speed multiplier; 0 means default
	StartTime     string // "HH:MM" simulated start; "" means wall clock time-of-day
}

// dwellKind distinguishes the two deferred transitions.
type dwellKind int

const (
	dwellSettle dwellKind = iota // arriving -> at_platform
	dwellRemove                  // departing -> departed, slot vacated
)

// dwell is one pending deferred transition. Identity (train number plus
// platform number) is re-validated when it fires, because a reconfiguration
// may have cleared the slot or the train in the meantime. The epoch pins the
// entry to the train population it was queued for: a reload can reuse train
// numbers, and a name-plus-platform match alone would let a stale entry
// settle the new train early.
type dwell struct {
	kind        dwellKind
	trainNumber string
	platform    int
	remaining   int
	epoch       int
}

// Engine is one self-contained simulation instance. All state is owned by the
// engine and guarded by its mutex; the tick loop, the control API, and
// snapshot readers may touch it from different goroutines.
type Engine struct {
	mu sync.Mutex

	runID      string
	registry   *Registry
	pool       *Pool
	clock      *Clock
	dwellTicks int
	pending    []dwell
	epoch      int
	sequence   int64

	ticker *time.Ticker
	stop   chan struct{}
	sink   chan<- models.Snapshot
}

// NewEngine creates an engine with an empty registry and the configured
// number of platforms. Each engine gets a fresh run ID.
func NewEngine(cfg Config) *Engine {
	dwellTicks := cfg.DwellTicks
	if dwellTicks <= 0 {
		dwellTicks = DefaultDwellTicks
	}

	clock := NewClock(cfg.StartTime)
	clock.setSpeed(cfg.Speed)

	return &Engine{
		runID:      uuid.New().String(),
		registry:   NewRegistry(),
		pool:       NewPool(cfg.PlatformCount),
		clock:      clock,
		dwellTicks: dwellTicks,
	}
}

// RunID returns the engine's run identifier.
func (e *Engine) RunID() string {
	return e.runID
}

// LoadTrains replaces the train list. Every record restarts at waiting with
// its per-run fields cleared, and all platform slots are emptied. The clock
// is untouched: loading while running does not reset simulated time. The
// epoch advances so pending dwell completions for the old population are
// discarded when they fire, even when the new schedule reuses train numbers.
func (e *Engine) LoadTrains(trains []models.Train) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.registry.Load(trains)
	e.pool.Resize(e.pool.Count())
	e.epoch++
}

// SetPlatformCount rebuilds the platform pool with n empty slots. In-flight
// occupancy is dropped silently; occupant train records are not rewound.
// Range validation belongs to the caller.
func (e *Engine) SetPlatformCount(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pool.Resize(n)
}

// Start begins the tick loop at the current speed. Starting a running engine
// is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.clock.Running() {
		return
	}
	e.clock.setRunning(true)
	e.stop = make(chan struct{})
	e.ticker = time.NewTicker(e.clock.Interval())

	go e.run(e.ticker, e.stop)
}

// Stop halts the tick loop. Simulated time and all train state freeze,
// including in-flight dwells: nothing progresses until Start is called again.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.clock.Running() {
		return
	}
	e.clock.setRunning(false)
	e.ticker.Stop()
	close(e.stop)
}

// SetSpeed changes the speed multiplier. When running, the tick interval is
// re-armed immediately. Non-positive values are ignored.
func (e *Engine) SetSpeed(speed int) {
	if speed <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock.setSpeed(speed)
	if e.clock.Running() {
		e.ticker.Reset(e.clock.Interval())
	}
}

// SetSink registers a channel that receives a snapshot after every tick.
// Sends are non-blocking: when the sink is full the snapshot is dropped, the
// tick loop never stalls on a slow consumer.
func (e *Engine) SetSink(sink chan<- models.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = sink
}

func (e *Engine) run(ticker *time.Ticker, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// A tick can be pending when Stop fires; re-check before acting.
			select {
			case <-stop:
				return
			default:
			}
			e.Tick()
		}
	}
}

// Tick advances the simulation by exactly one minute and runs the dwell,
// departure, and allocation passes in order. It may also be called directly
// for deterministic single-stepping.
func (e *Engine) Tick() {
	e.mu.Lock()
	e.clock.Advance()
	e.sequence++

	e.advanceDwells()
	e.processDepartures()
	e.allocate()

	snapshot := e.snapshotLocked()
	sink := e.sink
	e.mu.Unlock()

	if sink != nil {
		select {
		case sink <- snapshot:
		default:
			// Consumer is behind; drop rather than stall the tick.
		}
	}
}

// advanceDwells counts every pending transition down one tick and fires those
// that reach zero. A completion applies only if it was queued for the current
// train population, the slot still holds the same train, and the train is
// still in the expected state; anything stale - after a reload, a resize, or
// an operator departure - is discarded.
func (e *Engine) advanceDwells() {
	remaining := e.pending[:0]
	for _, d := range e.pending {
		d.remaining--
		if d.remaining > 0 {
			remaining = append(remaining, d)
			continue
		}
		e.completeDwell(d)
	}
	e.pending = remaining
}

func (e *Engine) completeDwell(d dwell) {
	if d.epoch != e.epoch {
		log.Printf("engine: dwell for train %s from a replaced train list discarded", d.trainNumber)
		return
	}
	occupant, ok := e.pool.Occupant(d.platform)
	if !ok || occupant != d.trainNumber {
		log.Printf("engine: stale dwell for train %s on platform %d discarded", d.trainNumber, d.platform)
		return
	}
	train, ok := e.registry.Get(d.trainNumber)
	if !ok {
		log.Printf("engine: dwell for unknown train %s discarded", d.trainNumber)
		return
	}

	switch d.kind {
	case dwellSettle:
		if train.Status != models.StatusArriving {
			log.Printf("engine: settle dwell for train %s in state %s discarded", d.trainNumber, train.Status)
			return
		}
		status := models.StatusAtPlatform
		e.registry.Apply(d.trainNumber, Patch{Status: &status})

	case dwellRemove:
		if train.Status != models.StatusDeparting {
			log.Printf("engine: removal dwell for train %s in state %s discarded", d.trainNumber, train.Status)
			return
		}
		// Stamped with the simulated time at which the dwell elapses, which
		// can be later than the minute the departure began.
		status := models.StatusDeparted
		now := e.clock.Now()
		e.registry.Apply(d.trainNumber, Patch{Status: &status, ActualDeparture: &now})
		if err := e.pool.Vacate(d.platform); err != nil {
			log.Printf("engine: %v", err)
		}
	}
}

// processDepartures moves every settled occupant whose scheduled departure
// has passed into departing and queues its removal dwell.
func (e *Engine) processDepartures() {
	now := e.clock.NowMinute()
	for _, slot := range e.pool.Slots() {
		if !slot.Occupied() {
			continue
		}
		train, ok := e.registry.Get(slot.TrainNumber)
		if !ok || train.Status != models.StatusAtPlatform {
			continue
		}
		departure, err := timeutil.MinuteOfDay(train.ScheduledDeparture)
		if err != nil {
			log.Printf("engine: train %s has unparseable departure %q", train.TrainNumber, train.ScheduledDeparture)
			continue
		}
		if now < departure {
			continue
		}

		status := models.StatusDeparting
		e.registry.Apply(train.TrainNumber, Patch{Status: &status})
		e.pending = append(e.pending, dwell{
			kind:        dwellRemove,
			trainNumber: train.TrainNumber,
			platform:    slot.Number,
			remaining:   e.dwellTicks,
			epoch:       e.epoch,
		})
	}
}

// allocate matches eligible waiting trains to free platforms. Eligibility is
// the same-day minute comparison currentTime >= scheduledArrival; a train
// scheduled just after midnight is not eligible while the clock sits just
// before it. Ordering is priority first, scheduled arrival second, with a
// stable sort preserving insertion order on full ties.
func (e *Engine) allocate() {
	free := e.pool.FreeSlots()
	if len(free) == 0 {
		return
	}

	now := e.clock.NowMinute()
	eligible := make([]models.Train, 0)
	for _, train := range e.registry.Waiting() {
		arrival, err := timeutil.MinuteOfDay(train.ScheduledArrival)
		if err != nil {
			log.Printf("engine: train %s has unparseable arrival %q", train.TrainNumber, train.ScheduledArrival)
			continue
		}
		if now >= arrival {
			eligible = append(eligible, train)
		}
	}

	sortByPriority(eligible)

	k := len(free)
	if len(eligible) < k {
		k = len(eligible)
	}
	for i := 0; i < k; i++ {
		e.assign(eligible[i], free[i])
	}
}

// assign places one train on one platform: arriving status, platform and
// actual arrival recorded, and the scheduled departure pushed back by the
// arrival delay so a late train keeps its dwell duration rather than its
// original departure time.
func (e *Engine) assign(train models.Train, platform int) {
	now := e.clock.Now()

	patch := Patch{Platform: &platform, ActualArrival: &now}
	status := models.StatusArriving
	patch.Status = &status

	delay, err := timeutil.MinutesBetween(train.ScheduledArrival, now)
	if err == nil && delay > 0 {
		shifted, err := timeutil.AddMinutes(train.ScheduledDeparture, delay)
		if err == nil {
			delayed := true
			patch.ScheduledDeparture = &shifted
			patch.IsDelayed = &delayed
		}
	}

	e.registry.Apply(train.TrainNumber, patch)
	if err := e.pool.Occupy(platform, train.TrainNumber); err != nil {
		log.Printf("engine: %v", err)
		return
	}
	e.pending = append(e.pending, dwell{
		kind:        dwellSettle,
		trainNumber: train.TrainNumber,
		platform:    platform,
		remaining:   e.dwellTicks,
		epoch:       e.epoch,
	})
}

// RequestDeparture removes the occupant of the named platform immediately,
// bypassing the departure dwell: the operator path. The lifecycle chain is
// still walked stage by stage so the transition table holds.
func (e *Engine) RequestDeparture(platform int) (models.Train, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	trainNumber, ok := e.pool.Occupant(platform)
	if !ok {
		return models.Train{}, false
	}
	train, ok := e.registry.Get(trainNumber)
	if !ok {
		return models.Train{}, false
	}

	for _, status := range []models.Status{models.StatusAtPlatform, models.StatusDeparting, models.StatusDeparted} {
		if train.Status.CanTransition(status) {
			s := status
			e.registry.Apply(trainNumber, Patch{Status: &s})
			train.Status = status
		}
	}
	now := e.clock.Now()
	e.registry.Apply(trainNumber, Patch{ActualDeparture: &now})
	if err := e.pool.Vacate(platform); err != nil {
		log.Printf("engine: %v", err)
	}

	departed, _ := e.registry.Get(trainNumber)
	return departed, true
}

// Snapshot returns the full observable state: platforms joined with their
// occupants, the waiting queue in insertion order, the report rows, the
// simulated time, and the running flag.
func (e *Engine) Snapshot() models.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() models.Snapshot {
	snapshot := models.NewSnapshot(e.runID, e.sequence, e.clock.Now(), e.clock.Running(), e.clock.Speed())

	slots := e.pool.Slots()
	snapshot.Platforms = make([]models.PlatformState, len(slots))
	for i, slot := range slots {
		state := models.PlatformState{PlatformNumber: slot.Number}
		if slot.Occupied() {
			if train, ok := e.registry.Get(slot.TrainNumber); ok {
				state.Train = &train
			}
		}
		snapshot.Platforms[i] = state
	}

	snapshot.Waiting = e.registry.Waiting()
	snapshot.Reports = e.registry.Reports()
	return snapshot
}

// CurrentTime returns the simulated time as "HH:MM".
func (e *Engine) CurrentTime() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock.Now()
}

// Running reports whether the tick loop is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock.Running()
}

// sortByPriority orders trains by priority class ascending, then scheduled
// arrival ascending. The sort is stable: full ties keep their insertion
// order, which decides who wins a platform when trains compete.
func sortByPriority(trains []models.Train) {
	sort.SliceStable(trains, func(i, j int) bool {
		if trains[i].Priority.Rank() != trains[j].Priority.Rank() {
			return trains[i].Priority.Rank() < trains[j].Priority.Rank()
		}
		return timeutil.Compare(trains[i].ScheduledArrival, trains[j].ScheduledArrival) < 0
	})
}
