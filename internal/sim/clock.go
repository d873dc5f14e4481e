package sim

import (
	"time"

	"github.com/stationsim/station-cli/internal/timeutil"
)

// DefaultSpeed is the 1x speed selector: one simulated minute per 1/60th of a
// second of real time.
const DefaultSpeed = 60

// Clock holds the simulated time-of-day, the running flag, and the speed
// multiplier. Simulated time advances in fixed one-minute steps and wraps
// modulo 1440; speed only changes how often ticks fire in real time, never
// the step size. The clock survives train-list and platform reconfiguration.
type Clock struct {
	minute  int
	running bool
	speed   int
}

// NewClock creates a clock at the given "HH:MM" start time. An empty or
// invalid start falls back to the wall clock's current time-of-day.
func NewClock(start string) *Clock {
	minute, err := timeutil.MinuteOfDay(start)
	if err != nil {
		now := time.Now()
		minute = now.Hour()*60 + now.Minute()
	}
	return &Clock{minute: minute, speed: DefaultSpeed}
}

// Advance moves the clock forward exactly one simulated minute.
func (c *Clock) Advance() {
	c.minute = (c.minute + 1) % timeutil.MinutesPerDay
}

// Now returns the current simulated time as "HH:MM".
func (c *Clock) Now() string {
	return timeutil.FormatMinute(c.minute)
}

// NowMinute returns the current simulated minute-of-day.
func (c *Clock) NowMinute() int {
	return c.minute
}

// Running reports whether the tick loop is active.
func (c *Clock) Running() bool {
	return c.running
}

func (c *Clock) setRunning(running bool) {
	c.running = running
}

// Speed returns the current speed multiplier.
func (c *Clock) Speed() int {
	return c.speed
}

func (c *Clock) setSpeed(speed int) {
	if speed > 0 {
		c.speed = speed
	}
}

// Interval returns the real-time duration between ticks at the current speed.
func (c *Clock) Interval() time.Duration {
	return TickInterval(c.speed)
}

// TickInterval converts a speed multiplier into the real-time interval
// between ticks: 1000ms divided by the multiplier.
func TickInterval(speed int) time.Duration {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	return time.Second / time.Duration(speed)
}
