package sim

import (
	"fmt"

	"github.com/stationsim/station-cli/internal/models"
)

// Pool owns the fixed array of platform slots, numbered contiguously from 1.
// Like the registry it relies on the engine for serialization.
type Pool struct {
	slots []models.PlatformSlot
}

// NewPool creates a pool of n empty slots.
func NewPool(n int) *Pool {
	p := &Pool{}
	p.Resize(n)
	return p
}

// Resize rebuilds the pool as n empty slots numbered 1..n. Any in-flight
// occupancy is dropped; pending lifecycle completions for the dropped
// occupants are discarded later by the engine's identity guard.
func (p *Pool) Resize(n int) {
	p.slots = make([]models.PlatformSlot, n)
	for i := range p.slots {
		p.slots[i] = models.PlatformSlot{Number: i + 1}
	}
}

// FindFree returns the lowest-numbered empty slot. The ascending tie-break is
// what makes allocation order reproducible.
func (p *Pool) FindFree() (int, bool) {
	for _, slot := range p.slots {
		if !slot.Occupied() {
			return slot.Number, true
		}
	}
	return 0, false
}

// FreeSlots returns all empty slot numbers in ascending order.
func (p *Pool) FreeSlots() []int {
	free := make([]int, 0)
	for _, slot := range p.slots {
		if !slot.Occupied() {
			free = append(free, slot.Number)
		}
	}
	return free
}

// Occupy places a train reference on an empty slot. Occupying an occupied or
// unknown slot is an internal invariant violation.
func (p *Pool) Occupy(number int, trainNumber string) error {
	slot := p.slot(number)
	if slot == nil {
		return fmt.Errorf("no such platform %d", number)
	}
	if slot.Occupied() {
		return fmt.Errorf("platform %d already occupied by train %s", number, slot.TrainNumber)
	}
	slot.TrainNumber = trainNumber
	return nil
}

// Vacate clears an occupied slot. Vacating an empty or unknown slot is an
// internal invariant violation.
func (p *Pool) Vacate(number int) error {
	slot := p.slot(number)
	if slot == nil {
		return fmt.Errorf("no such platform %d", number)
	}
	if !slot.Occupied() {
		return fmt.Errorf("platform %d is already empty", number)
	}
	slot.TrainNumber = ""
	return nil
}

// Occupant returns the train number held by a slot, if any.
func (p *Pool) Occupant(number int) (string, bool) {
	slot := p.slot(number)
	if slot == nil || !slot.Occupied() {
		return "", false
	}
	return slot.TrainNumber, true
}

// Slots returns a copy of all slots in platform-number order.
func (p *Pool) Slots() []models.PlatformSlot {
	slots := make([]models.PlatformSlot, len(p.slots))
	copy(slots, p.slots)
	return slots
}

// Count returns the total number of slots.
func (p *Pool) Count() int {
	return len(p.slots)
}

// FreeCount returns the number of empty slots.
func (p *Pool) FreeCount() int {
	return len(p.FreeSlots())
}

func (p *Pool) slot(number int) *models.PlatformSlot {
	if number < 1 || number > len(p.slots) {
		return nil
	}
	return &p.slots[number-1]
}
