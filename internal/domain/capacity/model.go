// Package capacity decides which occupancy rules apply to a site.
// Every Designated/Undesignated branch in the engine goes through Classify.
package capacity

import (
	"errors"
	"fmt"
)

var ErrInvalidCapacity = errors.New("capacity: max concurrent bookings must be at least 1")

// Kind tags the two capacity models.
type Kind string

const (
	// Designated sites take one exclusive occupant per day.
	Designated Kind = "DESIGNATED"
	// Undesignated sites are a shared pool of N independent spots.
	Undesignated Kind = "UNDESIGNATED"
)

// Model is the classified capacity of one site.
type Model struct {
	Kind          Kind
	MaxConcurrent int
}

// Classify maps maxConcurrentBookings onto a Model. Values below 1 are rejected.
func Classify(maxConcurrentBookings int) (Model, error) {
	if maxConcurrentBookings < 1 {
		return Model{}, fmt.Errorf("%w: got %d", ErrInvalidCapacity, maxConcurrentBookings)
	}
	kind := Designated
	if maxConcurrentBookings > 1 {
		kind = Undesignated
	}
	return Model{Kind: kind, MaxConcurrent: maxConcurrentBookings}, nil
}

// IsCapacityExhausted is the single occupancy threshold rule.
func IsCapacityExhausted(occupancy, maxConcurrentBookings int) bool {
	return occupancy >= maxConcurrentBookings
}

func (m Model) IsDesignated() bool   { return m.Kind == Designated }
func (m Model) IsUndesignated() bool { return m.Kind == Undesignated }

// Exhausted reports whether occupancy leaves no room for another stay.
func (m Model) Exhausted(occupancy int) bool {
	return IsCapacityExhausted(occupancy, m.MaxConcurrent)
}

// SpotsLeft never goes below zero.
func (m Model) SpotsLeft(occupancy int) int {
	left := m.MaxConcurrent - occupancy
	if left < 0 {
		return 0
	}
	return left
}

// AcceptsHostBlocks reports whether per-day host blocks are meaningful for the site.
// Blocks on shared pools are data errors and must be ignored.
func (m Model) AcceptsHostBlocks() bool {
	return m.Kind == Designated
}

// UnavailableReason renders the human-readable verdict for an exhausted site.
func (m Model) UnavailableReason() string {
	if m.Kind == Designated {
		return "Site is fully booked for the selected dates"
	}
	return fmt.Sprintf("All %d spots are booked for the selected dates", m.MaxConcurrent)
}
