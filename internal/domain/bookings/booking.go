package bookings

import (
	"context"
	"time"

	"siteavail/internal/domain/shared/daterange"
	"siteavail/internal/domain/sites"
)

type BookingID string

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// Booking is a read-only snapshot of a reservation owned by the booking workflow.
type Booking struct {
	ID        BookingID
	SiteID    sites.SiteID
	Range     daterange.DateRange
	Guests    int
	Status    Status
	CreatedAt time.Time
}

// IsActive reports whether the booking holds capacity. Only pending and confirmed do.
func (b Booking) IsActive() bool {
	return b.Status.Active()
}

func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ActiveStatuses lists the statuses adapters must filter on.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed}
}

// Repository returns active bookings overlapping the window. Implementations filter by
// status; callers may still re-check IsActive.
type Repository interface {
	FindActiveBookings(ctx context.Context, siteID sites.SiteID, window daterange.DateRange) ([]Booking, error)
}
