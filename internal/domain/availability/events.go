package availability

import (
	"time"

	"siteavail/internal/domain/sites"
)

const EventBlocksIgnored = "availability.blocks_ignored"

// BlocksIgnored is the data-inconsistency signal raised when block rows are found on a
// shared-capacity site. The rows are dropped and evaluation continues.
type BlocksIgnored struct {
	SiteID        string      `json:"site_id"`
	MaxConcurrent int         `json:"max_concurrent_bookings"`
	Discarded     int         `json:"discarded"`
	Dates         []time.Time `json:"dates"`
	At            time.Time   `json:"at"`
}

func (e BlocksIgnored) EventName() string     { return EventBlocksIgnored }
func (e BlocksIgnored) AggregateID() string   { return e.SiteID }
func (e BlocksIgnored) OccurredAt() time.Time { return e.At }

func BlocksIgnoredEvent(id sites.SiteID, maxConcurrent int, dates []time.Time, at time.Time) BlocksIgnored {
	return BlocksIgnored{
		SiteID:        string(id),
		MaxConcurrent: maxConcurrent,
		Discarded:     len(dates),
		Dates:         dates,
		At:            at.UTC(),
	}
}
