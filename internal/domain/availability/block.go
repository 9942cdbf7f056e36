package availability

import (
	"context"
	"time"

	"siteavail/internal/domain/shared/daterange"
	"siteavail/internal/domain/sites"
)

// Block is a host-imposed closure of a single calendar day.
// Only meaningful on Designated sites.
type Block struct {
	SiteID      sites.SiteID
	Date        time.Time
	IsAvailable bool
	Reason      string
}

// Blocking reports whether the row closes its day.
func (b Block) Blocking() bool {
	return !b.IsAvailable
}

// BlockRepository returns block rows whose date falls in [window.CheckIn, window.CheckOut).
type BlockRepository interface {
	FindBlockedDays(ctx context.Context, siteID sites.SiteID, window daterange.DateRange) ([]Block, error)
}
