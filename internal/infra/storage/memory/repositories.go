package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	domainavailability "siteavail/internal/domain/availability"
	domainbookings "siteavail/internal/domain/bookings"
	"siteavail/internal/domain/shared/daterange"
	domainsites "siteavail/internal/domain/sites"
)

var (
	// ErrSiteInvalid is returned when saving a site that fails validation.
	ErrSiteInvalid = errors.New("memory: site invalid")
	// ErrBookingSiteRequired is returned when a booking has no site.
	ErrBookingSiteRequired = errors.New("memory: booking site required")
)

// SiteRepository keeps site configuration in memory.
type SiteRepository struct {
	mu    sync.RWMutex
	items map[domainsites.SiteID]domainsites.Site
}

// NewSiteRepository builds an empty repository.
func NewSiteRepository() *SiteRepository {
	return &SiteRepository{items: make(map[domainsites.SiteID]domainsites.Site)}
}

// FindSiteByID returns a copy of the stored site so callers cannot mutate the store.
func (r *SiteRepository) FindSiteByID(ctx context.Context, id domainsites.SiteID) (*domainsites.Site, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	site, ok := r.items[id]
	if !ok {
		return nil, false, nil
	}
	clone := site
	clone.Pricing.Seasonal = append([]domainsites.SeasonalRate(nil), site.Pricing.Seasonal...)
	return &clone, true, nil
}

// Save stores or replaces a site.
func (r *SiteRepository) Save(ctx context.Context, site domainsites.Site) error {
	if err := site.Validate(); err != nil {
		return errors.Join(ErrSiteInvalid, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[site.ID] = site
	return nil
}

// Len reports how many sites are stored.
func (r *SiteRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// BookingRepository stores booking snapshots per site.
type BookingRepository struct {
	mu     sync.RWMutex
	bySite map[domainsites.SiteID][]domainbookings.Booking
}

// NewBookingRepository builds an empty booking store.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bySite: make(map[domainsites.SiteID][]domainbookings.Booking)}
}

// Add appends a booking snapshot. The engine never calls this; it seeds demos and tests.
func (r *BookingRepository) Add(ctx context.Context, booking domainbookings.Booking) error {
	if booking.SiteID == "" {
		return ErrBookingSiteRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySite[booking.SiteID] = append(r.bySite[booking.SiteID], booking)
	return nil
}

// FindActiveBookings returns pending/confirmed bookings overlapping the window, ordered by check-in.
func (r *BookingRepository) FindActiveBookings(ctx context.Context, siteID domainsites.SiteID, window daterange.DateRange) ([]domainbookings.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]domainbookings.Booking, 0)
	for _, b := range r.bySite[siteID] {
		if !b.IsActive() || !b.Range.Overlaps(window) {
			continue
		}
		matches = append(matches, b)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Range.CheckIn.Before(matches[j].Range.CheckIn)
	})
	return matches, nil
}

// BlockRepository keeps host block rows in memory.
type BlockRepository struct {
	mu     sync.RWMutex
	bySite map[domainsites.SiteID][]domainavailability.Block
}

// NewBlockRepository returns an empty block store.
func NewBlockRepository() *BlockRepository {
	return &BlockRepository{bySite: make(map[domainsites.SiteID][]domainavailability.Block)}
}

// Add appends a block row as-is; rows on shared sites are accepted so the engine can flag them.
func (r *BlockRepository) Add(ctx context.Context, block domainavailability.Block) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	block.Date = daterange.Day(block.Date)
	r.bySite[block.SiteID] = append(r.bySite[block.SiteID], block)
	return nil
}

// FindBlockedDays returns rows with IsAvailable=false whose day lies in the window.
func (r *BlockRepository) FindBlockedDays(ctx context.Context, siteID domainsites.SiteID, window daterange.DateRange) ([]domainavailability.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]domainavailability.Block, 0)
	for _, block := range r.bySite[siteID] {
		if block.Blocking() && window.ContainsDate(block.Date) {
			matches = append(matches, block)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Date.Before(matches[j].Date)
	})
	return matches, nil
}

var (
	_ domainsites.Repository             = (*SiteRepository)(nil)
	_ domainbookings.Repository          = (*BookingRepository)(nil)
	_ domainavailability.BlockRepository = (*BlockRepository)(nil)
)
