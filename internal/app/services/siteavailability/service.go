// Package siteavailability answers availability and pricing questions for a single site.
// Every operation is a read over a point-in-time snapshot: verdicts are advisory and do not
// reserve capacity. The booking workflow must re-check capacity inside its own write boundary.
package siteavailability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"siteavail/internal/app/policies"
	"siteavail/internal/domain/availability"
	"siteavail/internal/domain/bookings"
	"siteavail/internal/domain/capacity"
	"siteavail/internal/domain/pricing"
	"siteavail/internal/domain/shared/daterange"
	"siteavail/internal/domain/sites"
)

var (
	ErrNotFound      = errors.New("siteavailability: site not found")
	ErrInvalidRange  = errors.New("siteavailability: invalid date range")
	ErrInvalidGuests = errors.New("siteavailability: guest count must not be negative")
	ErrInvalidSite   = errors.New("siteavailability: site configuration is invalid")
)

// DefaultMaxWindowDays bounds calendar and blocked-date windows.
const DefaultMaxWindowDays = 366

type Service struct {
	Sites         sites.Repository
	Bookings      bookings.Repository
	Blocks        availability.BlockRepository
	Diagnostics   policies.DiagnosticsPort
	Logger        *slog.Logger
	Now           func() time.Time
	MaxWindowDays int
}

type SiteAvailability struct {
	Site         *sites.Site
	Capacity     capacity.Model
	Availability *availability.Verdict
}

type BlockedDates struct {
	SiteID sites.SiteID
	Window daterange.DateRange
	Dates  []time.Time
	Total  int
}

type OccupancyCalendar struct {
	SiteID   sites.SiteID
	Capacity capacity.Model
	Window   daterange.DateRange
	Days     []availability.DayOccupancy
}

type Quote struct {
	SiteID    sites.SiteID
	Range     daterange.DateRange
	Guests    int
	Breakdown pricing.PriceBreakdown
}

// GetSiteAvailability returns the site and, when both dates are given, its verdict for them.
// Zero dates mean "not supplied".
func (s *Service) GetSiteAvailability(ctx context.Context, id sites.SiteID, checkIn, checkOut time.Time) (SiteAvailability, error) {
	if err := s.ensureDependencies(); err != nil {
		return SiteAvailability{}, err
	}
	site, model, err := s.loadSite(ctx, id)
	if err != nil {
		return SiteAvailability{}, err
	}
	result := SiteAvailability{Site: site, Capacity: model}
	if checkIn.IsZero() || checkOut.IsZero() {
		return result, nil
	}
	stay, err := stayRange(checkIn, checkOut)
	if err != nil {
		return SiteAvailability{}, err
	}
	ix, err := s.buildIndex(ctx, site.ID, model, stay)
	if err != nil {
		return SiteAvailability{}, err
	}
	verdict := ix.CheckStay(stay)
	result.Availability = &verdict
	return result, nil
}

// CheckAvailability decides whether a new stay of [checkIn, checkOut) fits.
func (s *Service) CheckAvailability(ctx context.Context, id sites.SiteID, checkIn, checkOut time.Time) (availability.Verdict, error) {
	if err := s.ensureDependencies(); err != nil {
		return availability.Verdict{}, err
	}
	stay, err := stayRange(checkIn, checkOut)
	if err != nil {
		return availability.Verdict{}, err
	}
	site, model, err := s.loadSite(ctx, id)
	if err != nil {
		return availability.Verdict{}, err
	}
	ix, err := s.buildIndex(ctx, site.ID, model, stay)
	if err != nil {
		return availability.Verdict{}, err
	}
	verdict := ix.CheckStay(stay)
	s.logger().DebugContext(ctx, "availability checked",
		"site_id", site.ID, "range", stay.String(), "available", verdict.Available, "spots_left", verdict.SpotsLeft)
	return verdict, nil
}

// GetBlockedDates lists every unavailable day in [start, end).
func (s *Service) GetBlockedDates(ctx context.Context, id sites.SiteID, start, end time.Time) (BlockedDates, error) {
	if err := s.ensureDependencies(); err != nil {
		return BlockedDates{}, err
	}
	window, err := s.window(start, end)
	if err != nil {
		return BlockedDates{}, err
	}
	site, model, err := s.loadSite(ctx, id)
	if err != nil {
		return BlockedDates{}, err
	}
	ix, err := s.buildIndex(ctx, site.ID, model, window)
	if err != nil {
		return BlockedDates{}, err
	}
	blocked := ix.BlockedDates(window)
	return BlockedDates{SiteID: site.ID, Window: window, Dates: blocked.Dates, Total: blocked.Total}, nil
}

// GetOccupancyCalendar reports per-day occupancy and remaining spots for [start, end).
func (s *Service) GetOccupancyCalendar(ctx context.Context, id sites.SiteID, start, end time.Time) (OccupancyCalendar, error) {
	if err := s.ensureDependencies(); err != nil {
		return OccupancyCalendar{}, err
	}
	window, err := s.window(start, end)
	if err != nil {
		return OccupancyCalendar{}, err
	}
	site, model, err := s.loadSite(ctx, id)
	if err != nil {
		return OccupancyCalendar{}, err
	}
	ix, err := s.buildIndex(ctx, site.ID, model, window)
	if err != nil {
		return OccupancyCalendar{}, err
	}
	return OccupancyCalendar{SiteID: site.ID, Capacity: model, Window: window, Days: ix.Occupancy(window)}, nil
}

// CalculatePricing prices a stay for the given party size. A zero guest count counts as one guest.
func (s *Service) CalculatePricing(ctx context.Context, id sites.SiteID, checkIn, checkOut time.Time, guests int) (Quote, error) {
	if err := s.ensureDependencies(); err != nil {
		return Quote{}, err
	}
	if guests < 0 {
		return Quote{}, ErrInvalidGuests
	}
	if guests == 0 {
		guests = 1
	}
	stay, err := stayRange(checkIn, checkOut)
	if err != nil {
		return Quote{}, err
	}
	site, _, err := s.loadSite(ctx, id)
	if err != nil {
		return Quote{}, err
	}
	breakdown, err := pricing.Calculate(site.Pricing, pricing.QuoteInput{
		CheckIn:   stay.CheckIn,
		CheckOut:  stay.CheckOut,
		Guests:    guests,
		MaxGuests: site.Capacity.MaxGuests,
	})
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidRange) {
			return Quote{}, fmt.Errorf("%w: %w", ErrInvalidRange, err)
		}
		return Quote{}, fmt.Errorf("%w: %w", ErrInvalidSite, err)
	}
	return Quote{SiteID: site.ID, Range: stay, Guests: guests, Breakdown: breakdown}, nil
}

func (s *Service) loadSite(ctx context.Context, id sites.SiteID) (*sites.Site, capacity.Model, error) {
	site, ok, err := s.Sites.FindSiteByID(ctx, id)
	if err != nil {
		return nil, capacity.Model{}, fmt.Errorf("siteavailability: load site %s: %w", id, err)
	}
	if !ok || site == nil {
		return nil, capacity.Model{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	model, err := site.Capacity.Model()
	if err != nil {
		return nil, capacity.Model{}, fmt.Errorf("%w: %w", ErrInvalidSite, err)
	}
	return site, model, nil
}

// buildIndex reads bookings and blocks for the window concurrently and folds them into an
// Index. Diagnostics raised while building are forwarded before returning.
func (s *Service) buildIndex(ctx context.Context, id sites.SiteID, model capacity.Model, window daterange.DateRange) (*availability.Index, error) {
	var (
		active []bookings.Booking
		blocks []availability.Block
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bs, err := s.Bookings.FindActiveBookings(gctx, id, window)
		if err != nil {
			return fmt.Errorf("siteavailability: load bookings: %w", err)
		}
		active = bs
		return nil
	})
	g.Go(func() error {
		rows, err := s.Blocks.FindBlockedDays(gctx, id, window)
		if err != nil {
			return fmt.Errorf("siteavailability: load blocks: %w", err)
		}
		blocks = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ix := availability.NewIndex(id, model, active, blocks, s.now())
	s.report(ctx, ix)
	return ix, nil
}

func (s *Service) report(ctx context.Context, ix *availability.Index) {
	for _, ev := range ix.Drain() {
		log := s.logger()
		log.WarnContext(ctx, "data inconsistency ignored", "event", ev.EventName(), "site_id", ev.AggregateID())
		if s.Diagnostics == nil {
			continue
		}
		if err := s.Diagnostics.Report(ctx, ev); err != nil {
			log.ErrorContext(ctx, "diagnostics report failed", "event", ev.EventName(), "error", err)
		}
	}
}

func (s *Service) window(start, end time.Time) (daterange.DateRange, error) {
	w, err := daterange.Window(start, end)
	if err != nil {
		return daterange.DateRange{}, fmt.Errorf("%w: %w", ErrInvalidRange, err)
	}
	limit := s.MaxWindowDays
	if limit <= 0 {
		limit = DefaultMaxWindowDays
	}
	if w.Nights() > limit {
		return daterange.DateRange{}, fmt.Errorf("%w: window spans %d days, limit is %d", ErrInvalidRange, w.Nights(), limit)
	}
	return w, nil
}

func stayRange(checkIn, checkOut time.Time) (daterange.DateRange, error) {
	stay, err := daterange.New(checkIn, checkOut)
	if err != nil {
		return daterange.DateRange{}, fmt.Errorf("%w: %w", ErrInvalidRange, err)
	}
	return stay, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Sites == nil:
		return errors.New("siteavailability: site repository required")
	case s.Bookings == nil:
		return errors.New("siteavailability: booking repository required")
	case s.Blocks == nil:
		return errors.New("siteavailability: block repository required")
	default:
		return nil
	}
}
