package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	domainavailability "siteavail/internal/domain/availability"
	domainbookings "siteavail/internal/domain/bookings"
	"siteavail/internal/domain/shared/daterange"
	"siteavail/internal/domain/shared/money"
	domainsites "siteavail/internal/domain/sites"
)

// Store bundles the three in-memory repositories.
type Store struct {
	Sites    *SiteRepository
	Bookings *BookingRepository
	Blocks   *BlockRepository
}

func NewStore() Store {
	return Store{
		Sites:    NewSiteRepository(),
		Bookings: NewBookingRepository(),
		Blocks:   NewBlockRepository(),
	}
}

// LoadFixtures imports sites, bookings and blocks from a JSON file. A missing file is not an
// error. Invalid entries are logged and skipped.
func (s Store) LoadFixtures(ctx context.Context, path, defaultCurrency string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("site fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("site fixtures file empty", "path", path)
		return nil
	}
	var fx fixtureFile
	if err := json.Unmarshal(data, &fx); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	for _, raw := range fx.Sites {
		site, err := raw.toSite(defaultCurrency)
		if err != nil {
			logger.Error("fixture site invalid", "site_id", raw.ID, "error", err)
			continue
		}
		if err := s.Sites.Save(ctx, site); err != nil {
			logger.Error("cannot store fixture site", "site_id", raw.ID, "error", err)
			continue
		}
		logger.Info("site fixture imported", "site_id", site.ID, "max_concurrent", site.Capacity.MaxConcurrentBookings)
	}
	for _, raw := range fx.Bookings {
		dr, err := daterange.Parse(raw.CheckIn, raw.CheckOut)
		if err != nil {
			logger.Error("fixture booking invalid", "booking_id", raw.ID, "error", err)
			continue
		}
		b := domainbookings.Booking{
			ID:     domainbookings.BookingID(raw.ID),
			SiteID: domainsites.SiteID(raw.SiteID),
			Range:  dr,
			Guests: raw.Guests,
			Status: domainbookings.Status(strings.ToLower(raw.Status)),
		}
		if err := s.Bookings.Add(ctx, b); err != nil {
			logger.Error("cannot store fixture booking", "booking_id", raw.ID, "error", err)
		}
	}
	for _, raw := range fx.Blocks {
		d, err := time.Parse(daterange.DateLayout, raw.Date)
		if err != nil {
			logger.Error("fixture block invalid", "site_id", raw.SiteID, "error", err)
			continue
		}
		_ = s.Blocks.Add(ctx, domainavailability.Block{
			SiteID:      domainsites.SiteID(raw.SiteID),
			Date:        d,
			IsAvailable: raw.IsAvailable,
			Reason:      raw.Reason,
		})
	}
	logger.Info("fixtures loaded", "sites", len(fx.Sites), "bookings", len(fx.Bookings), "blocks", len(fx.Blocks))
	return nil
}

type fixtureFile struct {
	Sites    []siteFixture    `json:"sites"`
	Bookings []bookingFixture `json:"bookings"`
	Blocks   []blockFixture   `json:"blocks"`
}

type siteFixture struct {
	ID                    string          `json:"id"`
	PropertyID            string          `json:"property_id"`
	Name                  string          `json:"name"`
	MaxGuests             int             `json:"max_guests"`
	MaxConcurrentBookings int             `json:"max_concurrent_bookings"`
	Currency              string          `json:"currency"`
	BasePrice             int64           `json:"base_price"`
	WeekendPrice          *int64          `json:"weekend_price"`
	Seasonal              []seasonFixture `json:"seasonal_pricing"`
	WeeklyDiscountPct     int64           `json:"weekly_discount_pct"`
	MonthlyDiscountPct    int64           `json:"monthly_discount_pct"`
	CleaningFee           int64           `json:"cleaning_fee"`
	PetFee                int64           `json:"pet_fee"`
	AdditionalGuestFee    int64           `json:"additional_guest_fee"`
}

type seasonFixture struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Price     int64  `json:"price"`
}

type bookingFixture struct {
	ID       string `json:"id"`
	SiteID   string `json:"site_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int    `json:"guests"`
	Status   string `json:"status"`
}

type blockFixture struct {
	SiteID      string `json:"site_id"`
	Date        string `json:"date"`
	IsAvailable bool   `json:"is_available"`
	Reason      string `json:"reason"`
}

func (f siteFixture) toSite(defaultCurrency string) (domainsites.Site, error) {
	cur := f.Currency
	if cur == "" {
		cur = defaultCurrency
	}
	base, err := money.New(f.BasePrice, cur)
	if err != nil {
		return domainsites.Site{}, err
	}
	p := domainsites.Pricing{
		BasePrice:          base,
		WeeklyDiscount:     domainsites.WholePercent(f.WeeklyDiscountPct),
		MonthlyDiscount:    domainsites.WholePercent(f.MonthlyDiscountPct),
		CleaningFee:        money.Money{Amount: f.CleaningFee, Currency: base.Currency},
		PetFee:             money.Money{Amount: f.PetFee, Currency: base.Currency},
		AdditionalGuestFee: money.Money{Amount: f.AdditionalGuestFee, Currency: base.Currency},
	}
	if f.WeekendPrice != nil {
		w := money.Money{Amount: *f.WeekendPrice, Currency: base.Currency}
		p.WeekendPrice = &w
	}
	for _, s := range f.Seasonal {
		start, err := time.Parse(daterange.DateLayout, s.StartDate)
		if err != nil {
			return domainsites.Site{}, fmt.Errorf("season %q start: %w", s.Name, err)
		}
		end, err := time.Parse(daterange.DateLayout, s.EndDate)
		if err != nil {
			return domainsites.Site{}, fmt.Errorf("season %q end: %w", s.Name, err)
		}
		p.Seasonal = append(p.Seasonal, domainsites.SeasonalRate{
			Name:  s.Name,
			Start: start,
			End:   end,
			Price: money.Money{Amount: s.Price, Currency: base.Currency},
		})
	}
	return domainsites.Site{
		ID:         domainsites.SiteID(f.ID),
		PropertyID: domainsites.PropertyID(f.PropertyID),
		Name:       f.Name,
		Capacity:   domainsites.Capacity{MaxGuests: f.MaxGuests, MaxConcurrentBookings: f.MaxConcurrentBookings},
		Pricing:    p,
	}, nil
}
