package sites

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"siteavail/internal/domain/capacity"
	"siteavail/internal/domain/shared/daterange"
	"siteavail/internal/domain/shared/money"
)

var (
	ErrIDRequired       = errors.New("sites: id is required")
	ErrBasePrice        = errors.New("sites: base price must be positive")
	ErrNegativeFee      = errors.New("sites: fees must be non-negative")
	ErrDiscountRange    = errors.New("sites: discount percent must be between 0 and 100")
	ErrSeasonRange      = errors.New("sites: seasonal range end must not precede start")
	ErrCurrencyMismatch = errors.New("sites: all prices must share the base price currency")
	ErrMaxGuests        = errors.New("sites: max guests must be non-negative")
)

type SiteID string
type PropertyID string

// Percent is a share expressed in basis points: 10% is 1000. Zero means not configured.
type Percent int64

// WholePercent converts a whole-number percentage into basis points.
func WholePercent(p int64) Percent { return Percent(p * 100) }

func (p Percent) Set() bool { return p > 0 }

func (p Percent) Valid() bool { return p >= 0 && p <= 10000 }

type Capacity struct {
	MaxGuests             int
	MaxConcurrentBookings int
}

// Model classifies the capacity. An unset MaxConcurrentBookings defaults to 1.
func (c Capacity) Model() (capacity.Model, error) {
	maxConcurrent := c.MaxConcurrentBookings
	if maxConcurrent == 0 {
		maxConcurrent = 1
	}
	return capacity.Classify(maxConcurrent)
}

// SeasonalRate overrides the nightly price for every night in [Start, End], both inclusive.
type SeasonalRate struct {
	Name  string
	Start time.Time
	End   time.Time
	Price money.Money
}

func (s SeasonalRate) Covers(day time.Time) bool {
	day = daterange.Day(day)
	return !day.Before(daterange.Day(s.Start)) && !day.After(daterange.Day(s.End))
}

type Pricing struct {
	BasePrice          money.Money
	WeekendPrice       *money.Money
	Seasonal           []SeasonalRate
	WeeklyDiscount     Percent
	MonthlyDiscount    Percent
	CleaningFee        money.Money
	PetFee             money.Money
	AdditionalGuestFee money.Money
}

// Validate checks the pricing invariants. Seasonal ranges may overlap; the first one listed wins.
func (p Pricing) Validate() error {
	if p.BasePrice.Amount <= 0 {
		return ErrBasePrice
	}
	cur := p.BasePrice.Currency
	if cur == "" {
		return money.ErrInvalidCurrency
	}
	if p.WeekendPrice != nil {
		if p.WeekendPrice.Amount <= 0 {
			return fmt.Errorf("%w: weekend price", ErrBasePrice)
		}
		if p.WeekendPrice.Currency != cur {
			return ErrCurrencyMismatch
		}
	}
	for _, s := range p.Seasonal {
		if s.End.Before(s.Start) {
			return fmt.Errorf("%w: %q", ErrSeasonRange, s.Name)
		}
		if s.Price.Currency != cur {
			return ErrCurrencyMismatch
		}
	}
	if !p.WeeklyDiscount.Valid() || !p.MonthlyDiscount.Valid() {
		return ErrDiscountRange
	}
	for _, fee := range []money.Money{p.CleaningFee, p.PetFee, p.AdditionalGuestFee} {
		if fee.IsNegative() {
			return ErrNegativeFee
		}
		if fee.Currency != "" && fee.Currency != cur {
			return ErrCurrencyMismatch
		}
	}
	return nil
}

type Site struct {
	ID         SiteID
	PropertyID PropertyID
	Name       string
	Capacity   Capacity
	Pricing    Pricing
	UpdatedAt  time.Time
}

func (s *Site) Validate() error {
	if strings.TrimSpace(string(s.ID)) == "" {
		return ErrIDRequired
	}
	if s.Capacity.MaxGuests < 0 {
		return ErrMaxGuests
	}
	if _, err := s.Capacity.Model(); err != nil {
		return err
	}
	return s.Pricing.Validate()
}

// Repository is the read port for site configuration.
type Repository interface {
	FindSiteByID(ctx context.Context, id SiteID) (*Site, bool, error)
}
