package pricing

import (
	"errors"
	"fmt"
	"time"

	"siteavail/internal/domain/shared/daterange"
	"siteavail/internal/domain/shared/money"
	"siteavail/internal/domain/sites"
)

var (
	ErrInvalidRange  = errors.New("pricing: stay must be at least one night")
	ErrInvalidGuests = errors.New("pricing: guest count must not be negative")
)

const (
	weeklyThreshold  = 7
	monthlyThreshold = 28
)

// RateSource names the rule that priced a night.
type RateSource string

const (
	SourceSeasonal RateSource = "seasonal"
	SourceWeekend  RateSource = "weekend"
	SourceBase     RateSource = "base"
)

type DiscountKind string

const (
	DiscountNone    DiscountKind = ""
	DiscountWeekly  DiscountKind = "weekly"
	DiscountMonthly DiscountKind = "monthly"
)

type NightRate struct {
	Date   time.Time
	Price  money.Money
	Source RateSource
	Season string
}

type Fees struct {
	Cleaning   money.Money
	Pet        money.Money
	ExtraGuest money.Money
}

func (f Fees) Sum() money.Money {
	return money.Money{
		Amount:   f.Cleaning.Amount + f.Pet.Amount + f.ExtraGuest.Amount,
		Currency: f.Cleaning.Currency,
	}
}

// PriceBreakdown is the composed price of one stay.
// Total = Subtotal - Discount + Fees, with Discount <= Subtotal and Total >= 0.
type PriceBreakdown struct {
	Nights       int
	BasePrice    money.Money
	Nightly      []NightRate
	Subtotal     money.Money
	Discount     money.Money
	DiscountKind DiscountKind
	ExtraGuests  int
	Fees         Fees
	Total        money.Money
}

type QuoteInput struct {
	CheckIn   time.Time
	CheckOut  time.Time
	Guests    int
	MaxGuests int
}

// Calculate prices every night in [CheckIn, CheckOut) by seasonal, then weekend, then base
// rate; applies at most one length-of-stay discount; and adds the flat and per-guest fees.
// It is pure: identical inputs give identical breakdowns.
func Calculate(p sites.Pricing, in QuoteInput) (PriceBreakdown, error) {
	nights := daterange.DaysBetween(in.CheckIn, in.CheckOut)
	if in.CheckIn.IsZero() || in.CheckOut.IsZero() || nights <= 0 {
		return PriceBreakdown{}, ErrInvalidRange
	}
	if in.Guests < 0 {
		return PriceBreakdown{}, ErrInvalidGuests
	}
	if err := p.Validate(); err != nil {
		return PriceBreakdown{}, fmt.Errorf("pricing: %w", err)
	}
	cur := p.BasePrice.Currency

	breakdown := PriceBreakdown{
		Nights:    nights,
		BasePrice: p.BasePrice,
		Nightly:   make([]NightRate, 0, nights),
	}
	subtotal := money.Zero(cur)
	for day := range daterange.EachDay(in.CheckIn, in.CheckOut) {
		rate := nightRate(p, day)
		breakdown.Nightly = append(breakdown.Nightly, rate)
		subtotal.Amount += rate.Price.Amount
	}
	breakdown.Subtotal = subtotal

	discount, kind, err := lengthOfStayDiscount(p, nights, subtotal)
	if err != nil {
		return PriceBreakdown{}, err
	}
	breakdown.Discount = discount.Min(subtotal)
	breakdown.DiscountKind = kind

	if in.MaxGuests > 0 && in.Guests > in.MaxGuests {
		breakdown.ExtraGuests = in.Guests - in.MaxGuests
	}
	breakdown.Fees = Fees{
		Cleaning:   orZero(p.CleaningFee, cur),
		Pet:        orZero(p.PetFee, cur),
		ExtraGuest: orZero(p.AdditionalGuestFee, cur).Multiply(int64(breakdown.ExtraGuests)),
	}

	total := subtotal.Amount - breakdown.Discount.Amount + breakdown.Fees.Sum().Amount
	breakdown.Total = money.Money{Amount: total, Currency: cur}.ClampZero()
	return breakdown, nil
}

// nightRate resolves one night. The first seasonal entry in list order that covers the day
// wins and suppresses the weekend override.
func nightRate(p sites.Pricing, day time.Time) NightRate {
	for _, season := range p.Seasonal {
		if season.Covers(day) {
			return NightRate{Date: day, Price: season.Price, Source: SourceSeasonal, Season: season.Name}
		}
	}
	if p.WeekendPrice != nil && isWeekendNight(day) {
		return NightRate{Date: day, Price: *p.WeekendPrice, Source: SourceWeekend}
	}
	return NightRate{Date: day, Price: p.BasePrice, Source: SourceBase}
}

// isWeekendNight is true for Friday and Saturday nights.
func isWeekendNight(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Friday || wd == time.Saturday
}

// Monthly and weekly discounts are exclusive; monthly wins when both thresholds are met.
func lengthOfStayDiscount(p sites.Pricing, nights int, subtotal money.Money) (money.Money, DiscountKind, error) {
	var (
		pct  sites.Percent
		kind DiscountKind
	)
	switch {
	case nights >= monthlyThreshold && p.MonthlyDiscount.Set():
		pct, kind = p.MonthlyDiscount, DiscountMonthly
	case nights >= weeklyThreshold && p.WeeklyDiscount.Set():
		pct, kind = p.WeeklyDiscount, DiscountWeekly
	default:
		return money.Zero(subtotal.Currency), DiscountNone, nil
	}
	discount, err := subtotal.Percent(int64(pct))
	if err != nil {
		return money.Money{}, DiscountNone, err
	}
	return discount, kind, nil
}

func orZero(m money.Money, currency string) money.Money {
	if m.Currency == "" {
		return money.Money{Amount: m.Amount, Currency: currency}
	}
	return m
}
