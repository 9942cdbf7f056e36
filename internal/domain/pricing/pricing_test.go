package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteavail/internal/domain/shared/money"
	"siteavail/internal/domain/sites"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func vnd(amount int64) money.Money { return money.Must(amount, "VND") }

func ptr(m money.Money) *money.Money { return &m }

func TestCalculateWeekdayStayIgnoresWeekendRate(t *testing.T) {
	p := sites.Pricing{BasePrice: vnd(500000), WeekendPrice: ptr(vnd(600000))}

	// 2024-06-03 is a Monday.
	got, err := Calculate(p, QuoteInput{CheckIn: day("2024-06-03"), CheckOut: day("2024-06-05"), Guests: 2, MaxGuests: 4})
	require.NoError(t, err)

	assert.Equal(t, 2, got.Nights)
	assert.Equal(t, int64(1000000), got.Subtotal.Amount)
	assert.Equal(t, int64(0), got.Discount.Amount)
	assert.Equal(t, int64(1000000), got.Total.Amount)
	for _, n := range got.Nightly {
		assert.Equal(t, SourceBase, n.Source)
	}
}

func TestCalculateWeekendNights(t *testing.T) {
	p := sites.Pricing{BasePrice: vnd(500000), WeekendPrice: ptr(vnd(600000))}

	// Thu, Fri, Sat, Sun nights.
	got, err := Calculate(p, QuoteInput{CheckIn: day("2024-06-06"), CheckOut: day("2024-06-10"), Guests: 1})
	require.NoError(t, err)

	require.Len(t, got.Nightly, 4)
	assert.Equal(t, SourceBase, got.Nightly[0].Source)
	assert.Equal(t, SourceWeekend, got.Nightly[1].Source)
	assert.Equal(t, SourceWeekend, got.Nightly[2].Source)
	assert.Equal(t, SourceBase, got.Nightly[3].Source)
	assert.Equal(t, int64(2200000), got.Subtotal.Amount)
}

func TestCalculateSeasonalBeatsWeekend(t *testing.T) {
	p := sites.Pricing{
		BasePrice:    vnd(500000),
		WeekendPrice: ptr(vnd(600000)),
		Seasonal: []sites.SeasonalRate{
			{Name: "summer", Start: day("2024-06-01"), End: day("2024-06-30"), Price: vnd(700000)},
		},
	}

	// 2024-06-07 is a Friday inside the season.
	got, err := Calculate(p, QuoteInput{CheckIn: day("2024-06-07"), CheckOut: day("2024-06-08"), Guests: 1})
	require.NoError(t, err)

	require.Len(t, got.Nightly, 1)
	assert.Equal(t, SourceSeasonal, got.Nightly[0].Source)
	assert.Equal(t, "summer", got.Nightly[0].Season)
	assert.Equal(t, int64(700000), got.Total.Amount)
}

func TestCalculateSeasonFirstMatchWinsAndEndIsInclusive(t *testing.T) {
	p := sites.Pricing{
		BasePrice: vnd(100),
		Seasonal: []sites.SeasonalRate{
			{Name: "holiday", Start: day("2024-12-24"), End: day("2024-12-26"), Price: vnd(300)},
			{Name: "winter", Start: day("2024-12-01"), End: day("2025-02-28"), Price: vnd(200)},
		},
	}

	got, err := Calculate(p, QuoteInput{CheckIn: day("2024-12-23"), CheckOut: day("2024-12-28"), Guests: 1})
	require.NoError(t, err)

	seasons := make([]string, 0, len(got.Nightly))
	for _, n := range got.Nightly {
		seasons = append(seasons, n.Season)
	}
	assert.Equal(t, []string{"winter", "holiday", "holiday", "holiday", "winter"}, seasons)
	assert.Equal(t, int64(200+300*3+200), got.Subtotal.Amount)
}

func TestCalculateDiscounts(t *testing.T) {
	tests := []struct {
		name             string
		nights           int
		weekly, monthly  int64
		expectedDiscount int64
		expectedKind     DiscountKind
	}{
		{name: "short stay has no discount", nights: 6, weekly: 10, monthly: 20, expectedDiscount: 0, expectedKind: DiscountNone},
		{name: "weekly at seven nights", nights: 7, weekly: 10, monthly: 20, expectedDiscount: 70000, expectedKind: DiscountWeekly},
		{name: "monthly takes precedence", nights: 30, weekly: 10, monthly: 20, expectedDiscount: 600000, expectedKind: DiscountMonthly},
		{name: "weekly when monthly unset", nights: 30, weekly: 10, monthly: 0, expectedDiscount: 300000, expectedKind: DiscountWeekly},
		{name: "monthly at twenty eight nights", nights: 28, weekly: 0, monthly: 15, expectedDiscount: 420000, expectedKind: DiscountMonthly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sites.Pricing{
				BasePrice:       vnd(100000),
				WeeklyDiscount:  sites.WholePercent(tt.weekly),
				MonthlyDiscount: sites.WholePercent(tt.monthly),
			}
			in := day("2024-01-01")
			got, err := Calculate(p, QuoteInput{CheckIn: in, CheckOut: in.AddDate(0, 0, tt.nights), Guests: 1})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedDiscount, got.Discount.Amount)
			assert.Equal(t, tt.expectedKind, got.DiscountKind)
			assert.Equal(t, got.Subtotal.Amount-tt.expectedDiscount, got.Total.Amount)
		})
	}
}

func TestCalculateTenNightWeeklyScenario(t *testing.T) {
	p := sites.Pricing{
		BasePrice:      vnd(400000),
		WeeklyDiscount: sites.WholePercent(10),
		CleaningFee:    vnd(50000),
	}
	got, err := Calculate(p, QuoteInput{CheckIn: day("2024-07-01"), CheckOut: day("2024-07-11"), Guests: 2, MaxGuests: 6})
	require.NoError(t, err)

	assert.Equal(t, 10, got.Nights)
	assert.Equal(t, int64(4000000), got.Subtotal.Amount)
	assert.Equal(t, int64(400000), got.Discount.Amount)
	assert.Equal(t, int64(3600000+50000), got.Total.Amount)
}

func TestCalculateFees(t *testing.T) {
	p := sites.Pricing{
		BasePrice:          vnd(1000),
		CleaningFee:        vnd(300),
		PetFee:             vnd(200),
		AdditionalGuestFee: vnd(150),
	}
	got, err := Calculate(p, QuoteInput{CheckIn: day("2024-06-03"), CheckOut: day("2024-06-04"), Guests: 6, MaxGuests: 4})
	require.NoError(t, err)

	assert.Equal(t, 2, got.ExtraGuests)
	assert.Equal(t, int64(300), got.Fees.Cleaning.Amount)
	assert.Equal(t, int64(200), got.Fees.Pet.Amount)
	assert.Equal(t, int64(300), got.Fees.ExtraGuest.Amount)
	assert.Equal(t, int64(1000+300+200+300), got.Total.Amount)

	within, err := Calculate(p, QuoteInput{CheckIn: day("2024-06-03"), CheckOut: day("2024-06-04"), Guests: 4, MaxGuests: 4})
	require.NoError(t, err)
	assert.Equal(t, 0, within.ExtraGuests)
	assert.True(t, within.Fees.ExtraGuest.IsZero())
	assert.Equal(t, "VND", within.Fees.ExtraGuest.Currency)
}

func TestCalculateRejectsInvalidRange(t *testing.T) {
	p := sites.Pricing{BasePrice: vnd(1000)}
	_, err := Calculate(p, QuoteInput{CheckIn: day("2024-06-04"), CheckOut: day("2024-06-04"), Guests: 1})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Calculate(p, QuoteInput{CheckIn: day("2024-06-05"), CheckOut: day("2024-06-04"), Guests: 1})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCalculateRejectsInvalidPricing(t *testing.T) {
	_, err := Calculate(sites.Pricing{}, QuoteInput{CheckIn: day("2024-06-04"), CheckOut: day("2024-06-05"), Guests: 1})
	assert.ErrorIs(t, err, sites.ErrBasePrice)
}

func TestCalculateIsDeterministic(t *testing.T) {
	p := sites.Pricing{
		BasePrice:       vnd(333333),
		WeekendPrice:    ptr(vnd(444444)),
		MonthlyDiscount: sites.Percent(1234),
		CleaningFee:     vnd(1),
	}
	in := QuoteInput{CheckIn: day("2024-01-01"), CheckOut: day("2024-02-15"), Guests: 3, MaxGuests: 2}
	first, err := Calculate(p, in)
	require.NoError(t, err)
	second, err := Calculate(p, in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.LessOrEqual(t, first.Discount.Amount, first.Subtotal.Amount)
}
