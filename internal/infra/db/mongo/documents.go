package mongo

import (
	"time"

	domainavailability "siteavail/internal/domain/availability"
	domainbookings "siteavail/internal/domain/bookings"
	"siteavail/internal/domain/shared/daterange"
	"siteavail/internal/domain/shared/money"
	domainsites "siteavail/internal/domain/sites"
)

// Dates are stored as UTC-midnight unix milliseconds.

type siteDocument struct {
	ID         string          `bson:"_id"`
	PropertyID string          `bson:"property_id"`
	Name       string          `bson:"name"`
	Capacity   capacityDoc     `bson:"capacity"`
	Pricing    pricingDocument `bson:"pricing"`
	UpdatedAt  int64           `bson:"updated_at"`
}

type capacityDoc struct {
	MaxGuests             int `bson:"max_guests"`
	MaxConcurrentBookings int `bson:"max_concurrent_bookings"`
}

type pricingDocument struct {
	Currency           string        `bson:"currency"`
	BasePrice          int64         `bson:"base_price"`
	WeekendPrice       *int64        `bson:"weekend_price,omitempty"`
	Seasonal           []seasonalDoc `bson:"seasonal_pricing,omitempty"`
	WeeklyDiscountBP   int64         `bson:"weekly_discount_bp"`
	MonthlyDiscountBP  int64         `bson:"monthly_discount_bp"`
	CleaningFee        int64         `bson:"cleaning_fee"`
	PetFee             int64         `bson:"pet_fee"`
	AdditionalGuestFee int64         `bson:"additional_guest_fee"`
}

type seasonalDoc struct {
	Name  string `bson:"name"`
	Start int64  `bson:"start_date"`
	End   int64  `bson:"end_date"`
	Price int64  `bson:"price"`
}

func newSiteDocument(s domainsites.Site) siteDocument {
	p := s.Pricing
	doc := siteDocument{
		ID:         string(s.ID),
		PropertyID: string(s.PropertyID),
		Name:       s.Name,
		Capacity:   capacityDoc{MaxGuests: s.Capacity.MaxGuests, MaxConcurrentBookings: s.Capacity.MaxConcurrentBookings},
		Pricing: pricingDocument{
			Currency:           p.BasePrice.Currency,
			BasePrice:          p.BasePrice.Amount,
			WeeklyDiscountBP:   int64(p.WeeklyDiscount),
			MonthlyDiscountBP:  int64(p.MonthlyDiscount),
			CleaningFee:        p.CleaningFee.Amount,
			PetFee:             p.PetFee.Amount,
			AdditionalGuestFee: p.AdditionalGuestFee.Amount,
		},
		UpdatedAt: s.UpdatedAt.UnixMilli(),
	}
	if p.WeekendPrice != nil {
		amount := p.WeekendPrice.Amount
		doc.Pricing.WeekendPrice = &amount
	}
	for _, season := range p.Seasonal {
		doc.Pricing.Seasonal = append(doc.Pricing.Seasonal, seasonalDoc{
			Name:  season.Name,
			Start: dayMillis(season.Start),
			End:   dayMillis(season.End),
			Price: season.Price.Amount,
		})
	}
	return doc
}

func (d siteDocument) toSite() domainsites.Site {
	cur := d.Pricing.Currency
	amount := func(a int64) money.Money { return money.Money{Amount: a, Currency: cur} }
	p := domainsites.Pricing{
		BasePrice:          amount(d.Pricing.BasePrice),
		WeeklyDiscount:     domainsites.Percent(d.Pricing.WeeklyDiscountBP),
		MonthlyDiscount:    domainsites.Percent(d.Pricing.MonthlyDiscountBP),
		CleaningFee:        amount(d.Pricing.CleaningFee),
		PetFee:             amount(d.Pricing.PetFee),
		AdditionalGuestFee: amount(d.Pricing.AdditionalGuestFee),
	}
	if d.Pricing.WeekendPrice != nil {
		w := amount(*d.Pricing.WeekendPrice)
		p.WeekendPrice = &w
	}
	for _, s := range d.Pricing.Seasonal {
		p.Seasonal = append(p.Seasonal, domainsites.SeasonalRate{
			Name:  s.Name,
			Start: timestampToTime(s.Start),
			End:   timestampToTime(s.End),
			Price: amount(s.Price),
		})
	}
	return domainsites.Site{
		ID:         domainsites.SiteID(d.ID),
		PropertyID: domainsites.PropertyID(d.PropertyID),
		Name:       d.Name,
		Capacity:   domainsites.Capacity{MaxGuests: d.Capacity.MaxGuests, MaxConcurrentBookings: d.Capacity.MaxConcurrentBookings},
		Pricing:    p,
		UpdatedAt:  timestampToTime(d.UpdatedAt),
	}
}

type bookingDocument struct {
	ID        string        `bson:"_id"`
	SiteID    string        `bson:"site_id"`
	Range     rangeDocument `bson:"range"`
	Guests    int           `bson:"guests"`
	Status    string        `bson:"status"`
	CreatedAt int64         `bson:"created_at"`
}

type rangeDocument struct {
	CheckIn  int64 `bson:"check_in"`
	CheckOut int64 `bson:"check_out"`
}

func newBookingDocument(b domainbookings.Booking) bookingDocument {
	return bookingDocument{
		ID:        string(b.ID),
		SiteID:    string(b.SiteID),
		Range:     rangeDocument{CheckIn: dayMillis(b.Range.CheckIn), CheckOut: dayMillis(b.Range.CheckOut)},
		Guests:    b.Guests,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.UnixMilli(),
	}
}

func (d bookingDocument) toBooking() domainbookings.Booking {
	return domainbookings.Booking{
		ID:        domainbookings.BookingID(d.ID),
		SiteID:    domainsites.SiteID(d.SiteID),
		Range:     daterange.DateRange{CheckIn: timestampToTime(d.Range.CheckIn), CheckOut: timestampToTime(d.Range.CheckOut)},
		Guests:    d.Guests,
		Status:    domainbookings.Status(d.Status),
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}

type blockDocument struct {
	SiteID      string `bson:"site_id"`
	Date        int64  `bson:"date"`
	IsAvailable bool   `bson:"is_available"`
	Reason      string `bson:"reason,omitempty"`
}

func newBlockDocument(b domainavailability.Block) blockDocument {
	return blockDocument{
		SiteID:      string(b.SiteID),
		Date:        dayMillis(b.Date),
		IsAvailable: b.IsAvailable,
		Reason:      b.Reason,
	}
}

func (d blockDocument) toBlock() domainavailability.Block {
	return domainavailability.Block{
		SiteID:      domainsites.SiteID(d.SiteID),
		Date:        timestampToTime(d.Date),
		IsAvailable: d.IsAvailable,
		Reason:      d.Reason,
	}
}

func dayMillis(t time.Time) int64 {
	return daterange.Day(t).UnixMilli()
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
