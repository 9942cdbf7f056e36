package dto

import (
	"siteavail/internal/domain/pricing"
	"siteavail/internal/domain/shared/daterange"
)

type NightRate struct {
	Date   string `json:"date"`
	Price  int64  `json:"price"`
	Source string `json:"source"`
	Season string `json:"season,omitempty"`
}

type Fees struct {
	Cleaning   int64 `json:"cleaning"`
	Pet        int64 `json:"pet"`
	ExtraGuest int64 `json:"extra_guest"`
}

type PriceBreakdown struct {
	SiteID         string      `json:"site_id"`
	CheckIn        string      `json:"check_in"`
	CheckOut       string      `json:"check_out"`
	Guests         int         `json:"guests"`
	Currency       string      `json:"currency"`
	Nights         int         `json:"nights"`
	BasePrice      int64       `json:"base_price"`
	Subtotal       int64       `json:"subtotal"`
	DiscountAmount int64       `json:"discount_amount"`
	DiscountKind   string      `json:"discount_kind,omitempty"`
	ExtraGuests    int         `json:"extra_guests"`
	Fees           Fees        `json:"fees"`
	Total          int64       `json:"total"`
	Nightly        []NightRate `json:"nightly"`
}

func MapPriceBreakdown(siteID string, stay daterange.DateRange, guests int, b pricing.PriceBreakdown) PriceBreakdown {
	nightly := make([]NightRate, 0, len(b.Nightly))
	for _, n := range b.Nightly {
		nightly = append(nightly, NightRate{
			Date:   formatDay(n.Date),
			Price:  n.Price.Amount,
			Source: string(n.Source),
			Season: n.Season,
		})
	}
	return PriceBreakdown{
		SiteID:         siteID,
		CheckIn:        formatDay(stay.CheckIn),
		CheckOut:       formatDay(stay.CheckOut),
		Guests:         guests,
		Currency:       b.Total.Currency,
		Nights:         b.Nights,
		BasePrice:      b.BasePrice.Amount,
		Subtotal:       b.Subtotal.Amount,
		DiscountAmount: b.Discount.Amount,
		DiscountKind:   string(b.DiscountKind),
		ExtraGuests:    b.ExtraGuests,
		Fees: Fees{
			Cleaning:   b.Fees.Cleaning.Amount,
			Pet:        b.Fees.Pet.Amount,
			ExtraGuest: b.Fees.ExtraGuest.Amount,
		},
		Total:   b.Total.Amount,
		Nightly: nightly,
	}
}
