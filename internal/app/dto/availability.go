package dto

import (
	"siteavail/internal/domain/availability"
	"siteavail/internal/domain/capacity"
	"siteavail/internal/domain/shared/daterange"
	"siteavail/internal/domain/sites"
)

type Availability struct {
	Available     bool     `json:"available"`
	Reason        string   `json:"reason,omitempty"`
	SpotsLeft     int      `json:"spots_left"`
	Occupancy     int      `json:"occupancy"`
	CapacityModel string   `json:"capacity_model"`
	MaxConcurrent int      `json:"max_concurrent_bookings"`
	BlockedDates  []string `json:"blocked_dates,omitempty"`
	CheckIn       string   `json:"check_in,omitempty"`
	CheckOut      string   `json:"check_out,omitempty"`
}

type SeasonalRate struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Price     int64  `json:"price"`
}

type SitePricing struct {
	Currency           string         `json:"currency"`
	BasePrice          int64          `json:"base_price"`
	WeekendPrice       *int64         `json:"weekend_price,omitempty"`
	SeasonalPricing    []SeasonalRate `json:"seasonal_pricing,omitempty"`
	WeeklyDiscountBP   int64          `json:"weekly_discount_bp,omitempty"`
	MonthlyDiscountBP  int64          `json:"monthly_discount_bp,omitempty"`
	CleaningFee        int64          `json:"cleaning_fee"`
	PetFee             int64          `json:"pet_fee"`
	AdditionalGuestFee int64          `json:"additional_guest_fee"`
}

type Site struct {
	ID                    string      `json:"id"`
	PropertyID            string      `json:"property_id,omitempty"`
	Name                  string      `json:"name,omitempty"`
	MaxGuests             int         `json:"max_guests"`
	MaxConcurrentBookings int         `json:"max_concurrent_bookings"`
	CapacityModel         string      `json:"capacity_model"`
	Pricing               SitePricing `json:"pricing"`
}

type SiteAvailability struct {
	Site         Site          `json:"site"`
	Availability *Availability `json:"availability"`
}

func MapVerdict(v availability.Verdict, stay daterange.DateRange) Availability {
	return Availability{
		Available:     v.Available,
		Reason:        v.Reason,
		SpotsLeft:     v.SpotsLeft,
		Occupancy:     v.Occupancy,
		CapacityModel: string(v.Capacity),
		MaxConcurrent: v.MaxConcurrent,
		BlockedDates:  formatDays(v.BlockedDates),
		CheckIn:       formatDay(stay.CheckIn),
		CheckOut:      formatDay(stay.CheckOut),
	}
}

func MapSite(s *sites.Site, model capacity.Model) Site {
	if s == nil {
		return Site{}
	}
	p := s.Pricing
	out := Site{
		ID:                    string(s.ID),
		PropertyID:            string(s.PropertyID),
		Name:                  s.Name,
		MaxGuests:             s.Capacity.MaxGuests,
		MaxConcurrentBookings: model.MaxConcurrent,
		CapacityModel:         string(model.Kind),
		Pricing: SitePricing{
			Currency:           p.BasePrice.Currency,
			BasePrice:          p.BasePrice.Amount,
			WeeklyDiscountBP:   int64(p.WeeklyDiscount),
			MonthlyDiscountBP:  int64(p.MonthlyDiscount),
			CleaningFee:        p.CleaningFee.Amount,
			PetFee:             p.PetFee.Amount,
			AdditionalGuestFee: p.AdditionalGuestFee.Amount,
		},
	}
	if p.WeekendPrice != nil {
		amount := p.WeekendPrice.Amount
		out.Pricing.WeekendPrice = &amount
	}
	for _, season := range p.Seasonal {
		out.Pricing.SeasonalPricing = append(out.Pricing.SeasonalPricing, SeasonalRate{
			Name:      season.Name,
			StartDate: formatDay(season.Start),
			EndDate:   formatDay(season.End),
			Price:     season.Price.Amount,
		})
	}
	return out
}
