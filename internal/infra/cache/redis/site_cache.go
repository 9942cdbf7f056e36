package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"siteavail/internal/domain/shared/money"
	domainsites "siteavail/internal/domain/sites"
)

const keyPrefix = "siteavail:site:"

// Stats receives one call per lookup with result hit, miss or error.
type Stats interface {
	CacheLookup(result string)
}

// SiteRepository is a read-through cache over another site repository. Only found sites are
// cached; Redis failures fall back to the inner repository.
type SiteRepository struct {
	Inner  domainsites.Repository
	Store  Store
	TTL    time.Duration
	Logger *slog.Logger
	Stats  Stats
}

func (r *SiteRepository) FindSiteByID(ctx context.Context, id domainsites.SiteID) (*domainsites.Site, bool, error) {
	key := keyPrefix + string(id)
	raw, err := r.Store.Get(ctx, key)
	switch {
	case err == nil:
		site, decodeErr := decodeSite(raw)
		if decodeErr == nil {
			r.count("hit")
			return &site, true, nil
		}
		r.warn(ctx, "site cache entry unreadable", id, decodeErr)
		r.count("error")
	case errors.Is(err, ErrMiss):
		r.count("miss")
	default:
		r.warn(ctx, "site cache read failed", id, err)
		r.count("error")
	}

	site, ok, err := r.Inner.FindSiteByID(ctx, id)
	if err != nil || !ok || site == nil {
		return site, ok, err
	}
	if payload, encErr := encodeSite(*site); encErr == nil {
		if setErr := r.Store.Set(ctx, key, payload, r.TTL); setErr != nil {
			r.warn(ctx, "site cache write failed", id, setErr)
		}
	}
	return site, true, nil
}

// Invalidate drops the cached copy of a site.
func (r *SiteRepository) Invalidate(ctx context.Context, id domainsites.SiteID) error {
	return r.Store.Del(ctx, keyPrefix+string(id))
}

func (r *SiteRepository) count(result string) {
	if r.Stats != nil {
		r.Stats.CacheLookup(result)
	}
}

func (r *SiteRepository) warn(ctx context.Context, msg string, id domainsites.SiteID, err error) {
	if r.Logger != nil {
		r.Logger.WarnContext(ctx, msg, "site_id", id, "error", err)
	}
}

type cachedSite struct {
	ID         string         `json:"id"`
	PropertyID string         `json:"property_id,omitempty"`
	Name       string         `json:"name,omitempty"`
	MaxGuests  int            `json:"max_guests"`
	MaxConc    int            `json:"max_concurrent_bookings"`
	Currency   string         `json:"currency"`
	Base       int64          `json:"base_price"`
	Weekend    *int64         `json:"weekend_price,omitempty"`
	Seasonal   []cachedSeason `json:"seasonal,omitempty"`
	WeeklyBP   int64          `json:"weekly_discount_bp,omitempty"`
	MonthlyBP  int64          `json:"monthly_discount_bp,omitempty"`
	Cleaning   int64          `json:"cleaning_fee,omitempty"`
	Pet        int64          `json:"pet_fee,omitempty"`
	ExtraGuest int64          `json:"additional_guest_fee,omitempty"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type cachedSeason struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Price int64     `json:"price"`
}

func encodeSite(s domainsites.Site) ([]byte, error) {
	p := s.Pricing
	c := cachedSite{
		ID:         string(s.ID),
		PropertyID: string(s.PropertyID),
		Name:       s.Name,
		MaxGuests:  s.Capacity.MaxGuests,
		MaxConc:    s.Capacity.MaxConcurrentBookings,
		Currency:   p.BasePrice.Currency,
		Base:       p.BasePrice.Amount,
		WeeklyBP:   int64(p.WeeklyDiscount),
		MonthlyBP:  int64(p.MonthlyDiscount),
		Cleaning:   p.CleaningFee.Amount,
		Pet:        p.PetFee.Amount,
		ExtraGuest: p.AdditionalGuestFee.Amount,
		UpdatedAt:  s.UpdatedAt,
	}
	if p.WeekendPrice != nil {
		w := p.WeekendPrice.Amount
		c.Weekend = &w
	}
	for _, season := range p.Seasonal {
		c.Seasonal = append(c.Seasonal, cachedSeason{Name: season.Name, Start: season.Start, End: season.End, Price: season.Price.Amount})
	}
	return json.Marshal(c)
}

func decodeSite(raw []byte) (domainsites.Site, error) {
	var c cachedSite
	if err := json.Unmarshal(raw, &c); err != nil {
		return domainsites.Site{}, err
	}
	amount := func(a int64) money.Money { return money.Money{Amount: a, Currency: c.Currency} }
	p := domainsites.Pricing{
		BasePrice:          amount(c.Base),
		WeeklyDiscount:     domainsites.Percent(c.WeeklyBP),
		MonthlyDiscount:    domainsites.Percent(c.MonthlyBP),
		CleaningFee:        amount(c.Cleaning),
		PetFee:             amount(c.Pet),
		AdditionalGuestFee: amount(c.ExtraGuest),
	}
	if c.Weekend != nil {
		w := amount(*c.Weekend)
		p.WeekendPrice = &w
	}
	for _, s := range c.Seasonal {
		p.Seasonal = append(p.Seasonal, domainsites.SeasonalRate{Name: s.Name, Start: s.Start, End: s.End, Price: amount(s.Price)})
	}
	site := domainsites.Site{
		ID:         domainsites.SiteID(c.ID),
		PropertyID: domainsites.PropertyID(c.PropertyID),
		Name:       c.Name,
		Capacity:   domainsites.Capacity{MaxGuests: c.MaxGuests, MaxConcurrentBookings: c.MaxConc},
		Pricing:    p,
		UpdatedAt:  c.UpdatedAt,
	}
	if err := site.Validate(); err != nil {
		return domainsites.Site{}, err
	}
	return site, nil
}

var _ domainsites.Repository = (*SiteRepository)(nil)
