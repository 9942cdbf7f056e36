package sites

import (
	"context"
	"errors"
	"time"

	"siteavail/internal/app/dto"
	"siteavail/internal/app/queries"
	domainsites "siteavail/internal/domain/sites"
)

const calculatePricingKey = "sites.calculate_pricing"

type CalculatePricingQuery struct {
	SiteID   string    `validate:"required"`
	CheckIn  time.Time `validate:"required"`
	CheckOut time.Time `validate:"required"`
	Guests   int       `validate:"gte=0,lte=1000"`
}

func (q CalculatePricingQuery) Key() string { return calculatePricingKey }

type CalculatePricingHandler struct {
	Service Service
}

func (h *CalculatePricingHandler) Handle(ctx context.Context, q CalculatePricingQuery) (dto.PriceBreakdown, error) {
	if h.Service == nil {
		return dto.PriceBreakdown{}, errors.New("sites: service missing")
	}
	quote, err := h.Service.CalculatePricing(ctx, domainsites.SiteID(q.SiteID), q.CheckIn, q.CheckOut, q.Guests)
	if err != nil {
		return dto.PriceBreakdown{}, err
	}
	return dto.MapPriceBreakdown(string(quote.SiteID), quote.Range, quote.Guests, quote.Breakdown), nil
}

var _ queries.Handler[CalculatePricingQuery, dto.PriceBreakdown] = (*CalculatePricingHandler)(nil)
