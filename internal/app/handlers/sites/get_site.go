package sites

import (
	"context"
	"errors"
	"time"

	"siteavail/internal/app/dto"
	"siteavail/internal/app/queries"
	"siteavail/internal/domain/shared/daterange"
	domainsites "siteavail/internal/domain/sites"
)

const getSiteKey = "sites.get"

// GetSiteQuery loads a site and optionally evaluates a stay when both dates are set.
type GetSiteQuery struct {
	SiteID   string    `validate:"required"`
	CheckIn  time.Time
	CheckOut time.Time
}

func (q GetSiteQuery) Key() string { return getSiteKey }

type GetSiteHandler struct {
	Service Service
}

func (h *GetSiteHandler) Handle(ctx context.Context, q GetSiteQuery) (dto.SiteAvailability, error) {
	if h.Service == nil {
		return dto.SiteAvailability{}, errors.New("sites: service missing")
	}
	res, err := h.Service.GetSiteAvailability(ctx, domainsites.SiteID(q.SiteID), q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.SiteAvailability{}, err
	}
	out := dto.SiteAvailability{Site: dto.MapSite(res.Site, res.Capacity)}
	if res.Availability != nil {
		stay := daterange.DateRange{CheckIn: daterange.Day(q.CheckIn), CheckOut: daterange.Day(q.CheckOut)}
		mapped := dto.MapVerdict(*res.Availability, stay)
		out.Availability = &mapped
	}
	return out, nil
}

var _ queries.Handler[GetSiteQuery, dto.SiteAvailability] = (*GetSiteHandler)(nil)
