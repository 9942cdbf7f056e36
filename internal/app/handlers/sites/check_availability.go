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

const checkAvailabilityKey = "sites.check_availability"

type CheckAvailabilityQuery struct {
	SiteID   string    `validate:"required"`
	CheckIn  time.Time `validate:"required"`
	CheckOut time.Time `validate:"required"`
}

func (q CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

type CheckAvailabilityHandler struct {
	Service Service
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (dto.Availability, error) {
	if h.Service == nil {
		return dto.Availability{}, errors.New("sites: service missing")
	}
	verdict, err := h.Service.CheckAvailability(ctx, domainsites.SiteID(q.SiteID), q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.Availability{}, err
	}
	stay := daterange.DateRange{CheckIn: daterange.Day(q.CheckIn), CheckOut: daterange.Day(q.CheckOut)}
	return dto.MapVerdict(verdict, stay), nil
}

var _ queries.Handler[CheckAvailabilityQuery, dto.Availability] = (*CheckAvailabilityHandler)(nil)
