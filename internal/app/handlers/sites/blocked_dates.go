package sites

import (
	"context"
	"errors"
	"time"

	"siteavail/internal/app/dto"
	"siteavail/internal/app/queries"
	domainsites "siteavail/internal/domain/sites"
)

const blockedDatesKey = "sites.blocked_dates"

type GetBlockedDatesQuery struct {
	SiteID string    `validate:"required"`
	Start  time.Time `validate:"required"`
	End    time.Time `validate:"required"`
}

func (q GetBlockedDatesQuery) Key() string { return blockedDatesKey }

type GetBlockedDatesHandler struct {
	Service Service
}

func (h *GetBlockedDatesHandler) Handle(ctx context.Context, q GetBlockedDatesQuery) (dto.BlockedDates, error) {
	if h.Service == nil {
		return dto.BlockedDates{}, errors.New("sites: service missing")
	}
	res, err := h.Service.GetBlockedDates(ctx, domainsites.SiteID(q.SiteID), q.Start, q.End)
	if err != nil {
		return dto.BlockedDates{}, err
	}
	return dto.MapBlockedDates(res), nil
}

const occupancyKey = "sites.occupancy_calendar"

type GetOccupancyCalendarQuery struct {
	SiteID string    `validate:"required"`
	Start  time.Time `validate:"required"`
	End    time.Time `validate:"required"`
}

func (q GetOccupancyCalendarQuery) Key() string { return occupancyKey }

type GetOccupancyCalendarHandler struct {
	Service Service
}

func (h *GetOccupancyCalendarHandler) Handle(ctx context.Context, q GetOccupancyCalendarQuery) (dto.OccupancyCalendar, error) {
	if h.Service == nil {
		return dto.OccupancyCalendar{}, errors.New("sites: service missing")
	}
	res, err := h.Service.GetOccupancyCalendar(ctx, domainsites.SiteID(q.SiteID), q.Start, q.End)
	if err != nil {
		return dto.OccupancyCalendar{}, err
	}
	return dto.MapOccupancyCalendar(res), nil
}

var (
	_ queries.Handler[GetBlockedDatesQuery, dto.BlockedDates]           = (*GetBlockedDatesHandler)(nil)
	_ queries.Handler[GetOccupancyCalendarQuery, dto.OccupancyCalendar] = (*GetOccupancyCalendarHandler)(nil)
)
