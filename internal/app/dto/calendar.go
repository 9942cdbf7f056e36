package dto

import (
	"time"

	"siteavail/internal/app/services/siteavailability"
	"siteavail/internal/domain/availability"
	"siteavail/internal/domain/shared/daterange"
)

type BlockedDates struct {
	SiteID       string   `json:"site_id"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	BlockedDates []string `json:"blocked_dates"`
	TotalBlocked int      `json:"total_blocked"`
}

type CalendarDay struct {
	Date      string `json:"date"`
	Occupancy int    `json:"occupancy"`
	SpotsLeft int    `json:"spots_left"`
	Blocked   bool   `json:"blocked"`
	HostBlock bool   `json:"host_block,omitempty"`
}

type OccupancyCalendar struct {
	SiteID        string        `json:"site_id"`
	CapacityModel string        `json:"capacity_model"`
	MaxConcurrent int           `json:"max_concurrent_bookings"`
	Start         string        `json:"start"`
	End           string        `json:"end"`
	Days          []CalendarDay `json:"days"`
}

func MapCalendarDays(days []availability.DayOccupancy) []CalendarDay {
	out := make([]CalendarDay, 0, len(days))
	for _, d := range days {
		out = append(out, CalendarDay{
			Date:      formatDay(d.Date),
			Occupancy: d.Occupancy,
			SpotsLeft: d.SpotsLeft,
			Blocked:   d.Blocked,
			HostBlock: d.HostBlock,
		})
	}
	return out
}

func formatDays(days []time.Time) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, formatDay(d))
	}
	return out
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(daterange.DateLayout)
}

func MapBlockedDates(res siteavailability.BlockedDates) BlockedDates {
	return BlockedDates{
		SiteID:       string(res.SiteID),
		Start:        formatDay(res.Window.CheckIn),
		End:          formatDay(res.Window.CheckOut),
		BlockedDates: formatDays(res.Dates),
		TotalBlocked: res.Total,
	}
}

func MapOccupancyCalendar(res siteavailability.OccupancyCalendar) OccupancyCalendar {
	return OccupancyCalendar{
		SiteID:        string(res.SiteID),
		CapacityModel: string(res.Capacity.Kind),
		MaxConcurrent: res.Capacity.MaxConcurrent,
		Start:         formatDay(res.Window.CheckIn),
		End:           formatDay(res.Window.CheckOut),
		Days:          MapCalendarDays(res.Days),
	}
}
