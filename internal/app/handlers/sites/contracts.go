package sites

import (
	"context"
	"time"

	appsvc "siteavail/internal/app/services/siteavailability"
	"siteavail/internal/domain/availability"
	domainsites "siteavail/internal/domain/sites"
)

// Service is the slice of the site availability service the query handlers need.
type Service interface {
	GetSiteAvailability(ctx context.Context, id domainsites.SiteID, checkIn, checkOut time.Time) (appsvc.SiteAvailability, error)
	CheckAvailability(ctx context.Context, id domainsites.SiteID, checkIn, checkOut time.Time) (availability.Verdict, error)
	GetBlockedDates(ctx context.Context, id domainsites.SiteID, start, end time.Time) (appsvc.BlockedDates, error)
	GetOccupancyCalendar(ctx context.Context, id domainsites.SiteID, start, end time.Time) (appsvc.OccupancyCalendar, error)
	CalculatePricing(ctx context.Context, id domainsites.SiteID, checkIn, checkOut time.Time, guests int) (appsvc.Quote, error)
}

var _ Service = (*appsvc.Service)(nil)
