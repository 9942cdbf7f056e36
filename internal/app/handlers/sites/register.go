package sites

import (
	"siteavail/internal/app/dto"
	"siteavail/internal/app/queries"
)

// Register wires every site query handler onto the bus.
func Register(bus *queries.InMemoryBus, svc Service) {
	queries.RegisterHandler[GetSiteQuery, dto.SiteAvailability](bus, GetSiteQuery{}.Key(), &GetSiteHandler{Service: svc})
	queries.RegisterHandler[CheckAvailabilityQuery, dto.Availability](bus, CheckAvailabilityQuery{}.Key(), &CheckAvailabilityHandler{Service: svc})
	queries.RegisterHandler[GetBlockedDatesQuery, dto.BlockedDates](bus, GetBlockedDatesQuery{}.Key(), &GetBlockedDatesHandler{Service: svc})
	queries.RegisterHandler[GetOccupancyCalendarQuery, dto.OccupancyCalendar](bus, GetOccupancyCalendarQuery{}.Key(), &GetOccupancyCalendarHandler{Service: svc})
	queries.RegisterHandler[CalculatePricingQuery, dto.PriceBreakdown](bus, CalculatePricingQuery{}.Key(), &CalculatePricingHandler{Service: svc})
}
