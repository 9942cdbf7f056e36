package sites

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteavail/internal/app/dto"
	"siteavail/internal/app/queries"
	appsvc "siteavail/internal/app/services/siteavailability"
	"siteavail/internal/domain/shared/money"
	domainsites "siteavail/internal/domain/sites"
	"siteavail/internal/infra/storage/memory"
)

func newBus(t *testing.T) *queries.InMemoryBus {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Sites.Save(context.Background(), domainsites.Site{
		ID:       "meadow",
		Capacity: domainsites.Capacity{MaxGuests: 6, MaxConcurrentBookings: 3},
		Pricing:  domainsites.Pricing{BasePrice: money.Must(400000, "VND")},
	}))
	bus := queries.NewInMemoryBus()
	Register(bus, &appsvc.Service{Sites: store.Sites, Bookings: store.Bookings, Blocks: store.Blocks})
	return bus
}

func TestRegisterWiresEveryQuery(t *testing.T) {
	bus := newBus(t)
	assert.ElementsMatch(t, []string{
		getSiteKey, checkAvailabilityKey, blockedDatesKey, occupancyKey, calculatePricingKey,
	}, bus.Keys())
}

func TestGetSiteWithoutDates(t *testing.T) {
	bus := newBus(t)
	res, err := queries.Ask[GetSiteQuery, dto.SiteAvailability](context.Background(), bus, GetSiteQuery{SiteID: "meadow"})
	require.NoError(t, err)
	assert.Equal(t, "meadow", res.Site.ID)
	assert.Equal(t, "UNDESIGNATED", res.Site.CapacityModel)
	assert.Equal(t, 3, res.Site.MaxConcurrentBookings)
	assert.Nil(t, res.Availability)
}

func TestCalendarAndPricingQueries(t *testing.T) {
	bus := newBus(t)
	ctx := context.Background()
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	cal, err := queries.Ask[GetOccupancyCalendarQuery, dto.OccupancyCalendar](ctx, bus,
		GetOccupancyCalendarQuery{SiteID: "meadow", Start: start, End: start.AddDate(0, 0, 3)})
	require.NoError(t, err)
	require.Len(t, cal.Days, 3)
	assert.Equal(t, 3, cal.Days[0].SpotsLeft)

	quote, err := queries.Ask[CalculatePricingQuery, dto.PriceBreakdown](ctx, bus,
		CalculatePricingQuery{SiteID: "meadow", CheckIn: start, CheckOut: start.AddDate(0, 0, 2), Guests: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(800000), quote.Total)
	assert.Equal(t, "2024-06-03", quote.CheckIn)
}

func TestHandlersRequireService(t *testing.T) {
	_, err := (&CheckAvailabilityHandler{}).Handle(context.Background(), CheckAvailabilityQuery{SiteID: "x"})
	assert.Error(t, err)
}
