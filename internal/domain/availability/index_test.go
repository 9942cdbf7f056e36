package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteavail/internal/domain/bookings"
	"siteavail/internal/domain/capacity"
	"siteavail/internal/domain/shared/daterange"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := time.Parse(daterange.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func stay(in, out string) daterange.DateRange {
	dr, err := daterange.Parse(in, out)
	if err != nil {
		panic(err)
	}
	return dr
}

func booking(id, in, out string, status bookings.Status) bookings.Booking {
	return bookings.Booking{ID: bookings.BookingID(id), SiteID: "site-1", Range: stay(in, out), Status: status}
}

func model(t *testing.T, max int) capacity.Model {
	t.Helper()
	m, err := capacity.Classify(max)
	require.NoError(t, err)
	return m
}

func formatDays(days []time.Time) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Format(daterange.DateLayout))
	}
	return out
}

func TestCheckStayDesignatedExclusivity(t *testing.T) {
	ix := NewIndex("site-1", model(t, 1), []bookings.Booking{
		booking("b1", "2024-06-03", "2024-06-05", bookings.StatusConfirmed),
	}, nil, now)

	v := ix.CheckStay(stay("2024-06-04", "2024-06-08"))
	assert.False(t, v.Available)
	assert.Equal(t, 0, v.SpotsLeft)
	assert.Contains(t, v.Reason, "fully booked")
	assert.Equal(t, capacity.Designated, v.Capacity)
}

func TestCheckStayBackToBackTurnover(t *testing.T) {
	ix := NewIndex("site-1", model(t, 1), []bookings.Booking{
		booking("b1", "2024-06-01", "2024-06-05", bookings.StatusConfirmed),
	}, nil, now)

	v := ix.CheckStay(stay("2024-06-05", "2024-06-07"))
	assert.True(t, v.Available)
	assert.Equal(t, 1, v.SpotsLeft)

	v = ix.CheckStay(stay("2024-05-29", "2024-06-01"))
	assert.True(t, v.Available)
}

func TestCheckStayUndesignatedThreshold(t *testing.T) {
	two := []bookings.Booking{
		booking("b1", "2024-06-01", "2024-06-05", bookings.StatusConfirmed),
		booking("b2", "2024-06-02", "2024-06-04", bookings.StatusPending),
	}
	ix := NewIndex("site-1", model(t, 3), two, nil, now)
	v := ix.CheckStay(stay("2024-06-01", "2024-06-05"))
	assert.True(t, v.Available)
	assert.Equal(t, 1, v.SpotsLeft)
	assert.Equal(t, 2, v.Occupancy)

	three := append(two, booking("b3", "2024-06-04", "2024-06-06", bookings.StatusConfirmed))
	ix = NewIndex("site-1", model(t, 3), three, nil, now)
	v = ix.CheckStay(stay("2024-06-01", "2024-06-05"))
	assert.False(t, v.Available)
	assert.Equal(t, 0, v.SpotsLeft)
	assert.Contains(t, v.Reason, "All 3 spots")
}

func TestCheckStayTwoSpotScenario(t *testing.T) {
	ix := NewIndex("site-1", model(t, 2), []bookings.Booking{
		booking("b1", "2024-06-01", "2024-06-05", bookings.StatusConfirmed),
		booking("b2", "2024-06-01", "2024-06-05", bookings.StatusConfirmed),
	}, nil, now)

	v := ix.CheckStay(stay("2024-06-01", "2024-06-05"))
	assert.False(t, v.Available)
	assert.Contains(t, v.Reason, "2 spots")
}

func TestCheckStayIgnoresInactiveBookings(t *testing.T) {
	ix := NewIndex("site-1", model(t, 1), []bookings.Booking{
		booking("b1", "2024-06-01", "2024-06-05", bookings.StatusCancelled),
		booking("b2", "2024-06-01", "2024-06-05", bookings.StatusCompleted),
	}, nil, now)

	v := ix.CheckStay(stay("2024-06-01", "2024-06-05"))
	assert.True(t, v.Available)
	assert.Equal(t, 0, v.Occupancy)
}

func TestCheckStayHostBlocksOnDesignated(t *testing.T) {
	blocks := []Block{
		{SiteID: "site-1", Date: day("2024-06-04")},
		{SiteID: "site-1", Date: day("2024-06-02")},
		{SiteID: "site-1", Date: day("2024-06-09")},
		{SiteID: "site-1", Date: day("2024-06-03"), IsAvailable: true},
	}
	ix := NewIndex("site-1", model(t, 1), nil, blocks, now)

	v := ix.CheckStay(stay("2024-06-01", "2024-06-06"))
	assert.False(t, v.Available)
	assert.Contains(t, v.Reason, "blocked for some dates")
	assert.Equal(t, []string{"2024-06-02", "2024-06-04"}, formatDays(v.BlockedDates))
	assert.Empty(t, ix.PendingEvents())
}

func TestCheckStayIgnoresBlocksOnUndesignated(t *testing.T) {
	blocks := []Block{{SiteID: "site-1", Date: day("2024-06-02")}, {SiteID: "site-1", Date: day("2024-06-03")}}
	ix := NewIndex("site-1", model(t, 4), nil, blocks, now)

	v := ix.CheckStay(stay("2024-06-01", "2024-06-05"))
	assert.True(t, v.Available)
	assert.Equal(t, 4, v.SpotsLeft)

	evs := ix.PendingEvents()
	require.Len(t, evs, 1)
	ignored, ok := evs[0].(BlocksIgnored)
	require.True(t, ok)
	assert.Equal(t, "site-1", ignored.AggregateID())
	assert.Equal(t, 2, ignored.Discarded)
	assert.Equal(t, "availability.blocks_ignored", ignored.EventName())
}

func TestBlockedDatesDesignated(t *testing.T) {
	ix := NewIndex("site-1", model(t, 1), []bookings.Booking{
		booking("b1", "2024-06-01", "2024-06-03", bookings.StatusConfirmed),
		booking("b2", "2024-06-28", "2024-07-03", bookings.StatusPending),
	}, []Block{{SiteID: "site-1", Date: day("2024-06-10")}, {SiteID: "site-1", Date: day("2024-07-10")}}, now)

	got := ix.BlockedDates(stay("2024-06-01", "2024-07-01"))
	assert.Equal(t, []string{"2024-06-01", "2024-06-02", "2024-06-10", "2024-06-28", "2024-06-29", "2024-06-30"}, formatDays(got.Dates))
	assert.Equal(t, 6, got.Total)
}

func TestBlockedDatesUndesignatedCountsPerDay(t *testing.T) {
	ix := NewIndex("site-1", model(t, 2), []bookings.Booking{
		booking("b1", "2024-06-01", "2024-06-05", bookings.StatusConfirmed),
		booking("b2", "2024-06-03", "2024-06-07", bookings.StatusConfirmed),
		booking("b3", "2024-06-04", "2024-06-05", bookings.StatusCancelled),
	}, []Block{{SiteID: "site-1", Date: day("2024-06-01")}}, now)

	got := ix.BlockedDates(stay("2024-06-01", "2024-06-10"))
	assert.Equal(t, []string{"2024-06-03", "2024-06-04"}, formatDays(got.Dates))
	assert.Equal(t, 2, got.Total)
	assert.Len(t, ix.PendingEvents(), 1)
}

func TestOccupancyCalendar(t *testing.T) {
	ix := NewIndex("site-1", model(t, 2), []bookings.Booking{
		booking("b1", "2024-06-01", "2024-06-03", bookings.StatusConfirmed),
		booking("b2", "2024-06-02", "2024-06-04", bookings.StatusConfirmed),
	}, nil, now)

	days := ix.Occupancy(stay("2024-06-01", "2024-06-05"))
	require.Len(t, days, 4)
	occupancy := []int{days[0].Occupancy, days[1].Occupancy, days[2].Occupancy, days[3].Occupancy}
	assert.Equal(t, []int{1, 2, 1, 0}, occupancy)
	assert.False(t, days[0].Blocked)
	assert.True(t, days[1].Blocked)
	assert.Equal(t, 0, days[1].SpotsLeft)
	assert.Equal(t, 2, days[3].SpotsLeft)
}

func TestOccupancyMarksHostBlocks(t *testing.T) {
	ix := NewIndex("site-1", model(t, 1), nil, []Block{{SiteID: "site-1", Date: day("2024-06-02")}}, now)

	days := ix.Occupancy(stay("2024-06-01", "2024-06-03"))
	require.Len(t, days, 2)
	assert.False(t, days[0].Blocked)
	assert.True(t, days[1].Blocked)
	assert.True(t, days[1].HostBlock)
	assert.Equal(t, 0, days[1].SpotsLeft)
}
