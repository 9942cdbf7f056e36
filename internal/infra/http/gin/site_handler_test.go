package ginserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteavail/internal/app/dto"
	sitesapp "siteavail/internal/app/handlers/sites"
	"siteavail/internal/app/middleware"
	"siteavail/internal/app/queries"
	"siteavail/internal/app/services/siteavailability"
	"siteavail/internal/domain/bookings"
	"siteavail/internal/domain/shared/daterange"
	"siteavail/internal/domain/shared/money"
	"siteavail/internal/domain/sites"
	"siteavail/internal/infra/config"
	"siteavail/internal/infra/obs"
	"siteavail/internal/infra/storage/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Sites.Save(ctx, sites.Site{
		ID:       "tent-7",
		Capacity: sites.Capacity{MaxGuests: 4, MaxConcurrentBookings: 1},
		Pricing:  sites.Pricing{BasePrice: money.Must(500000, "VND"), CleaningFee: money.Must(50000, "VND")},
	}))
	dr, err := daterange.Parse("2024-06-10", "2024-06-12")
	require.NoError(t, err)
	require.NoError(t, store.Bookings.Add(ctx, bookings.Booking{ID: "b1", SiteID: "tent-7", Range: dr, Status: bookings.StatusConfirmed}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := &siteavailability.Service{
		Sites:    store.Sites,
		Bookings: store.Bookings,
		Blocks:   store.Blocks,
		Logger:   logger,
	}
	bus := queries.NewInMemoryBus()
	sitesapp.Register(bus, svc)
	chained := middleware.ChainQueries(bus,
		middleware.QueryTimeout(time.Second),
		middleware.QueryValidation(middleware.NewStructValidator()),
	)
	cfg := config.Config{Env: "test"}
	return NewRouter(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{}, Handlers{
		Sites:   SiteHandler{Queries: chained},
		Metrics: obs.NewMetrics(nil),
	})
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSiteRoutesStatusCodes(t *testing.T) {
	r := newTestRouter(t)
	tests := []struct {
		name   string
		path   string
		status int
	}{
		{name: "site only", path: "/api/v1/sites/tent-7", status: http.StatusOK},
		{name: "unknown site", path: "/api/v1/sites/nope", status: http.StatusNotFound},
		{name: "half a stay", path: "/api/v1/sites/tent-7?check_in=2024-06-01", status: http.StatusBadRequest},
		{name: "bad date", path: "/api/v1/sites/tent-7/availability?check_in=june&check_out=2024-06-05", status: http.StatusBadRequest},
		{name: "missing dates", path: "/api/v1/sites/tent-7/availability", status: http.StatusBadRequest},
		{name: "inverted stay", path: "/api/v1/sites/tent-7/availability?check_in=2024-06-05&check_out=2024-06-03", status: http.StatusBadRequest},
		{name: "same day stay", path: "/api/v1/sites/tent-7/pricing?check_in=2024-06-05&check_out=2024-06-05", status: http.StatusBadRequest},
		{name: "negative guests", path: "/api/v1/sites/tent-7/pricing?check_in=2024-06-03&check_out=2024-06-05&guests=-2", status: http.StatusBadRequest},
		{name: "guests not a number", path: "/api/v1/sites/tent-7/pricing?check_in=2024-06-03&check_out=2024-06-05&guests=two", status: http.StatusBadRequest},
		{name: "window too long", path: "/api/v1/sites/tent-7/blocked-dates?start=2024-01-01&end=2026-01-01", status: http.StatusBadRequest},
		{name: "calendar", path: "/api/v1/sites/tent-7/calendar?start=2024-06-09&end=2024-06-13", status: http.StatusOK},
		{name: "liveness", path: "/livez", status: http.StatusOK},
		{name: "metrics", path: "/metrics", status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, r, tt.path)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := get(t, r, "/api/v1/sites/tent-7/availability?check_in=2024-06-11&check_out=2024-06-13")
	require.Equal(t, http.StatusOK, w.Code)
	var got dto.Availability
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.False(t, got.Available)
	assert.Equal(t, "Site is fully booked for the selected dates", got.Reason)
	assert.Equal(t, "2024-06-11", got.CheckIn)

	w = get(t, r, "/api/v1/sites/tent-7/availability?check_in=2024-06-12&check_out=2024-06-14")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Available)
	assert.Equal(t, 1, got.SpotsLeft)
}

func TestBlockedDatesEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w := get(t, r, "/api/v1/sites/tent-7/blocked-dates?start=2024-06-01&end=2024-07-01")
	require.Equal(t, http.StatusOK, w.Code)
	var got dto.BlockedDates
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []string{"2024-06-10", "2024-06-11"}, got.BlockedDates)
	assert.Equal(t, 2, got.TotalBlocked)
}

func TestPricingEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w := get(t, r, "/api/v1/sites/tent-7/pricing?check_in=2024-06-03&check_out=2024-06-05")
	require.Equal(t, http.StatusOK, w.Code)
	var got dto.PriceBreakdown
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Nights)
	assert.Equal(t, 1, got.Guests)
	assert.Equal(t, int64(1000000), got.Subtotal)
	assert.Equal(t, int64(1050000), got.Total)
	assert.Equal(t, "VND", got.Currency)
	assert.Len(t, got.Nightly, 2)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", siteavailability.ErrNotFound), http.StatusNotFound},
		{siteavailability.ErrInvalidRange, http.StatusBadRequest},
		{siteavailability.ErrInvalidGuests, http.StatusBadRequest},
		{middleware.ErrValidation, http.StatusBadRequest},
		{fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{siteavailability.ErrInvalidSite, http.StatusInternalServerError},
		{errors.New("mongo down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
