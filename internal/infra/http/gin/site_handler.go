package ginserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"siteavail/internal/app/dto"
	sitesapp "siteavail/internal/app/handlers/sites"
	"siteavail/internal/app/queries"
	"siteavail/internal/domain/shared/daterange"
)

type SiteHandler struct {
	Queries queries.Bus
}

// Get returns the site and, when check_in and check_out are both supplied, its availability.
func (h SiteHandler) Get(c *gin.Context) {
	checkIn, err := optionalDate(c, "check_in")
	if err != nil {
		writeError(c, err)
		return
	}
	checkOut, err := optionalDate(c, "check_out")
	if err != nil {
		writeError(c, err)
		return
	}
	if checkIn.IsZero() != checkOut.IsZero() {
		writeError(c, fmt.Errorf("%w: check_in and check_out must be supplied together", errBadRequest))
		return
	}
	query := sitesapp.GetSiteQuery{SiteID: c.Param("id"), CheckIn: checkIn, CheckOut: checkOut}
	result, err := queries.Ask[sitesapp.GetSiteQuery, dto.SiteAvailability](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h SiteHandler) Availability(c *gin.Context) {
	checkIn, checkOut, err := requiredPair(c, "check_in", "check_out")
	if err != nil {
		writeError(c, err)
		return
	}
	query := sitesapp.CheckAvailabilityQuery{SiteID: c.Param("id"), CheckIn: checkIn, CheckOut: checkOut}
	result, err := queries.Ask[sitesapp.CheckAvailabilityQuery, dto.Availability](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h SiteHandler) BlockedDates(c *gin.Context) {
	start, end, err := requiredPair(c, "start", "end")
	if err != nil {
		writeError(c, err)
		return
	}
	query := sitesapp.GetBlockedDatesQuery{SiteID: c.Param("id"), Start: start, End: end}
	result, err := queries.Ask[sitesapp.GetBlockedDatesQuery, dto.BlockedDates](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h SiteHandler) Pricing(c *gin.Context) {
	checkIn, checkOut, err := requiredPair(c, "check_in", "check_out")
	if err != nil {
		writeError(c, err)
		return
	}
	guests := 0
	if raw := strings.TrimSpace(c.Query("guests")); raw != "" {
		guests, err = strconv.Atoi(raw)
		if err != nil {
			writeError(c, fmt.Errorf("%w: guests must be an integer", errBadRequest))
			return
		}
	}
	query := sitesapp.CalculatePricingQuery{SiteID: c.Param("id"), CheckIn: checkIn, CheckOut: checkOut, Guests: guests}
	result, err := queries.Ask[sitesapp.CalculatePricingQuery, dto.PriceBreakdown](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h SiteHandler) Calendar(c *gin.Context) {
	start, end, err := requiredPair(c, "start", "end")
	if err != nil {
		writeError(c, err)
		return
	}
	query := sitesapp.GetOccupancyCalendarQuery{SiteID: c.Param("id"), Start: start, End: end}
	result, err := queries.Ask[sitesapp.GetOccupancyCalendarQuery, dto.OccupancyCalendar](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func requiredPair(c *gin.Context, first, second string) (time.Time, time.Time, error) {
	a, err := optionalDate(c, first)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	b, err := optionalDate(c, second)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if a.IsZero() || b.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s and %s are required", errBadRequest, first, second)
	}
	return a, b, nil
}

// optionalDate accepts YYYY-MM-DD or RFC3339; an absent parameter yields the zero time.
func optionalDate(c *gin.Context, name string) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(daterange.DateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", errBadRequest, name)
	}
	return t, nil
}

var _ SiteHTTP = SiteHandler{}
