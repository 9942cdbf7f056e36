package availability

import (
	"fmt"
	"slices"
	"time"

	"siteavail/internal/domain/bookings"
	"siteavail/internal/domain/capacity"
	"siteavail/internal/domain/shared/daterange"
	"siteavail/internal/domain/shared/events"
	"siteavail/internal/domain/sites"
)

const reasonBlocked = "Site is blocked for some dates in this range"

// Index merges active bookings and host blocks of one site into occupancy answers.
// It is built per query from a fresh snapshot and discarded afterwards.
type Index struct {
	siteID   sites.SiteID
	model    capacity.Model
	bookings []bookings.Booking
	blocked  map[time.Time]struct{}
	events.EventRecorder
}

// NewIndex keeps only active bookings and blocking rows. Block rows on an Undesignated site
// are discarded and a BlocksIgnored event is recorded.
func NewIndex(siteID sites.SiteID, model capacity.Model, bs []bookings.Booking, blocks []Block, now time.Time) *Index {
	ix := &Index{
		siteID:  siteID,
		model:   model,
		blocked: make(map[time.Time]struct{}),
	}
	for _, b := range bs {
		if !b.IsActive() {
			continue
		}
		b.Range = daterange.DateRange{CheckIn: daterange.Day(b.Range.CheckIn), CheckOut: daterange.Day(b.Range.CheckOut)}
		ix.bookings = append(ix.bookings, b)
	}

	var ignored []time.Time
	for _, block := range blocks {
		if !block.Blocking() {
			continue
		}
		day := daterange.Day(block.Date)
		if !model.AcceptsHostBlocks() {
			ignored = append(ignored, day)
			continue
		}
		ix.blocked[day] = struct{}{}
	}
	if len(ignored) > 0 {
		slices.SortFunc(ignored, compareDays)
		ix.Record(BlocksIgnoredEvent(siteID, model.MaxConcurrent, ignored, now))
	}
	return ix
}

func (ix *Index) Model() capacity.Model { return ix.model }

// BlockedDates is the set of unavailable days inside a window.
type BlockedDates struct {
	Dates []time.Time
	Total int
}

// BlockedDates folds booking occupancy into a day->count map restricted to the window and
// marks a day blocked once the count reaches capacity. Host blocks add to the set on
// Designated sites only.
func (ix *Index) BlockedDates(window daterange.DateRange) BlockedDates {
	counts := ix.dayCounts(window)
	set := make(map[time.Time]struct{}, len(counts)+len(ix.blocked))
	for day, n := range counts {
		if ix.model.Exhausted(n) {
			set[day] = struct{}{}
		}
	}
	for day := range ix.blocked {
		if window.ContainsDate(day) {
			set[day] = struct{}{}
		}
	}
	dates := make([]time.Time, 0, len(set))
	for day := range set {
		dates = append(dates, day)
	}
	slices.SortFunc(dates, compareDays)
	return BlockedDates{Dates: dates, Total: len(dates)}
}

// DayOccupancy describes one calendar day.
type DayOccupancy struct {
	Date      time.Time
	Occupancy int
	SpotsLeft int
	Blocked   bool
	HostBlock bool
}

// Occupancy returns one entry per day of the window, in order.
func (ix *Index) Occupancy(window daterange.DateRange) []DayOccupancy {
	counts := ix.dayCounts(window)
	out := make([]DayOccupancy, 0, window.Nights())
	for day := range window.Days() {
		n := counts[day]
		_, host := ix.blocked[day]
		left := ix.model.SpotsLeft(n)
		if host {
			left = 0
		}
		out = append(out, DayOccupancy{
			Date:      day,
			Occupancy: n,
			SpotsLeft: left,
			Blocked:   host || ix.model.Exhausted(n),
			HostBlock: host,
		})
	}
	return out
}

func (ix *Index) dayCounts(window daterange.DateRange) map[time.Time]int {
	counts := make(map[time.Time]int)
	for _, b := range ix.bookings {
		clipped, ok := b.Range.Intersect(window)
		if !ok {
			continue
		}
		for day := range clipped.Days() {
			counts[day]++
		}
	}
	return counts
}

// Verdict is the advisory answer for a single proposed stay. It is a point-in-time view,
// not a reservation.
type Verdict struct {
	Available     bool
	Reason        string
	SpotsLeft     int
	Occupancy     int
	Capacity      capacity.Kind
	MaxConcurrent int
	BlockedDates  []time.Time
}

// CheckStay treats the proposed range as one candidate occupant and counts active bookings
// overlapping any part of it. Back-to-back turnover does not overlap.
func (ix *Index) CheckStay(stay daterange.DateRange) Verdict {
	occupancy := 0
	for _, b := range ix.bookings {
		if b.Range.Overlaps(stay) {
			occupancy++
		}
	}
	verdict := Verdict{
		Occupancy:     occupancy,
		Capacity:      ix.model.Kind,
		MaxConcurrent: ix.model.MaxConcurrent,
	}
	if ix.model.Exhausted(occupancy) {
		verdict.Reason = ix.model.UnavailableReason()
		return verdict
	}

	var hits []time.Time
	for day := range ix.blocked {
		if stay.ContainsDate(day) {
			hits = append(hits, day)
		}
	}
	if len(hits) > 0 {
		slices.SortFunc(hits, compareDays)
		verdict.Reason = reasonBlocked
		verdict.BlockedDates = hits
		return verdict
	}

	verdict.Available = true
	verdict.SpotsLeft = ix.model.SpotsLeft(occupancy)
	return verdict
}

func (v Verdict) String() string {
	if v.Available {
		return fmt.Sprintf("available (%d spots left)", v.SpotsLeft)
	}
	return "unavailable: " + v.Reason
}

func compareDays(a, b time.Time) int {
	return a.Compare(b)
}
