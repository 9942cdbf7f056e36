package daterange

import (
	"errors"
	"iter"
	"time"
)

var (
	ErrInvalidRange  = errors.New("daterange: checkout must be after checkin")
	ErrInvalidWindow = errors.New("daterange: window end must not be before start")
)

// DateLayout is the calendar-day wire format used across the service.
const DateLayout = "2006-01-02"

// DateRange represents a half-open interval [checkIn, checkOut) of calendar days.
// Both bounds are kept at UTC midnight so that day arithmetic is never DST-sensitive.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// New builds a stay range and rejects empty or inverted ranges.
func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Window builds a query window. Unlike New, start == end is accepted and yields no days.
func Window(start, end time.Time) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, ErrInvalidWindow
	}
	dr := DateRange{CheckIn: Day(start), CheckOut: Day(end)}
	if dr.CheckOut.Before(dr.CheckIn) {
		return DateRange{}, ErrInvalidWindow
	}
	return dr, nil
}

// Parse reads two YYYY-MM-DD strings into a stay range.
func Parse(checkIn, checkOut string) (DateRange, error) {
	in, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		return DateRange{}, errors.Join(ErrInvalidRange, err)
	}
	out, err := time.Parse(DateLayout, checkOut)
	if err != nil {
		return DateRange{}, errors.Join(ErrInvalidRange, err)
	}
	return New(in, out)
}

// Day truncates t to its calendar day at UTC midnight. The wall-clock date of t is kept,
// so a local 2024-06-01T23:30+07:00 stays on June 1st.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (dr DateRange) Validate() error {
	if dr.CheckOut.IsZero() || dr.CheckIn.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights counts calendar-day boundaries between check-in and check-out.
func (dr DateRange) Nights() int {
	return DaysBetween(dr.CheckIn, dr.CheckOut)
}

// DaysBetween returns the signed number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	a, b = Day(a), Day(b)
	return int(b.Unix()-a.Unix()) / secondsPerDay
}

const secondsPerDay = 24 * 60 * 60

// Overlaps reports half-open overlap: a checkout on day X does not collide with a check-in on day X.
func (dr DateRange) Overlaps(other DateRange) bool {
	return Overlaps(dr.CheckIn, dr.CheckOut, other.CheckIn, other.CheckOut)
}

// Overlaps is the free-function form used when callers hold raw bounds.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}

func (dr DateRange) Contains(other DateRange) bool {
	return !other.CheckIn.Before(dr.CheckIn) && !other.CheckOut.After(dr.CheckOut)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = Day(t)
	return !t.Before(dr.CheckIn) && t.Before(dr.CheckOut)
}

// Intersect clips dr to other. ok is false when they share no day.
func (dr DateRange) Intersect(other DateRange) (DateRange, bool) {
	if !dr.Overlaps(other) {
		return DateRange{}, false
	}
	start := dr.CheckIn
	if other.CheckIn.After(start) {
		start = other.CheckIn
	}
	end := dr.CheckOut
	if other.CheckOut.Before(end) {
		end = other.CheckOut
	}
	return DateRange{CheckIn: start, CheckOut: end}, true
}

// Days yields every calendar day in [CheckIn, CheckOut). The sequence can be ranged over repeatedly.
func (dr DateRange) Days() iter.Seq[time.Time] {
	return EachDay(dr.CheckIn, dr.CheckOut)
}

// EachDay yields every calendar day in [in, out).
func EachDay(in, out time.Time) iter.Seq[time.Time] {
	start, end := Day(in), Day(out)
	return func(yield func(time.Time) bool) {
		for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}
}

func (dr DateRange) String() string {
	return dr.CheckIn.Format(DateLayout) + ".." + dr.CheckOut.Format(DateLayout)
}
