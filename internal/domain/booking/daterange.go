package booking

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

const (
	hoursPerDay   = 24
	secondsPerDay = hoursPerDay * 60 * 60
)

// DateRange is a half-open calendar range [start, end). Both bounds are
// stored as UTC midnights so that day arithmetic never crosses a DST change.
type DateRange struct {
	start time.Time
	end   time.Time
}

func NewDateRange(start, end time.Time) DateRange {
	return DateRange{
		start: DateOf(start),
		end:   DateOf(end),
	}
}

// ParseDateRange parses two YYYY-MM-DD strings.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return NewDateRange(s, e), nil
}

// DateOf returns the calendar date of t (in t's own location) as a UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time   { return r.end }

func (r DateRange) IsValid() bool {
	return r.start.Before(r.end)
}

// Days is the number of whole days in the range; zero or negative for an invalid range.
// Both bounds are UTC midnights, so Unix seconds divide evenly. time.Duration
// would saturate past roughly 292 years.
func (r DateRange) Days() int {
	return int((r.end.Unix() - r.start.Unix()) / secondsPerDay)
}

// Overlaps reports half-open overlap. Touching ranges do not overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.start.Before(other.end) && other.start.Before(r.end)
}

// EachDay calls fn for every calendar day in [start, end).
func (r DateRange) EachDay(fn func(day time.Time)) {
	for d := r.start; d.Before(r.end); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

func (r DateRange) String() string {
	return fmt.Sprintf("[%s,%s)", r.start.Format(dateLayout), r.end.Format(dateLayout))
}
