// Package schedule expands a medication regimen into its sequence of
// scheduled intake timestamps.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSchedule is returned for a non-positive interval, an end
// date before the start date, or an unparseable date.
var ErrInvalidSchedule = errors.New("invalid schedule")

const (
	dateLayout = "2006-01-02"

	// DefaultAnchorHour is the time-of-day of the first dose on the
	// start date. Policy constant, overridable via config.
	DefaultAnchorHour = 8
)

// Generator produces dose schedules. Dates are interpreted in UTC to
// match the calendar-date policy used elsewhere in the service.
type Generator struct {
	anchorHour int
}

func NewGenerator(anchorHour int) *Generator {
	if anchorHour < 0 || anchorHour > 23 {
		anchorHour = DefaultAnchorHour
	}
	return &Generator{anchorHour: anchorHour}
}

// Expand returns the ordered sequence of intake timestamps for the
// given regimen. The first dose is anchored at the anchor hour of the
// start date; each following dose is the previous plus the interval.
// Generation runs through the end of the end date's calendar day, so an
// interval that does not evenly divide 24 hours drifts in time-of-day
// across days. That drift is intentional and must not be corrected.
func (g *Generator) Expand(startDate, endDate string, intervalHours int) ([]time.Time, error) {
	if intervalHours <= 0 {
		return nil, fmt.Errorf("%w: interval must be a positive number of hours", ErrInvalidSchedule)
	}

	start, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %q", ErrInvalidSchedule, startDate)
	}
	end, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date %q", ErrInvalidSchedule, endDate)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidSchedule)
	}

	interval := time.Duration(intervalHours) * time.Hour
	cutoff := end.Add(24*time.Hour - time.Second)

	var doses []time.Time
	for t := start.Add(time.Duration(g.anchorHour) * time.Hour); !t.After(cutoff); t = t.Add(interval) {
		doses = append(doses, t)
	}
	return doses, nil
}
