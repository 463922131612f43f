package applicant

import (
	"errors"
	"fmt"
	"time"
)

// Date-range validation failures. Each clause of the rule yields its own
// sentinel so callers can surface the specific reason.
var (
	ErrStartOutsideWindow = errors.New("start date outside admissible window")
	ErrEndOutsideWindow   = errors.New("end date outside admissible window")
	ErrStartNotBeforeEnd  = errors.New("start date must be strictly before the end date")
	ErrDurationTooShort   = errors.New("internship duration below minimum")
)

// DateRule is the registration date-range gate: both dates inside a fixed
// admissible calendar window, start strictly before end, and a minimum
// duration between them.
type DateRule struct {
	// WindowMin and WindowMax bound the admissible calendar window,
	// inclusive on both ends.
	WindowMin time.Time
	WindowMax time.Time

	// MinDays is the minimum day-count between start and end.
	MinDays int
}

// DefaultDateRule returns the default intake window: December 1, 2025
// through February 28, 2026, with a two-week minimum.
func DefaultDateRule() DateRule {
	return DateRule{
		WindowMin: time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
		WindowMax: time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC),
		MinDays:   14,
	}
}

// Validate applies the three clauses in order and returns the first
// failure. Dates are normalized to midnight UTC before comparison so
// time-of-day noise cannot shift the day count.
func (r DateRule) Validate(start, end time.Time) error {
	start = truncateToDay(start)
	end = truncateToDay(end)
	winMin := truncateToDay(r.WindowMin)
	winMax := truncateToDay(r.WindowMax)

	if start.Before(winMin) || start.After(winMax) {
		return fmt.Errorf("%w: start date must be between %s and %s",
			ErrStartOutsideWindow, winMin.Format("Jan 2, 2006"), winMax.Format("Jan 2, 2006"))
	}
	if end.Before(winMin) || end.After(winMax) {
		return fmt.Errorf("%w: end date must be between %s and %s",
			ErrEndOutsideWindow, winMin.Format("Jan 2, 2006"), winMax.Format("Jan 2, 2006"))
	}
	if !start.Before(end) {
		return ErrStartNotBeforeEnd
	}
	if days := daysBetween(start, end); days < r.MinDays {
		return fmt.Errorf("%w: selected duration is %d days, must be at least %d days",
			ErrDurationTooShort, days, r.MinDays)
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start) / (24 * time.Hour))
}
