package metrics

import (
	"fmt"
	"time"

	"github.com/bookkeep/backend/internal/domain/shared"
)

// Period is a relative reporting period expressed as a day count
type Period string

const (
	Period30d Period = "30d"
	Period60d Period = "60d"
	Period90d Period = "90d"
)

// DefaultPeriod is used when the caller does not specify a period
const DefaultPeriod = Period30d

// Days parses the period into its integer day count.
// An unrecognized period fails fast: day-count parsing has no safe
// fallback, so the error is surfaced to the caller as INVALID_PERIOD.
func (p Period) Days() (int, error) {
	switch p {
	case Period30d:
		return 30, nil
	case Period60d:
		return 60, nil
	case Period90d:
		return 90, nil
	}
	return 0, shared.NewDomainError(shared.ErrInvalidPeriod.Code,
		fmt.Sprintf("unrecognized period %q, expected one of 30d, 60d, 90d", string(p)))
}

// Window is a half-open or closed time interval over transaction dates
type Window struct {
	Start time.Time
	End   time.Time
	// EndExclusive marks the upper bound as exclusive. The current
	// window is closed on both ends; the previous window excludes its
	// upper bound so the two never overlap.
	EndExclusive bool
}

// Contains reports whether the instant falls inside the window
func (w Window) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	if w.EndExclusive {
		return t.Before(w.End)
	}
	return !t.After(w.End)
}

// CurrentWindow returns [now - days, now], both boundaries inclusive
func CurrentWindow(now time.Time, days int) Window {
	return Window{
		Start: now.AddDate(0, 0, -days),
		End:   now,
	}
}

// PreviousWindow returns [now - 2*days, now - days), upper bound
// exclusive, strictly non-overlapping with the current window
func PreviousWindow(now time.Time, days int) Window {
	return Window{
		Start:        now.AddDate(0, 0, -2*days),
		End:          now.AddDate(0, 0, -days),
		EndExclusive: true,
	}
}
