package period

import (
	"errors"
	"strings"
	"time"
)

// Period is the coarse time-window tag used for story generation and
// cache staleness. It is a closed set; anything else is rejected.
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
	All     Period = "all"
)

var ErrInvalidPeriod = errors.New("invalid period")

// windowDays holds the fixed-duration window length per period.
// Windows are "now minus N days", not calendar-aligned. "all" has no
// window and is keyed off the account creation time instead.
var windowDays = map[Period]int{
	Daily:   1,
	Weekly:  7,
	Monthly: 30,
	Yearly:  365,
}

// Parse validates a raw period tag. Matching is case-insensitive and
// ignores surrounding whitespace; unknown values return ErrInvalidPeriod.
func Parse(raw string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case Daily, Weekly, Monthly, Yearly, All:
		return p, nil
	}
	return "", ErrInvalidPeriod
}

// WindowStart returns the inclusive lower bound for posts included in a
// story for this period. For "all" it is the account creation time.
func (p Period) WindowStart(now, accountCreated time.Time) time.Time {
	if p == All {
		return accountCreated
	}
	return now.AddDate(0, 0, -windowDays[p])
}

// StaleAfter returns how old a cached story may get before it is
// considered stale. Zero means never stale ("all" period).
func (p Period) StaleAfter() time.Duration {
	days, ok := windowDays[p]
	if !ok {
		return 0
	}
	return time.Duration(days) * 24 * time.Hour
}

// Stale reports whether a story last updated at updatedAt is stale as of
// now. Staleness is advisory; it never triggers regeneration by itself.
func (p Period) Stale(updatedAt, now time.Time) bool {
	maxAge := p.StaleAfter()
	if maxAge == 0 {
		return false
	}
	return now.Sub(updatedAt) > maxAge
}

// Label returns a human-readable label for post titles and UI copy.
func (p Period) Label() string {
	switch p {
	case Daily:
		return "Daily"
	case Weekly:
		return "Weekly"
	case Monthly:
		return "Monthly"
	case Yearly:
		return "Yearly"
	case All:
		return "Career"
	}
	return string(p)
}
