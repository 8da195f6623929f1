package report

import (
	"fmt"
	"time"
)

// Quarter is a three-month calendar bucket for scoping attendance reports.
type Quarter string

const (
	QuarterFirst  Quarter = "First"
	QuarterSecond Quarter = "Second"
	QuarterThird  Quarter = "Third"
	QuarterFourth Quarter = "Fourth"
)

// ParseQuarter validates a quarter name.
func ParseQuarter(s string) (Quarter, error) {
	switch Quarter(s) {
	case QuarterFirst, QuarterSecond, QuarterThird, QuarterFourth:
		return Quarter(s), nil
	}
	return "", fmt.Errorf("%w: unknown quarter %q", ErrInvalidPeriod, s)
}

// startMonth returns the first month of the quarter.
func (q Quarter) startMonth() time.Month {
	switch q {
	case QuarterSecond:
		return time.April
	case QuarterThird:
		return time.July
	case QuarterFourth:
		return time.October
	default:
		return time.January
	}
}

// DateRange returns the inclusive first and last calendar day of the
// quarter in the given year.
func (q Quarter) DateRange(year int) (time.Time, time.Time) {
	start := time.Date(year, q.startMonth(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, -1)
	return start, end
}
