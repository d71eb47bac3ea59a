package domain

import (
	"fmt"
	"time"
)

const yearMonthLayout = "2006-01"

// YearMonth is the cache bucket for monthly rates, formatted "YYYY-MM".
type YearMonth string

// YearMonthOf truncates a date to its year-month bucket. The date is read in UTC.
func YearMonthOf(date time.Time) YearMonth {
	return YearMonth(date.UTC().Format(yearMonthLayout))
}

// ParseYearMonth validates a "YYYY-MM" string.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(yearMonthLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid year-month %q: %w", s, err)
	}
	return YearMonth(t.Format(yearMonthLayout)), nil
}

func (ym YearMonth) String() string {
	return string(ym)
}
