package domain

import (
	"fmt"
	"strings"
	"time"
)

// DayLabelLayout is the sheet's short date: day/month/2-digit-year.
// Parsing accepts components with or without leading zeros.
const DayLabelLayout = "2/1/06"

func ParseDayLabel(label string) (time.Time, error) {
	t, err := time.Parse(DayLabelLayout, strings.TrimSpace(label))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day column %q is not a d/m/yy date", ErrFormatMismatch, label)
	}
	return t, nil
}

func FormatDayLabel(t time.Time) string {
	return t.Format(DayLabelLayout)
}

// DateOnly keeps t's calendar day at midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
