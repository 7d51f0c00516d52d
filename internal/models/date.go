package models

import (
	"strings"
	"time"

	appErrors "github.com/noah-isme/matriculacion/pkg/errors"
)

// DateLayout is the day-first layout used for user-entered dates.
const DateLayout = "02/01/2006"

var dateLayouts = []string{DateLayout, "2006-01-02"}

// DateOf drops the time of day, keeping the calendar date as seen in t's
// location. Civil dates are always represented at midnight UTC so that they
// compare correctly regardless of where they came from.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate reads a dd/MM/yyyy or yyyy-MM-dd date.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, appErrors.Clone(appErrors.ErrInvalidDate, "date is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return DateOf(t), nil
		}
	}
	return time.Time{}, appErrors.Clonef(appErrors.ErrInvalidDate, "date %q must use the dd/mm/yyyy format", raw)
}

// FormatDate renders a civil date with DateLayout; zero dates render empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
