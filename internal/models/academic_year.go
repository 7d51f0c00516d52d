package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var academicYearPattern = regexp.MustCompile(`^\d\d-\d\d$`)

// AcademicYearOf derives the "YY-YY" school year a date belongs to. The year
// starts in August: August-December of Y is Y/Y+1, January-July is Y-1/Y.
func AcademicYearOf(date time.Time) string {
	start := date.Year()
	if date.Month() < time.August {
		start--
	}
	return fmt.Sprintf("%02d-%02d", mod100(start), mod100(start+1))
}

// ValidateAcademicYear checks the "YY-YY" format and that the second half
// follows the first (mod 100).
func ValidateAcademicYear(year string) error {
	if !academicYearPattern.MatchString(year) {
		return invalid("academic year %q must use the yy-yy format", year)
	}
	first, _ := strconv.Atoi(year[:2])
	second, _ := strconv.Atoi(year[3:])
	if mod100(first+1) != second {
		return invalid("academic year %q must span two consecutive years", year)
	}
	return nil
}

func mod100(n int) int {
	r := n % 100
	if r < 0 {
		r += 100
	}
	return r
}
