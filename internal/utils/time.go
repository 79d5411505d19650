package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/vitalcal/internal/constants"
)

// GetTodayInTimezone returns today's date string (YYYY-MM-DD) in the specified timezone.
// This ensures that "today" is determined by the user's configured timezone, not the system timezone.
// clock defaults to time.Now when nil.
func GetTodayInTimezone(timezone string, clock func() time.Time) (string, error) {
	now, err := NowInTimezone(timezone, clock)
	if err != nil {
		return "", err
	}
	return now.Format(constants.DateFormat), nil
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string, clock func() time.Time) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	if clock == nil {
		clock = time.Now
	}
	return clock().In(loc), nil
}

// ParseDate parses a date string in the standard format (YYYY-MM-DD).
// Only the canonical zero-padded form is accepted.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", dateStr)
	}
	return t, nil
}

// ParseMonth parses a month string (YYYY-MM) into its year and month.
func ParseMonth(monthStr string) (int, time.Month, error) {
	t, err := time.Parse(constants.MonthFormat, monthStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: want YYYY-MM", monthStr)
	}
	return t.Year(), t.Month(), nil
}

// FormatDate formats year, month and day as YYYY-MM-DD.
func FormatDate(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
