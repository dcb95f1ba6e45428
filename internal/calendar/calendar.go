// Package calendar holds the Gregorian date arithmetic behind the booking
// calendar. Dates are civil dates represented as UTC midnight.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"studiobook/internal/models"
)

// DateLayout is the persisted and wire form of a calendar date.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
)

// DaysInMonth returns the number of days in the month and the weekday of its
// first day, Sunday = 0.
func DaysInMonth(year int, month time.Month) (days, firstWeekday int) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// day 0 of the next month is the last day of this one
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return last.Day(), int(first.Weekday())
}

func ValidMonth(month time.Month) error {
	if month < time.January || month > time.December {
		return ErrInvalidMonth
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date. Out-of-range days like 2023-02-29 are
// rejected.
func ParseDate(s string) (time.Time, error) {
	if len(s) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the civil date of now, taken in now's location.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsPast reports whether date falls strictly before today.
func IsPast(date, today time.Time) bool {
	return Today(date).Before(Today(today))
}

func FindOverride(overrides []models.AvailabilityOverride, date string) (models.AvailabilityOverride, bool) {
	for _, o := range overrides {
		if o.Date == date {
			return o, true
		}
	}
	return models.AvailabilityOverride{}, false
}

// IsAvailable applies the default-open policy: a date is bookable when it is
// not in the past and no override marks it unavailable.
func IsAvailable(date, today time.Time, overrides []models.AvailabilityOverride) bool {
	if IsPast(date, today) {
		return false
	}
	o, ok := FindOverride(overrides, FormatDate(date))
	return !ok || o.Available
}

// IsBlocked reports whether an override marks the date unavailable.
func IsBlocked(date string, overrides []models.AvailabilityOverride) bool {
	o, ok := FindOverride(overrides, date)
	return ok && !o.Available
}
