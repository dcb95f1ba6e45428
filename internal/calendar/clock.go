package calendar

import (
	"time"

	"github.com/rs/zerolog"
)

// SystemClock reports the wall clock in the studio's time zone, so that
// Today(clock.Now()) is the local calendar day.
type SystemClock struct {
	loc *time.Location
}

func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return SystemClock{loc: loc}
}

func (c SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c SystemClock) Location() *time.Location {
	return c.loc
}

// FixedClock always returns T. Used in tests.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}

// LoadLocation resolves an IANA zone name, falling back to UTC.
func LoadLocation(name string, logger *zerolog.Logger) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		if logger != nil {
			logger.Warn().Err(err).Str("timezone", name).Msg("Unknown timezone, using UTC")
		}
		return time.UTC
	}
	return loc
}
