package form

import (
	"math"
	"strconv"
	"strings"
)

const (
	// maxHours leaves room for 59 minutes without overflowing int64.
	maxHours = (math.MaxInt64 - 59*60) / 3600
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	maxSeconds = float64(math.MaxInt64)
)

// Time parses a duration typed by a user into whole seconds. Accepted forms
// are "H:MM" and decimal hours written with the locale decimal point
// ("1,5" or "1.5" meaning ninety minutes). Negative durations and values
// that do not fit in int64 seconds are rejected.
func Time(locale Locale) Filter {
	hours := Float(locale, false)
	return FilterFunc(func(raw string) (any, bool) {
		s := strings.TrimSpace(raw)
		if s == "" {
			return nil, false
		}

		if h, m, found := strings.Cut(s, ":"); found {
			if !isDigits(h) || !isDigits(m) {
				return nil, false
			}
			hh, err := strconv.ParseInt(h, 10, 64)
			if err != nil || hh > maxHours {
				return nil, false
			}
			mm, err := strconv.ParseInt(m, 10, 64)
			if err != nil || mm > 59 {
				return nil, false
			}
			return hh*3600 + mm*60, true
		}

		v, ok := hours.Apply(s)
		if !ok {
			return nil, false
		}
		f := v.(float64)
		secs := math.Round(f * 3600)
		if secs < 0 || secs >= maxSeconds {
			return nil, false
		}
		return int64(secs), true
	})
}
