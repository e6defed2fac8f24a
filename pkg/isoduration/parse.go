// Package isoduration parses the compact ISO-8601 durations returned by the
// YouTube Data API (contentDetails.duration), e.g. "PT1H2M3.5S".
package isoduration

import (
	"errors"
	"regexp"
	"strconv"
)

// ErrInvalid is returned for empty or unrecognised encodings.
var ErrInvalid = errors.New("invalid ISO-8601 duration")

var durationRegex = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?$`)

// Parse converts an encoding such as "PT4M13S" into total seconds.
// Any subset of the hour, minute and second components may be present and
// seconds may be fractional. Callers treat a result <= 0 as unknown.
func Parse(duration string) (float64, error) {
	if duration == "" {
		return 0, ErrInvalid
	}

	matches := durationRegex.FindStringSubmatch(duration)
	if matches == nil {
		return 0, ErrInvalid
	}

	var total float64
	if matches[1] != "" {
		hours, err := strconv.Atoi(matches[1])
		if err != nil {
			return 0, ErrInvalid
		}
		total += float64(hours) * 3600
	}
	if matches[2] != "" {
		minutes, err := strconv.Atoi(matches[2])
		if err != nil {
			return 0, ErrInvalid
		}
		total += float64(minutes) * 60
	}
	if matches[3] != "" {
		seconds, err := strconv.ParseFloat(matches[3], 64)
		if err != nil {
			return 0, ErrInvalid
		}
		total += seconds
	}

	return total, nil
}

// Seconds is Parse for callers that only care about a usable value: it
// returns ok=false when the encoding is invalid or the total is not positive.
func Seconds(duration string) (float64, bool) {
	total, err := Parse(duration)
	if err != nil || total <= 0 {
		return 0, false
	}
	return total, true
}
