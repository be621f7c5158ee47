package utils

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

var ErrInvalidDuration = errors.New("duration must look like 24h, 7d, 2w or 1m")

var durationPattern = regexp.MustCompile(`^(\d+)([hdwm])$`)

// ExpiresAt converts an "expires in" string such as "7d" into an absolute time
// relative to now. Units are hours, days, weeks and calendar months.
func ExpiresAt(expiresIn string, now time.Time) (time.Time, error) {
	match := durationPattern.FindStringSubmatch(expiresIn)
	if match == nil {
		return time.Time{}, ErrInvalidDuration
	}

	n, err := strconv.Atoi(match[1])
	if err != nil || n <= 0 {
		return time.Time{}, ErrInvalidDuration
	}

	switch match[2] {
	case "h":
		return now.Add(time.Duration(n) * time.Hour), nil
	case "d":
		return now.AddDate(0, 0, n), nil
	case "w":
		return now.AddDate(0, 0, 7*n), nil
	default:
		return now.AddDate(0, n, 0), nil
	}
}
