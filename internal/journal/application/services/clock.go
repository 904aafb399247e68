package services

import "time"

// Clock returns the current time. Its location defines calendar days.
type Clock func() time.Time

func orNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}
