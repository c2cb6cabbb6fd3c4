package service

import "time"

// Clock supplies the current time. Services compute "today", expiry and
// overdue checks from it so tests can pin the date.
type Clock func() time.Time

// SystemClock reads the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

func (c Clock) now() time.Time {
	if c == nil {
		return SystemClock()
	}
	return c().UTC()
}

func (c Clock) today() string {
	return c.now().Format(time.DateOnly)
}

func parseDay(value string, c Clock) (string, bool) {
	if value == "" {
		return c.today(), true
	}
	if _, err := time.Parse(time.DateOnly, value); err != nil {
		return "", false
	}
	return value, true
}
