package dates

import "time"

const OneMinute = time.Minute
const OneHour = time.Hour
const OneDay = 24 * OneHour
const OneWeek = 7 * OneDay

// Now returns the current instant in UTC. Every timestamp that crosses a
// service boundary is UTC; conversion to a tenant zone happens only at
// render time.
func Now() time.Time {
	return time.Now().UTC()
}

func NowP() *time.Time {
	value := time.Now().UTC()
	return &value
}

// EnsureUTC normalises t to UTC. Values arriving with a local offset are
// converted, not rejected; the instant is preserved.
func EnsureUTC(t time.Time) time.Time {
	return t.UTC()
}

// InZone converts a UTC instant to the named IANA zone for display. An
// empty or unknown zone name falls back to UTC so rendering never fails on
// bad tenant data.
func InZone(t time.Time, zone string) time.Time {
	if zone == "" {
		return t.UTC()
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return t.UTC()
	}
	return t.UTC().In(loc)
}
