package trigger

import (
	"regexp"
	"strings"
	"time"
)

// clockPattern accepts strict 24-hour HH:mm only; "9:00" and "24:00" are
// rejected.
var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

func parseClock(s string) (hour, minute int, ok bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	hour = int(m[1][0]-'0')*10 + int(m[1][1]-'0')
	minute = int(m[2][0]-'0')*10 + int(m[2][1]-'0')
	return hour, minute, true
}

// resolveTimezone maps an IANA identifier to its location. The empty
// string is rejected even though time.LoadLocation would treat it as UTC.
func resolveTimezone(name string) (*time.Location, bool) {
	if strings.TrimSpace(name) == "" {
		return nil, false
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, false
	}
	return loc, true
}

func parseInstant(s string) (time.Time, bool) {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// wallClock builds "today+dayOffset at hour:minute" relative to now in the
// given location. time.Date normalizes day overflow, so offsets past a
// month boundary and across DST transitions land on the correct wall time.
func wallClock(now time.Time, loc *time.Location, dayOffset, hour, minute int) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d+dayOffset, hour, minute, 0, 0, loc)
}

func startOfHour(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d, local.Hour(), 0, 0, 0, loc)
}
