package trigger

import "time"

// Activation is the nearest strictly-future instant at which a time-based
// trigger fires. When is nil for disabled triggers, event-based and manual
// triggers, and one-shot triggers whose instant has passed.
type Activation struct {
	When     *time.Time `json:"when"`
	Timezone string     `json:"timezone,omitempty"`
}

// NextActivation computes the next activation of t after now. The caller
// supplies now once; all rollover arithmetic inside a single call is
// relative to that frozen instant. A trigger configured for the exact
// current instant is treated as having just fired.
func NextActivation(t Trigger, now time.Time) Activation {
	zone := configuredTimezone(t)

	if !t.Enabled || !t.Type.IsTimeBased() {
		return Activation{Timezone: zone}
	}

	var when *time.Time
	switch cfg := t.Config.(type) {
	case *AtDateTimeConfig:
		when = nextAtDateTime(cfg, now)
	case *DailyAtConfig:
		when = nextDailyAt(cfg, now)
	case *WeeklyAtConfig:
		when = nextWeeklyAt(cfg, now)
	case *MonthlyOnConfig:
		when = nextMonthlyOn(cfg, now)
	case *EveryNMinutesConfig:
		when = nextEveryNMinutes(cfg, now)
	case *MinuteOfHourConfig:
		when = nextMinuteOfHour(cfg, now)
	}

	return Activation{When: when, Timezone: zone}
}

func configuredTimezone(t Trigger) string {
	switch cfg := t.Config.(type) {
	case *AtDateTimeConfig:
		return cfg.Timezone
	case *DailyAtConfig:
		return cfg.Timezone
	case *WeeklyAtConfig:
		return cfg.Timezone
	case *MonthlyOnConfig:
		return cfg.Timezone
	case *EveryNMinutesConfig:
		return cfg.Timezone
	case *MinuteOfHourConfig:
		return cfg.Timezone
	}
	return ""
}

func nextAtDateTime(cfg *AtDateTimeConfig, now time.Time) *time.Time {
	ts, ok := parseInstant(cfg.ISODateTime)
	if !ok {
		return nil
	}
	loc, ok := resolveTimezone(cfg.Timezone)
	if !ok {
		return nil
	}
	candidate := ts.In(loc)
	if !candidate.After(now) {
		// A past one-shot never fires again.
		return nil
	}
	return &candidate
}

func nextDailyAt(cfg *DailyAtConfig, now time.Time) *time.Time {
	hour, minute, loc, ok := clockInZone(cfg.Time, cfg.Timezone)
	if !ok {
		return nil
	}
	candidate := wallClock(now, loc, 0, hour, minute)
	if !candidate.After(now) {
		candidate = wallClock(now, loc, 1, hour, minute)
	}
	return &candidate
}

func nextWeeklyAt(cfg *WeeklyAtConfig, now time.Time) *time.Time {
	hour, minute, loc, ok := clockInZone(cfg.Time, cfg.Timezone)
	if !ok || len(cfg.DaysOfWeek) == 0 {
		return nil
	}

	days := make(map[int]bool, len(cfg.DaysOfWeek))
	for _, d := range cfg.DaysOfWeek {
		days[d] = true
	}

	// Search the next 7 calendar days starting today; offset 7 covers a
	// single selected day whose time already passed today.
	for offset := 0; offset <= 7; offset++ {
		candidate := wallClock(now, loc, offset, hour, minute)
		if days[int(candidate.Weekday())] && candidate.After(now) {
			return &candidate
		}
	}
	return nil
}

func nextMonthlyOn(cfg *MonthlyOnConfig, now time.Time) *time.Time {
	hour, minute, loc, ok := clockInZone(cfg.Time, cfg.Timezone)
	if !ok || cfg.DayOfMonth < 1 || cfg.DayOfMonth > 31 {
		return nil
	}

	year, month, _ := now.In(loc).Date()
	// Day 31 recurs at most every other month, so a few months of
	// lookahead always suffices.
	for i := 0; i < 24; i++ {
		candidate := time.Date(year, month+time.Month(i), cfg.DayOfMonth, hour, minute, 0, 0, loc)
		if candidate.Day() != cfg.DayOfMonth {
			// The target day does not exist in this month; skip the
			// month entirely rather than clamping to its last day.
			continue
		}
		if candidate.After(now) {
			return &candidate
		}
	}
	return nil
}

func nextEveryNMinutes(cfg *EveryNMinutesConfig, now time.Time) *time.Time {
	if cfg.IntervalMinutes < 1 {
		return nil
	}
	loc, ok := resolveTimezone(cfg.Timezone)
	if !ok {
		return nil
	}

	anchor := startOfHour(now, loc)
	if cfg.Anchor != nil && cfg.Anchor.Kind == AnchorCustom {
		ts, tsOK := parseInstant(cfg.Anchor.ISODateTime)
		anchorLoc, locOK := resolveTimezone(cfg.Anchor.Timezone)
		if !tsOK || !locOK {
			return nil
		}
		anchor = ts.In(anchorLoc)
	}

	if now.Before(anchor) {
		candidate := anchor.In(loc)
		return &candidate
	}

	elapsed := int(now.Sub(anchor) / time.Minute)
	multiple := (elapsed/cfg.IntervalMinutes + 1) * cfg.IntervalMinutes
	candidate := anchor.Add(time.Duration(multiple) * time.Minute).In(loc)
	return &candidate
}

func nextMinuteOfHour(cfg *MinuteOfHourConfig, now time.Time) *time.Time {
	if cfg.Minute < 0 || cfg.Minute > 59 {
		return nil
	}
	loc, ok := resolveTimezone(cfg.Timezone)
	if !ok {
		return nil
	}

	local := now.In(loc)
	year, month, day := local.Date()
	candidate := time.Date(year, month, day, local.Hour(), cfg.Minute, 0, 0, loc)
	if !candidate.After(now) {
		candidate = time.Date(year, month, day, local.Hour()+1, cfg.Minute, 0, 0, loc)
	}
	return &candidate
}

func clockInZone(clock, zone string) (hour, minute int, loc *time.Location, ok bool) {
	hour, minute, ok = parseClock(clock)
	if !ok {
		return 0, 0, nil, false
	}
	loc, ok = resolveTimezone(zone)
	if !ok {
		return 0, 0, nil, false
	}
	return hour, minute, loc, true
}
