package trigger

import (
	"fmt"
	"strings"
	"time"
)

// Validation is the outcome of validating a single trigger. Errors block
// saving; warnings are advisory only. Every message is also keyed by the
// field it concerns so the form can attach it to the right input.
type Validation struct {
	Valid       bool                `json:"isValid"`
	Errors      []string            `json:"errors"`
	Warnings    []string            `json:"warnings"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

type checker struct {
	errors      []string
	warnings    []string
	fieldErrors map[string][]string
}

func (c *checker) fail(field, msg string) {
	if c.fieldErrors == nil {
		c.fieldErrors = make(map[string][]string)
	}
	c.fieldErrors[field] = append(c.fieldErrors[field], msg)
	c.errors = append(c.errors, msg)
}

func (c *checker) warn(msg string) {
	c.warnings = append(c.warnings, msg)
}

func (c *checker) result() Validation {
	return Validation{
		Valid:       len(c.errors) == 0,
		Errors:      c.errors,
		Warnings:    c.warnings,
		FieldErrors: c.fieldErrors,
	}
}

// Validate checks a trigger against the rules for its type. It never
// panics; a missing or mismatched config is reported as a field error.
func Validate(t Trigger) Validation {
	return ValidateAt(t, time.Now())
}

// ValidateAt is Validate with an explicit current instant, used for the
// past-date advisory on one-shot triggers.
func ValidateAt(t Trigger, now time.Time) Validation {
	var c checker

	switch t.Type {
	case TypeManual, TypeFollow:
		// No configuration to check.
	case TypeAtDateTime:
		if cfg, ok := requireConfig[*AtDateTimeConfig](&c, t); ok {
			validateAtDateTime(&c, cfg, now)
		}
	case TypeDailyAt:
		if cfg, ok := requireConfig[*DailyAtConfig](&c, t); ok {
			validateClockAndZone(&c, cfg.Time, cfg.Timezone)
		}
	case TypeWeeklyAt:
		if cfg, ok := requireConfig[*WeeklyAtConfig](&c, t); ok {
			validateWeeklyAt(&c, cfg)
		}
	case TypeMonthlyOn:
		if cfg, ok := requireConfig[*MonthlyOnConfig](&c, t); ok {
			validateMonthlyOn(&c, cfg)
		}
	case TypeEveryNMinutes:
		if cfg, ok := requireConfig[*EveryNMinutesConfig](&c, t); ok {
			validateEveryNMinutes(&c, cfg)
		}
	case TypeMinuteOfHour:
		if cfg, ok := requireConfig[*MinuteOfHourConfig](&c, t); ok {
			validateMinuteOfHour(&c, cfg)
		}
	case TypeCommand:
		if cfg, ok := requireConfig[*CommandConfig](&c, t); ok {
			validateCommand(&c, cfg)
		}
	case TypeChannelPointReward:
		if cfg, ok := requireConfig[*ChannelPointRewardConfig](&c, t); ok {
			validateChannelPointReward(&c, cfg)
		}
	case TypeSubscription:
		if cfg, ok := requireConfig[*SubscriptionConfig](&c, t); ok {
			validateSubscription(&c, cfg)
		}
	case TypeGiftSub:
		if cfg, ok := requireConfig[*GiftSubConfig](&c, t); ok {
			validateGiftSub(&c, cfg)
		}
	case TypeCheer:
		if cfg, ok := requireConfig[*CheerConfig](&c, t); ok {
			validateCheer(&c, cfg)
		}
	default:
		c.fail("type", fmt.Sprintf("unknown trigger type %q", string(t.Type)))
	}

	return c.result()
}

func requireConfig[T Config](c *checker, t Trigger) (T, bool) {
	cfg, ok := t.Config.(T)
	if !ok {
		c.fail("config", "trigger configuration is missing")
		var zero T
		return zero, false
	}
	return cfg, true
}

func validateAtDateTime(c *checker, cfg *AtDateTimeConfig, now time.Time) {
	ts, tsOK := parseInstant(cfg.ISODateTime)
	if !tsOK {
		c.fail("isoDateTime", "date and time must be a valid ISO 8601 timestamp")
	}
	loc, zoneOK := resolveTimezone(cfg.Timezone)
	if !zoneOK {
		c.fail("timezone", fmt.Sprintf("unknown timezone %q", cfg.Timezone))
	}
	if tsOK && zoneOK && !ts.In(loc).After(now.In(loc)) {
		c.warn("the configured date and time is in the past; this trigger will not fire again")
	}
}

func validateClockAndZone(c *checker, clock, zone string) {
	if _, _, ok := parseClock(clock); !ok {
		c.fail("time", "time must be in 24-hour HH:mm format")
	}
	if _, ok := resolveTimezone(zone); !ok {
		c.fail("timezone", fmt.Sprintf("unknown timezone %q", zone))
	}
}

func validateWeeklyAt(c *checker, cfg *WeeklyAtConfig) {
	validateClockAndZone(c, cfg.Time, cfg.Timezone)

	// The three day-set conditions are checked independently so the form
	// can surface all of them at the same time.
	if len(cfg.DaysOfWeek) == 0 {
		c.fail("daysOfWeek", "select at least one day of the week")
	}
	outOfRange := false
	for _, d := range cfg.DaysOfWeek {
		if d < 0 || d > 6 {
			outOfRange = true
			break
		}
	}
	if outOfRange {
		c.fail("daysOfWeek", "days must be between 0 (Sunday) and 6 (Saturday)")
	}
	seen := make(map[int]bool, len(cfg.DaysOfWeek))
	duplicate := false
	for _, d := range cfg.DaysOfWeek {
		if seen[d] {
			duplicate = true
			break
		}
		seen[d] = true
	}
	if duplicate {
		c.fail("daysOfWeek", "duplicate days are not allowed")
	}
}

func validateMonthlyOn(c *checker, cfg *MonthlyOnConfig) {
	validateClockAndZone(c, cfg.Time, cfg.Timezone)
	if cfg.DayOfMonth < 1 || cfg.DayOfMonth > 31 {
		c.fail("dayOfMonth", "day of month must be between 1 and 31")
	} else if cfg.DayOfMonth >= 29 {
		c.warn("months without this day are skipped entirely")
	}
}

func validateEveryNMinutes(c *checker, cfg *EveryNMinutesConfig) {
	if cfg.IntervalMinutes < 1 {
		c.fail("intervalMinutes", "interval must be at least 1 minute")
	} else if cfg.IntervalMinutes > 24*60 {
		c.warn("interval is longer than one day")
	}
	if _, ok := resolveTimezone(cfg.Timezone); !ok {
		c.fail("timezone", fmt.Sprintf("unknown timezone %q", cfg.Timezone))
	}

	// A custom anchor carries its own instant and timezone, validated
	// independently of the trigger's primary timezone.
	if cfg.Anchor != nil && cfg.Anchor.Kind == AnchorCustom {
		if _, ok := parseInstant(cfg.Anchor.ISODateTime); !ok {
			c.fail("anchor.isoDateTime", "anchor date and time must be a valid ISO 8601 timestamp")
		}
		if _, ok := resolveTimezone(cfg.Anchor.Timezone); !ok {
			c.fail("anchor.timezone", fmt.Sprintf("unknown anchor timezone %q", cfg.Anchor.Timezone))
		}
	}
}

func validateMinuteOfHour(c *checker, cfg *MinuteOfHourConfig) {
	if cfg.Minute < 0 || cfg.Minute > 59 {
		c.fail("minute", "minute must be between 0 and 59")
	}
	if _, ok := resolveTimezone(cfg.Timezone); !ok {
		c.fail("timezone", fmt.Sprintf("unknown timezone %q", cfg.Timezone))
	}
}

func validateCommand(c *checker, cfg *CommandConfig) {
	hasAlias := false
	for _, a := range cfg.Aliases {
		if strings.TrimSpace(a) != "" {
			hasAlias = true
			break
		}
	}
	if !hasAlias {
		c.fail("aliases", "add at least one command alias")
	}
}

func validateChannelPointReward(c *checker, cfg *ChannelPointRewardConfig) {
	if strings.TrimSpace(cfg.RewardIdentifier) == "" {
		c.fail("rewardIdentifier", "reward identifier is required")
	}
	if len(cfg.Statuses) == 0 {
		c.fail("statuses", "select at least one redemption status")
	}
	for _, s := range cfg.Statuses {
		if !s.Valid() {
			c.fail("statuses", fmt.Sprintf("unknown redemption status %q", string(s)))
		}
	}
}

func validateSubscription(c *checker, cfg *SubscriptionConfig) {
	if cfg.Tier != nil && !cfg.Tier.Valid() {
		c.fail("tier", "tier must be 1000, 2000, or 3000")
	}
	validateThresholdPair(c, "months", "monthsComparator", cfg.Months, cfg.MonthsComparator)
}

func validateGiftSub(c *checker, cfg *GiftSubConfig) {
	if cfg.MinCount != nil && *cfg.MinCount < 1 {
		c.fail("minCount", "minimum gift count must be a positive whole number")
	}
	if cfg.Tier != nil && !cfg.Tier.Valid() {
		c.fail("tier", "tier must be 1000, 2000, or 3000")
	}
}

func validateCheer(c *checker, cfg *CheerConfig) {
	validateThresholdPair(c, "bits", "bitsComparator", cfg.Bits, cfg.BitsComparator)
}

// validateThresholdPair enforces the all-or-nothing rule shared by cheer
// and subscription thresholds: a value without a comparator, or the
// reverse, marks both fields.
func validateThresholdPair(c *checker, valueField, comparatorField string, value *int, cmp *Comparator) {
	if (value == nil) != (cmp == nil) {
		msg := fmt.Sprintf("provide both a %s value and a comparator", valueField)
		c.fail(valueField, msg)
		c.fail(comparatorField, msg)
		return
	}
	if value == nil {
		return
	}
	if *value < 1 {
		c.fail(valueField, fmt.Sprintf("%s value must be a positive whole number", valueField))
	}
	if !cmp.Valid() {
		c.fail(comparatorField, fmt.Sprintf("unknown comparator %q", string(*cmp)))
	}
}
