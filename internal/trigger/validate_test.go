package trigger

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func intPtr(v int) *int               { return &v }
func tierPtr(v Tier) *Tier            { return &v }
func cmpPtr(v Comparator) *Comparator { return &v }

func validateNow(tr Trigger) Validation {
	return ValidateAt(tr, time.Date(2025, time.January, 6, 10, 0, 0, 0, time.UTC))
}

func TestValidateAlwaysValidKinds(t *testing.T) {
	t.Parallel()
	for _, typ := range []Type{TypeManual, TypeFollow} {
		v := validateNow(Trigger{Type: typ, Enabled: true})
		if !v.Valid || len(v.Errors) != 0 || len(v.Warnings) != 0 {
			t.Errorf("%s: Valid=%v errors=%v warnings=%v", typ, v.Valid, v.Errors, v.Warnings)
		}
	}
}

func TestValidateMissingConfig(t *testing.T) {
	t.Parallel()
	types := []Type{
		TypeAtDateTime, TypeDailyAt, TypeWeeklyAt, TypeMonthlyOn,
		TypeEveryNMinutes, TypeMinuteOfHour, TypeCommand,
		TypeChannelPointReward, TypeSubscription, TypeGiftSub, TypeCheer,
	}
	for _, typ := range types {
		v := validateNow(Trigger{Type: typ, Enabled: true})
		if v.Valid {
			t.Errorf("%s with nil config should be invalid", typ)
		}
		if len(v.FieldErrors["config"]) == 0 {
			t.Errorf("%s with nil config: no error under config field", typ)
		}
	}
}

func TestValidateAtDateTime(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		cfg        AtDateTimeConfig
		wantValid  bool
		wantFields []string
		wantWarns  int
	}{
		{
			name:      "valid future",
			cfg:       AtDateTimeConfig{ISODateTime: "2025-06-01T12:00:00Z", Timezone: "UTC"},
			wantValid: true,
		},
		{
			name:      "past instant warns but stays valid",
			cfg:       AtDateTimeConfig{ISODateTime: "2024-01-01T12:00:00Z", Timezone: "UTC"},
			wantValid: true,
			wantWarns: 1,
		},
		{
			name:       "bad timestamp",
			cfg:        AtDateTimeConfig{ISODateTime: "tomorrow", Timezone: "UTC"},
			wantFields: []string{"isoDateTime"},
		},
		{
			name:       "bad timezone",
			cfg:        AtDateTimeConfig{ISODateTime: "2025-06-01T12:00:00Z", Timezone: "Narnia/Lantern"},
			wantFields: []string{"timezone"},
		},
		{
			name:       "both invalid",
			cfg:        AtDateTimeConfig{},
			wantFields: []string{"isoDateTime", "timezone"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			v := validateNow(enabled(TypeAtDateTime, &cfg))
			if v.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (errors %v)", v.Valid, tt.wantValid, v.Errors)
			}
			for _, f := range tt.wantFields {
				if len(v.FieldErrors[f]) == 0 {
					t.Errorf("missing error under field %q: %v", f, v.FieldErrors)
				}
			}
			if len(v.Warnings) != tt.wantWarns {
				t.Errorf("warnings = %v, want %d", v.Warnings, tt.wantWarns)
			}
		})
	}
}

func TestValidateWeeklyAtIndependentChecks(t *testing.T) {
	t.Parallel()

	// Out-of-range and duplicate entries must both surface at once.
	v := validateNow(enabled(TypeWeeklyAt, &WeeklyAtConfig{
		DaysOfWeek: []int{-1, 1, 1},
		Time:       "12:00",
		Timezone:   "UTC",
	}))
	if v.Valid {
		t.Fatal("expected invalid")
	}
	msgs := v.FieldErrors["daysOfWeek"]
	if len(msgs) != 2 {
		t.Fatalf("daysOfWeek errors = %v, want out-of-range and duplicate", msgs)
	}
	joined := strings.Join(msgs, "; ")
	if !strings.Contains(joined, "between 0") || !strings.Contains(joined, "duplicate") {
		t.Fatalf("daysOfWeek errors = %v", msgs)
	}

	empty := validateNow(enabled(TypeWeeklyAt, &WeeklyAtConfig{Time: "12:00", Timezone: "UTC"}))
	if empty.Valid || len(empty.FieldErrors["daysOfWeek"]) == 0 {
		t.Fatalf("empty day set should be invalid: %v", empty.FieldErrors)
	}
}

func TestValidateMonthlyOn(t *testing.T) {
	t.Parallel()

	high := validateNow(enabled(TypeMonthlyOn, &MonthlyOnConfig{DayOfMonth: 31, Time: "09:00", Timezone: "UTC"}))
	if !high.Valid {
		t.Fatalf("day 31 should be valid: %v", high.Errors)
	}
	if len(high.Warnings) != 1 {
		t.Fatalf("day 31 warnings = %v, want 1", high.Warnings)
	}

	low := validateNow(enabled(TypeMonthlyOn, &MonthlyOnConfig{DayOfMonth: 0, Time: "09:00", Timezone: "UTC"}))
	if low.Valid || len(low.FieldErrors["dayOfMonth"]) == 0 {
		t.Fatalf("day 0 should fail under dayOfMonth: %v", low.FieldErrors)
	}

	mid := validateNow(enabled(TypeMonthlyOn, &MonthlyOnConfig{DayOfMonth: 15, Time: "09:00", Timezone: "UTC"}))
	if !mid.Valid || len(mid.Warnings) != 0 {
		t.Fatalf("day 15: valid=%v warnings=%v", mid.Valid, mid.Warnings)
	}
}

func TestValidateEveryNMinutes(t *testing.T) {
	t.Parallel()

	zero := validateNow(enabled(TypeEveryNMinutes, &EveryNMinutesConfig{IntervalMinutes: 0, Timezone: "UTC"}))
	if zero.Valid || len(zero.FieldErrors["intervalMinutes"]) == 0 {
		t.Fatalf("interval 0 should fail: %v", zero.FieldErrors)
	}

	long := validateNow(enabled(TypeEveryNMinutes, &EveryNMinutesConfig{IntervalMinutes: 2000, Timezone: "UTC"}))
	if !long.Valid || len(long.Warnings) != 1 {
		t.Fatalf("interval 2000: valid=%v warnings=%v", long.Valid, long.Warnings)
	}

	anchor := validateNow(enabled(TypeEveryNMinutes, &EveryNMinutesConfig{
		IntervalMinutes: 5,
		Timezone:        "UTC",
		Anchor:          &Anchor{Kind: AnchorCustom, ISODateTime: "never", Timezone: "Nowhere/Here"},
	}))
	if anchor.Valid {
		t.Fatal("bad anchor should be invalid")
	}
	if len(anchor.FieldErrors["anchor.isoDateTime"]) == 0 || len(anchor.FieldErrors["anchor.timezone"]) == 0 {
		t.Fatalf("anchor errors not field-scoped: %v", anchor.FieldErrors)
	}
	if len(anchor.FieldErrors["timezone"]) != 0 {
		t.Fatalf("anchor failure leaked into the trigger timezone field: %v", anchor.FieldErrors)
	}

	topOfHour := validateNow(enabled(TypeEveryNMinutes, &EveryNMinutesConfig{
		IntervalMinutes: 5,
		Timezone:        "UTC",
		Anchor:          &Anchor{Kind: AnchorTopOfHour},
	}))
	if !topOfHour.Valid {
		t.Fatalf("top-of-hour anchor should not require an instant: %v", topOfHour.Errors)
	}
}

func TestValidateMinuteOfHour(t *testing.T) {
	t.Parallel()
	ok := validateNow(enabled(TypeMinuteOfHour, &MinuteOfHourConfig{Minute: 59, Timezone: "UTC"}))
	if !ok.Valid {
		t.Fatalf("minute 59 should be valid: %v", ok.Errors)
	}
	bad := validateNow(enabled(TypeMinuteOfHour, &MinuteOfHourConfig{Minute: 60, Timezone: "UTC"}))
	if bad.Valid || len(bad.FieldErrors["minute"]) == 0 {
		t.Fatalf("minute 60 should fail under minute: %v", bad.FieldErrors)
	}
}

func TestValidateCommand(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		aliases []string
		valid   bool
	}{
		{name: "one alias", aliases: []string{"!spawn"}, valid: true},
		{name: "empty set", aliases: nil, valid: false},
		{name: "whitespace only", aliases: []string{"  ", "\t"}, valid: false},
		{name: "one real among blanks", aliases: []string{"", "!go"}, valid: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			v := validateNow(enabled(TypeCommand, &CommandConfig{Aliases: tt.aliases}))
			if v.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v (%v)", v.Valid, tt.valid, v.Errors)
			}
			if !tt.valid && len(v.FieldErrors["aliases"]) == 0 {
				t.Fatalf("missing aliases field error: %v", v.FieldErrors)
			}
		})
	}
}

func TestValidateChannelPointRewardBothFields(t *testing.T) {
	t.Parallel()
	v := validateNow(enabled(TypeChannelPointReward, &ChannelPointRewardConfig{RewardIdentifier: "  "}))
	if v.Valid {
		t.Fatal("expected invalid")
	}
	if len(v.FieldErrors["rewardIdentifier"]) == 0 || len(v.FieldErrors["statuses"]) == 0 {
		t.Fatalf("want errors under rewardIdentifier and statuses, got %v", v.FieldErrors)
	}

	ok := validateNow(enabled(TypeChannelPointReward, &ChannelPointRewardConfig{
		RewardIdentifier: "Play a sound",
		Statuses:         []RedemptionStatus{RedemptionFulfilled},
	}))
	if !ok.Valid {
		t.Fatalf("expected valid: %v", ok.Errors)
	}
}

func TestValidateCheerThresholdPair(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		cfg   CheerConfig
		valid bool
	}{
		{name: "no threshold at all", cfg: CheerConfig{}, valid: true},
		{name: "complete pair", cfg: CheerConfig{Bits: intPtr(100), BitsComparator: cmpPtr(ComparatorAtLeast)}, valid: true},
		{name: "bits without comparator", cfg: CheerConfig{Bits: intPtr(100)}, valid: false},
		{name: "comparator without bits", cfg: CheerConfig{BitsComparator: cmpPtr(ComparatorExactly)}, valid: false},
		{name: "non-positive bits", cfg: CheerConfig{Bits: intPtr(0), BitsComparator: cmpPtr(ComparatorAtLeast)}, valid: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			v := validateNow(enabled(TypeCheer, &cfg))
			if v.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v (%v)", v.Valid, tt.valid, v.Errors)
			}
		})
	}

	// Both halves of a dangling pair report the same message under both
	// fields.
	half := validateNow(enabled(TypeCheer, &CheerConfig{Bits: intPtr(100)}))
	if len(half.FieldErrors["bits"]) == 0 || len(half.FieldErrors["bitsComparator"]) == 0 {
		t.Fatalf("want errors under bits and bitsComparator, got %v", half.FieldErrors)
	}
	if half.FieldErrors["bits"][0] != half.FieldErrors["bitsComparator"][0] {
		t.Fatalf("pair messages differ: %v", half.FieldErrors)
	}
}

func TestValidateSubscription(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		cfg   SubscriptionConfig
		valid bool
	}{
		{name: "empty is valid", cfg: SubscriptionConfig{}, valid: true},
		{name: "known tier", cfg: SubscriptionConfig{Tier: tierPtr(Tier2)}, valid: true},
		{name: "unknown tier", cfg: SubscriptionConfig{Tier: tierPtr(Tier("4000"))}, valid: false},
		{name: "complete months pair", cfg: SubscriptionConfig{Months: intPtr(3), MonthsComparator: cmpPtr(ComparatorAtLeast)}, valid: true},
		{name: "months without comparator", cfg: SubscriptionConfig{Months: intPtr(3)}, valid: false},
		{name: "comparator without months", cfg: SubscriptionConfig{MonthsComparator: cmpPtr(ComparatorAtMost)}, valid: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			v := validateNow(enabled(TypeSubscription, &cfg))
			if v.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v (%v)", v.Valid, tt.valid, v.Errors)
			}
		})
	}
}

func TestValidateGiftSub(t *testing.T) {
	t.Parallel()
	ok := validateNow(enabled(TypeGiftSub, &GiftSubConfig{MinCount: intPtr(5), Tier: tierPtr(Tier1)}))
	if !ok.Valid {
		t.Fatalf("expected valid: %v", ok.Errors)
	}
	bad := validateNow(enabled(TypeGiftSub, &GiftSubConfig{MinCount: intPtr(0)}))
	if bad.Valid || len(bad.FieldErrors["minCount"]) == 0 {
		t.Fatalf("minCount 0 should fail: %v", bad.FieldErrors)
	}
}

func TestValidateIdempotent(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, time.January, 6, 10, 0, 0, 0, time.UTC)
	tr := enabled(TypeWeeklyAt, &WeeklyAtConfig{DaysOfWeek: []int{-1, 1, 1}, Time: "25:00", Timezone: ""})

	first := ValidateAt(tr, now)
	second := ValidateAt(tr, now)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("validation is not idempotent:\nfirst  %#v\nsecond %#v", first, second)
	}
}
