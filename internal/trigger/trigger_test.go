package trigger

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestTriggerJSONRoundTrip(t *testing.T) {
	t.Parallel()
	triggers := []Trigger{
		{Type: TypeManual, Enabled: true},
		enabled(TypeDailyAt, &DailyAtConfig{Time: "12:00", Timezone: "Europe/Berlin"}),
		enabled(TypeEveryNMinutes, &EveryNMinutesConfig{
			IntervalMinutes: 15,
			Timezone:        "UTC",
			Anchor:          &Anchor{Kind: AnchorCustom, ISODateTime: "2025-01-01T00:00:00Z", Timezone: "UTC"},
		}),
		enabled(TypeCheer, &CheerConfig{Bits: intPtr(500), BitsComparator: cmpPtr(ComparatorAtLeast)}),
		enabled(TypeChannelPointReward, &ChannelPointRewardConfig{
			RewardIdentifier: "Play a sound",
			Statuses:         []RedemptionStatus{RedemptionPending, RedemptionFulfilled},
		}),
	}

	for _, tr := range triggers {
		data, err := json.Marshal(tr)
		if err != nil {
			t.Fatalf("marshal %s: %v", tr.Type, err)
		}
		var back Trigger
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", tr.Type, err)
		}
		if !reflect.DeepEqual(tr, back) {
			t.Errorf("%s round trip mismatch:\nin  %#v\nout %#v", tr.Type, tr, back)
		}
	}
}

func TestTriggerDecodeLegacyWeekly(t *testing.T) {
	t.Parallel()
	var tr Trigger
	if err := json.Unmarshal([]byte(`{"type":"weeklyAt","enabled":true,"config":{"dayOfWeek":3,"time":"08:30","timezone":"UTC"}}`), &tr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	cfg, ok := tr.Config.(*WeeklyAtConfig)
	if !ok {
		t.Fatalf("config = %T, want *WeeklyAtConfig", tr.Config)
	}
	if !reflect.DeepEqual(cfg.DaysOfWeek, []int{3}) {
		t.Fatalf("DaysOfWeek = %v, want [3]", cfg.DaysOfWeek)
	}

	// A modern day set wins over a stray legacy field.
	var both Trigger
	if err := json.Unmarshal([]byte(`{"type":"weeklyAt","enabled":true,"config":{"dayOfWeek":3,"daysOfWeek":[1,5],"time":"08:30","timezone":"UTC"}}`), &both); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := both.Config.(*WeeklyAtConfig).DaysOfWeek; !reflect.DeepEqual(got, []int{1, 5}) {
		t.Fatalf("DaysOfWeek = %v, want [1 5]", got)
	}
}

func TestTriggerDecodeUnknownType(t *testing.T) {
	t.Parallel()
	var tr Trigger
	if err := json.Unmarshal([]byte(`{"type":"hyperdrive","enabled":true,"config":{"x":1}}`), &tr); err != nil {
		t.Fatalf("decode should tolerate unknown types: %v", err)
	}
	if tr.Config != nil {
		t.Fatalf("unknown type kept a config: %#v", tr.Config)
	}
	if v := validateNow(tr); v.Valid {
		t.Fatal("unknown type should fail validation, not decoding")
	}
}

func TestTypeFamilies(t *testing.T) {
	t.Parallel()
	timeBased := []Type{TypeAtDateTime, TypeDailyAt, TypeWeeklyAt, TypeMonthlyOn, TypeEveryNMinutes, TypeMinuteOfHour}
	eventBased := []Type{TypeCommand, TypeChannelPointReward, TypeSubscription, TypeGiftSub, TypeCheer, TypeFollow}

	for _, typ := range timeBased {
		if !typ.IsTimeBased() || typ.IsEventBased() {
			t.Errorf("%s family flags wrong", typ)
		}
	}
	for _, typ := range eventBased {
		if typ.IsTimeBased() || !typ.IsEventBased() {
			t.Errorf("%s family flags wrong", typ)
		}
	}
	if TypeManual.IsTimeBased() || TypeManual.IsEventBased() {
		t.Error("manual belongs to neither family")
	}
}
