package trigger

import (
	"encoding/json"
	"fmt"
)

type Type string

const (
	TypeManual             Type = "manual"
	TypeAtDateTime         Type = "atDateTime"
	TypeDailyAt            Type = "dailyAt"
	TypeWeeklyAt           Type = "weeklyAt"
	TypeMonthlyOn          Type = "monthlyOn"
	TypeEveryNMinutes      Type = "everyNMinutes"
	TypeMinuteOfHour       Type = "minuteOfHour"
	TypeCommand            Type = "command"
	TypeChannelPointReward Type = "channelPointReward"
	TypeSubscription       Type = "subscription"
	TypeGiftSub            Type = "giftSub"
	TypeCheer              Type = "cheer"
	TypeFollow             Type = "follow"
)

// IsTimeBased reports whether a next activation instant can be computed
// for this trigger type.
func (t Type) IsTimeBased() bool {
	switch t {
	case TypeAtDateTime, TypeDailyAt, TypeWeeklyAt, TypeMonthlyOn, TypeEveryNMinutes, TypeMinuteOfHour:
		return true
	}
	return false
}

// IsEventBased reports whether this trigger type fires in response to an
// external notification rather than at a computed instant.
func (t Type) IsEventBased() bool {
	switch t {
	case TypeCommand, TypeChannelPointReward, TypeSubscription, TypeGiftSub, TypeCheer, TypeFollow:
		return true
	}
	return false
}

func (t Type) Known() bool {
	return t == TypeManual || t.IsTimeBased() || t.IsEventBased()
}

type Tier string

const (
	Tier1 Tier = "1000"
	Tier2 Tier = "2000"
	Tier3 Tier = "3000"
)

func (t Tier) Valid() bool {
	return t == Tier1 || t == Tier2 || t == Tier3
}

type Comparator string

const (
	ComparatorAtLeast Comparator = "atLeast"
	ComparatorExactly Comparator = "exactly"
	ComparatorAtMost  Comparator = "atMost"
)

func (c Comparator) Valid() bool {
	return c == ComparatorAtLeast || c == ComparatorExactly || c == ComparatorAtMost
}

// Compare applies the comparator with the configured value as the
// right-hand side, e.g. bits Compare(configured) for "atLeast 100".
func (c Comparator) Compare(actual, configured int) bool {
	switch c {
	case ComparatorAtLeast:
		return actual >= configured
	case ComparatorExactly:
		return actual == configured
	case ComparatorAtMost:
		return actual <= configured
	}
	return false
}

type RedemptionStatus string

const (
	RedemptionPending   RedemptionStatus = "pending"
	RedemptionFulfilled RedemptionStatus = "fulfilled"
	RedemptionCanceled  RedemptionStatus = "canceled"
)

func (s RedemptionStatus) Valid() bool {
	return s == RedemptionPending || s == RedemptionFulfilled || s == RedemptionCanceled
}

// Config is the kind-specific payload of a trigger. It is a closed set;
// exactly one concrete config type exists per trigger type.
type Config interface {
	configType() Type
}

// Trigger describes when and why a spawn activates. The config shape is
// fully determined by Type; Config is nil for manual and follow.
type Trigger struct {
	Type    Type
	Enabled bool
	Config  Config
}

type AtDateTimeConfig struct {
	ISODateTime string `json:"isoDateTime"`
	Timezone    string `json:"timezone"`
}

type DailyAtConfig struct {
	Time     string `json:"time"`
	Timezone string `json:"timezone"`
}

type WeeklyAtConfig struct {
	DaysOfWeek []int  `json:"daysOfWeek"`
	Time       string `json:"time"`
	Timezone   string `json:"timezone"`
}

// UnmarshalJSON migrates the legacy singular dayOfWeek field into a
// one-element daysOfWeek set. Decoding is the single point where stored
// triggers enter the engine, so neither the validator nor the scheduler
// ever observes the legacy shape.
func (c *WeeklyAtConfig) UnmarshalJSON(data []byte) error {
	var raw struct {
		DaysOfWeek []int  `json:"daysOfWeek"`
		DayOfWeek  *int   `json:"dayOfWeek"`
		Time       string `json:"time"`
		Timezone   string `json:"timezone"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.DaysOfWeek = raw.DaysOfWeek
	c.Time = raw.Time
	c.Timezone = raw.Timezone
	if len(c.DaysOfWeek) == 0 && raw.DayOfWeek != nil {
		c.DaysOfWeek = []int{*raw.DayOfWeek}
	}
	return nil
}

type MonthlyOnConfig struct {
	DayOfMonth int    `json:"dayOfMonth"`
	Time       string `json:"time"`
	Timezone   string `json:"timezone"`
}

type AnchorKind string

const (
	AnchorTopOfHour AnchorKind = "topOfHour"
	AnchorCustom    AnchorKind = "custom"
)

// Anchor is the reference instant interval multiples are measured from.
// A custom anchor carries its own timezone, independent of the trigger's.
type Anchor struct {
	Kind        AnchorKind `json:"kind"`
	ISODateTime string     `json:"isoDateTime,omitempty"`
	Timezone    string     `json:"timezone,omitempty"`
}

type EveryNMinutesConfig struct {
	IntervalMinutes int     `json:"intervalMinutes"`
	Timezone        string  `json:"timezone"`
	Anchor          *Anchor `json:"anchor,omitempty"`
}

type MinuteOfHourConfig struct {
	Minute   int    `json:"minute"`
	Timezone string `json:"timezone"`
}

type CommandConfig struct {
	Aliases          []string `json:"aliases"`
	CaseSensitive    bool     `json:"caseSensitive"`
	IgnoreInternal   bool     `json:"ignoreInternal"`
	IgnoreBotAccount bool     `json:"ignoreBotAccount"`
}

type ChannelPointRewardConfig struct {
	RewardIdentifier string             `json:"rewardIdentifier"`
	UseViewerInput   bool               `json:"useViewerInput"`
	Statuses         []RedemptionStatus `json:"statuses"`
}

type SubscriptionConfig struct {
	Tier             *Tier       `json:"tier,omitempty"`
	Months           *int        `json:"months,omitempty"`
	MonthsComparator *Comparator `json:"monthsComparator,omitempty"`
}

type GiftSubConfig struct {
	MinCount *int  `json:"minCount,omitempty"`
	Tier     *Tier `json:"tier,omitempty"`
}

type CheerConfig struct {
	Bits           *int        `json:"bits,omitempty"`
	BitsComparator *Comparator `json:"bitsComparator,omitempty"`
}

func (*AtDateTimeConfig) configType() Type         { return TypeAtDateTime }
func (*DailyAtConfig) configType() Type            { return TypeDailyAt }
func (*WeeklyAtConfig) configType() Type           { return TypeWeeklyAt }
func (*MonthlyOnConfig) configType() Type          { return TypeMonthlyOn }
func (*EveryNMinutesConfig) configType() Type      { return TypeEveryNMinutes }
func (*MinuteOfHourConfig) configType() Type       { return TypeMinuteOfHour }
func (*CommandConfig) configType() Type            { return TypeCommand }
func (*ChannelPointRewardConfig) configType() Type { return TypeChannelPointReward }
func (*SubscriptionConfig) configType() Type       { return TypeSubscription }
func (*GiftSubConfig) configType() Type            { return TypeGiftSub }
func (*CheerConfig) configType() Type              { return TypeCheer }

type triggerJSON struct {
	Type    Type            `json:"type"`
	Enabled bool            `json:"enabled"`
	Config  json.RawMessage `json:"config,omitempty"`
}

func (t Trigger) MarshalJSON() ([]byte, error) {
	out := triggerJSON{Type: t.Type, Enabled: t.Enabled}
	if t.Config != nil {
		data, err := json.Marshal(t.Config)
		if err != nil {
			return nil, err
		}
		out.Config = data
	}
	return json.Marshal(out)
}

func (t *Trigger) UnmarshalJSON(data []byte) error {
	var raw triggerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t.Type = raw.Type
	t.Enabled = raw.Enabled
	t.Config = nil

	if len(raw.Config) == 0 || string(raw.Config) == "null" {
		return nil
	}

	cfg := newConfig(raw.Type)
	if cfg == nil {
		// Unknown or config-less type; keep the raw trigger and let the
		// validator report it instead of failing the decode.
		return nil
	}
	if err := json.Unmarshal(raw.Config, cfg); err != nil {
		return fmt.Errorf("decode %s config: %w", raw.Type, err)
	}
	t.Config = cfg
	return nil
}

func newConfig(t Type) Config {
	switch t {
	case TypeAtDateTime:
		return &AtDateTimeConfig{}
	case TypeDailyAt:
		return &DailyAtConfig{}
	case TypeWeeklyAt:
		return &WeeklyAtConfig{}
	case TypeMonthlyOn:
		return &MonthlyOnConfig{}
	case TypeEveryNMinutes:
		return &EveryNMinutesConfig{}
	case TypeMinuteOfHour:
		return &MinuteOfHourConfig{}
	case TypeCommand:
		return &CommandConfig{}
	case TypeChannelPointReward:
		return &ChannelPointRewardConfig{}
	case TypeSubscription:
		return &SubscriptionConfig{}
	case TypeGiftSub:
		return &GiftSubConfig{}
	case TypeCheer:
		return &CheerConfig{}
	}
	return nil
}
