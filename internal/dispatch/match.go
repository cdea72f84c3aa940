package dispatch

import (
	"strings"

	"github.com/mediaspawn/spawner-go/internal/eventfeed"
	"github.com/mediaspawn/spawner-go/internal/trigger"
)

var kindForType = map[trigger.Type]eventfeed.Kind{
	trigger.TypeCommand:            eventfeed.KindCommand,
	trigger.TypeChannelPointReward: eventfeed.KindChannelPointReward,
	trigger.TypeSubscription:       eventfeed.KindSubscription,
	trigger.TypeGiftSub:            eventfeed.KindGiftSub,
	trigger.TypeCheer:              eventfeed.KindCheer,
	trigger.TypeFollow:             eventfeed.KindFollow,
}

// Matches reports whether an incoming event satisfies an event-based
// trigger's configuration. Disabled triggers and kind mismatches never
// match. Unset optional fields act as wildcards.
func Matches(t trigger.Trigger, ev *eventfeed.Event) bool {
	if !t.Enabled || ev == nil {
		return false
	}
	if kindForType[t.Type] != ev.Kind {
		return false
	}

	switch cfg := t.Config.(type) {
	case *trigger.CommandConfig:
		return matchCommand(cfg, ev)
	case *trigger.ChannelPointRewardConfig:
		return matchReward(cfg, ev)
	case *trigger.SubscriptionConfig:
		return matchSubscription(cfg, ev)
	case *trigger.GiftSubConfig:
		return matchGiftSub(cfg, ev)
	case *trigger.CheerConfig:
		return matchCheer(cfg, ev)
	case nil:
		// follow carries no configuration; the kind check above is all
		// there is to satisfy.
		return t.Type == trigger.TypeFollow
	}
	return false
}

func matchCommand(cfg *trigger.CommandConfig, ev *eventfeed.Event) bool {
	if cfg.IgnoreInternal && ev.IsInternal {
		return false
	}
	if cfg.IgnoreBotAccount && ev.IsBotAccount {
		return false
	}
	for _, alias := range cfg.Aliases {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			continue
		}
		if cfg.CaseSensitive {
			if alias == ev.Command {
				return true
			}
		} else if strings.EqualFold(alias, ev.Command) {
			return true
		}
	}
	return false
}

func matchReward(cfg *trigger.ChannelPointRewardConfig, ev *eventfeed.Event) bool {
	if cfg.RewardIdentifier != ev.RewardID {
		return false
	}
	if len(cfg.Statuses) == 0 {
		return true
	}
	for _, status := range cfg.Statuses {
		if status == ev.Status {
			return true
		}
	}
	return false
}

func matchSubscription(cfg *trigger.SubscriptionConfig, ev *eventfeed.Event) bool {
	if cfg.Tier != nil && *cfg.Tier != ev.Tier {
		return false
	}
	if cfg.Months != nil && cfg.MonthsComparator != nil {
		return cfg.MonthsComparator.Compare(ev.Months, *cfg.Months)
	}
	return true
}

func matchGiftSub(cfg *trigger.GiftSubConfig, ev *eventfeed.Event) bool {
	if cfg.Tier != nil && *cfg.Tier != ev.Tier {
		return false
	}
	if cfg.MinCount != nil && ev.Count < *cfg.MinCount {
		return false
	}
	return true
}

func matchCheer(cfg *trigger.CheerConfig, ev *eventfeed.Event) bool {
	if cfg.Bits != nil && cfg.BitsComparator != nil {
		return cfg.BitsComparator.Compare(ev.Bits, *cfg.Bits)
	}
	return true
}
