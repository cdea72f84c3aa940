package eventfeed

import (
	"encoding/json"
	"time"

	"github.com/mediaspawn/spawner-go/internal/trigger"
)

type Kind string

const (
	KindCommand            Kind = "command"
	KindChannelPointReward Kind = "channelPointReward"
	KindSubscription       Kind = "subscription"
	KindGiftSub            Kind = "giftSub"
	KindCheer              Kind = "cheer"
	KindFollow             Kind = "follow"
)

// Event is a single notification from the external automation tool.
// Only the fields relevant to the event's kind are populated.
type Event struct {
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user,omitempty"`

	// command
	Command      string `json:"command,omitempty"`
	IsInternal   bool   `json:"isInternal,omitempty"`
	IsBotAccount bool   `json:"isBotAccount,omitempty"`

	// channel point reward
	RewardID    string                   `json:"rewardId,omitempty"`
	Status      trigger.RedemptionStatus `json:"status,omitempty"`
	ViewerInput string                   `json:"viewerInput,omitempty"`

	// subscription / gift sub / cheer
	Tier   trigger.Tier `json:"tier,omitempty"`
	Months int          `json:"months,omitempty"`
	Count  int          `json:"count,omitempty"`
	Bits   int          `json:"bits,omitempty"`
}

// Command is an entry of the remote tool's command list, shown in the
// trigger form's alias picker.
type Command struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Enabled bool     `json:"enabled"`
}

type wsMessage struct {
	Type  string          `json:"type"`
	Nonce string          `json:"nonce,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

const (
	msgPing     = "PING"
	msgPong     = "PONG"
	msgEvent    = "EVENT"
	msgRequest  = "REQUEST"
	msgResponse = "RESPONSE"
)

func parseEvent(data json.RawMessage) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	return &ev, nil
}
