package models

import (
	"github.com/mediaspawn/spawner-go/internal/trigger"
)

// SpawnAsset is an ordered asset reference inside a spawn.
type SpawnAsset struct {
	AssetID   string          `json:"assetId"`
	Order     int             `json:"order"`
	Overrides *AssetOverrides `json:"overrides,omitempty"`
}

// Spawn is a configured media spawn: what to show, for how long, and the
// trigger that fires it.
type Spawn struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Enabled         bool            `json:"enabled"`
	DurationSeconds float64         `json:"durationSeconds"`
	Trigger         trigger.Trigger `json:"trigger"`
	Assets          []SpawnAsset    `json:"assets"`
}

func NewSpawn(id, name string) *Spawn {
	return &Spawn{
		ID:      id,
		Name:    name,
		Enabled: true,
		Trigger: trigger.Trigger{Type: trigger.TypeManual, Enabled: true},
	}
}

// Active reports whether the spawn can fire at all: both the spawn and
// its trigger must be enabled.
func (s *Spawn) Active() bool {
	return s.Enabled && s.Trigger.Enabled
}
