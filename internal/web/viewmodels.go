package web

import (
	"time"

	"github.com/mediaspawn/spawner-go/internal/dispatch"
	"github.com/mediaspawn/spawner-go/internal/models"
	"github.com/mediaspawn/spawner-go/internal/trigger"
	"github.com/mediaspawn/spawner-go/internal/util"
)

// noActivation is shown for spawns that have no upcoming instant
// (manual, event-based, disabled, or invalid configs).
const noActivation = "–"

type SpawnView struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Enabled        bool         `json:"enabled"`
	TriggerType    trigger.Type `json:"triggerType"`
	NextActivation string       `json:"nextActivation"`
	NextIn         string       `json:"nextIn,omitempty"`
	LastFired      string       `json:"lastFired,omitempty"`
}

type ProfileView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SpawnCount  int    `json:"spawnCount"`
	AssetCount  int    `json:"assetCount"`
}

func newSpawnView(spawn *models.Spawn, now time.Time, dispatcher *dispatch.Dispatcher) SpawnView {
	view := SpawnView{
		ID:             spawn.ID,
		Name:           spawn.Name,
		Enabled:        spawn.Enabled,
		TriggerType:    spawn.Trigger.Type,
		NextActivation: noActivation,
	}

	act := trigger.NextActivation(spawn.Trigger, now)
	if act.When != nil {
		view.NextActivation = act.When.Format("2006-01-02 15:04 MST")
		view.NextIn = util.FormatDuration(act.When.Sub(now))
	}

	if dispatcher != nil {
		if fired, ok := dispatcher.LastFired(spawn.ID); ok {
			view.LastFired = util.FormatTimeAgo(fired.UnixMilli())
		}
	}

	return view
}

func newProfileView(p *models.Profile) ProfileView {
	return ProfileView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		SpawnCount:  len(p.Spawns),
		AssetCount:  len(p.Assets),
	}
}
