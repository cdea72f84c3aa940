package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mediaspawn/spawner-go/internal/config"
	"github.com/mediaspawn/spawner-go/internal/eventfeed"
	"github.com/mediaspawn/spawner-go/internal/models"
	"github.com/mediaspawn/spawner-go/internal/trigger"
)

// FireFunc receives a spawn when its trigger activates. For time-based
// and manual activations ev is nil.
type FireFunc func(spawn *models.Spawn, ev *eventfeed.Event)

// Dispatcher drives the active profile's spawns: it polls the scheduler
// for time-based triggers and matches incoming events against
// event-based ones.
type Dispatcher struct {
	settings config.DispatchSettings
	onFire   FireFunc

	profile   *models.Profile
	pending   map[string]time.Time
	lastFired map[string]time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu sync.RWMutex
}

func NewDispatcher(settings config.DispatchSettings, onFire FireFunc) *Dispatcher {
	return &Dispatcher{
		settings:  settings,
		onFire:    onFire,
		pending:   make(map[string]time.Time),
		lastFired: make(map[string]time.Time),
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.mu.Unlock()

	go d.loop()
}

func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	d.mu.Unlock()
}

// SetProfile swaps the active profile and drops the schedule computed
// for the previous one.
func (d *Dispatcher) SetProfile(profile *models.Profile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profile = profile
	d.pending = make(map[string]time.Time)
}

func (d *Dispatcher) loop() {
	for {
		select {
		case <-d.ctx.Done():
			return
		default:
		}

		d.tick(time.Now())

		interval := time.Duration(d.settings.PollIntervalSeconds) * time.Second
		select {
		case <-d.ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// tick evaluates every enabled time-based spawn against a single frozen
// now, firing those whose stored activation instant has been reached
// and recomputing their next one.
func (d *Dispatcher) tick(now time.Time) {
	d.mu.Lock()
	profile := d.profile
	if profile == nil {
		d.mu.Unlock()
		return
	}

	var fired []*models.Spawn
	for _, spawn := range profile.EnabledSpawns() {
		if !spawn.Trigger.Type.IsTimeBased() {
			continue
		}

		due, tracked := d.pending[spawn.ID]
		if tracked && !due.After(now) {
			fired = append(fired, spawn)
			d.lastFired[spawn.ID] = now
			tracked = false
		}

		if !tracked {
			act := trigger.NextActivation(spawn.Trigger, now)
			if act.When == nil {
				delete(d.pending, spawn.ID)
				continue
			}
			d.pending[spawn.ID] = *act.When
		}
	}
	d.mu.Unlock()

	for _, spawn := range fired {
		slog.Info("Spawn activated", "spawn", spawn.Name, "trigger", spawn.Trigger.Type)
		if d.onFire != nil {
			d.onFire(spawn, nil)
		}
	}
}

// HandleEvent routes an event-feed notification to every enabled spawn
// whose trigger matches it.
func (d *Dispatcher) HandleEvent(ev *eventfeed.Event) {
	d.mu.Lock()
	profile := d.profile
	var fired []*models.Spawn
	if profile != nil {
		for _, spawn := range profile.EnabledSpawns() {
			if Matches(spawn.Trigger, ev) {
				fired = append(fired, spawn)
				d.lastFired[spawn.ID] = time.Now()
			}
		}
	}
	d.mu.Unlock()

	for _, spawn := range fired {
		slog.Info("Spawn activated", "spawn", spawn.Name, "trigger", spawn.Trigger.Type, "event", ev.Kind)
		if d.onFire != nil {
			d.onFire(spawn, ev)
		}
	}
}

// Fire activates a spawn by ID regardless of its trigger, used for
// manual triggers and the dashboard's test button.
func (d *Dispatcher) Fire(spawnID string) bool {
	d.mu.Lock()
	profile := d.profile
	var spawn *models.Spawn
	if profile != nil {
		spawn = profile.FindSpawn(spawnID)
		if spawn != nil {
			d.lastFired[spawn.ID] = time.Now()
		}
	}
	d.mu.Unlock()

	if spawn == nil {
		return false
	}
	slog.Info("Spawn activated manually", "spawn", spawn.Name)
	if d.onFire != nil {
		d.onFire(spawn, nil)
	}
	return true
}

// LastFired returns the most recent activation instant for a spawn, if
// it has fired since the dispatcher started.
func (d *Dispatcher) LastFired(spawnID string) (time.Time, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.lastFired[spawnID]
	return t, ok
}

// Upcoming returns the tracked next-activation instants keyed by spawn
// ID, for the dashboard status view.
func (d *Dispatcher) Upcoming() map[string]time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]time.Time, len(d.pending))
	for id, t := range d.pending {
		out[id] = t
	}
	return out
}
