package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mediaspawn/spawner-go/internal/models"
	"github.com/mediaspawn/spawner-go/internal/trigger"
	"github.com/mediaspawn/spawner-go/internal/util"
	"github.com/mediaspawn/spawner-go/internal/version"
)

func decodeTrigger(r *http.Request) (trigger.Trigger, error) {
	var t trigger.Trigger
	err := json.NewDecoder(r.Body).Decode(&t)
	return t, err
}

// POST /api/triggers/validate
func (s *Server) handleValidateTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeNotAllowed(w)
		return
	}

	t, err := decodeTrigger(r)
	if err != nil {
		writeBadRequest(w, "invalid trigger payload: "+err.Error())
		return
	}

	writeJSONOK(w, trigger.Validate(t))
}

// POST /api/triggers/next
func (s *Server) handleNextActivation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeNotAllowed(w)
		return
	}

	t, err := decodeTrigger(r)
	if err != nil {
		writeBadRequest(w, "invalid trigger payload: "+err.Error())
		return
	}

	writeJSONOK(w, trigger.NextActivation(t, time.Now()))
}

// GET/POST /api/profiles
func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.repo.List()
		if err != nil {
			writeInternalError(w, err.Error())
			return
		}
		views := make([]ProfileView, 0, len(list))
		for _, p := range list {
			views = append(views, newProfileView(p))
		}
		writeJSONOK(w, views)

	case http.MethodPost:
		var p models.Profile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeBadRequest(w, "invalid profile payload: "+err.Error())
			return
		}
		if p.Name == "" {
			writeBadRequest(w, "profile name is required")
			return
		}
		if p.ID == "" {
			p.ID = util.NewID()
		}
		s.saveProfile(w, &p)

	default:
		writeNotAllowed(w)
	}
}

// GET/PUT/DELETE /api/profiles/{id} and GET /api/profiles/{id}/spawns
func (s *Server) handleProfileByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/profiles/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeBadRequest(w, "profile ID is required")
		return
	}

	if sub == "spawns" {
		s.handleProfileSpawns(w, r, id)
		return
	}
	if sub != "" {
		writeNotFound(w, "unknown profile resource")
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := s.repo.Get(id)
		if err != nil {
			writeNotFound(w, err.Error())
			return
		}
		writeJSONOK(w, p)

	case http.MethodPut:
		var p models.Profile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeBadRequest(w, "invalid profile payload: "+err.Error())
			return
		}
		p.ID = id
		s.saveProfile(w, &p)

	case http.MethodDelete:
		if err := s.repo.Delete(id); err != nil {
			writeInternalError(w, err.Error())
			return
		}
		writeSuccess(w)

	default:
		writeNotAllowed(w)
	}
}

// GET /api/profiles/{id}/spawns returns the spawn list with next-activation info.
func (s *Server) handleProfileSpawns(w http.ResponseWriter, r *http.Request, profileID string) {
	if r.Method != http.MethodGet {
		writeNotAllowed(w)
		return
	}

	p, err := s.repo.Get(profileID)
	if err != nil {
		writeNotFound(w, err.Error())
		return
	}

	now := time.Now()
	views := make([]SpawnView, 0, len(p.Spawns))
	for _, spawn := range p.Spawns {
		views = append(views, newSpawnView(spawn, now, s.dispatcher))
	}
	writeJSONOK(w, views)
}

// saveProfile validates every spawn's trigger, persists the profile, and
// reports warnings alongside the saved entity. Invalid triggers reject
// the whole save: the engine never stores a config it cannot schedule.
func (s *Server) saveProfile(w http.ResponseWriter, p *models.Profile) {
	var warnings []string
	for _, spawn := range p.Spawns {
		if spawn.ID == "" {
			spawn.ID = util.NewID()
		}
		result := trigger.Validate(spawn.Trigger)
		if !result.Valid {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"spawnId":    spawn.ID,
				"spawnName":  spawn.Name,
				"validation": result,
			})
			return
		}
		for _, warning := range result.Warnings {
			warnings = append(warnings, spawn.Name+": "+warning)
		}
	}

	if err := s.repo.Save(p); err != nil {
		writeInternalError(w, err.Error())
		return
	}

	s.mu.RLock()
	callback := s.onProfileSaved
	s.mu.RUnlock()
	if callback != nil {
		callback(p.ID, warnings)
	}

	writeJSONOK(w, map[string]any{
		"profile":  newProfileView(p),
		"warnings": warnings,
	})
}

// POST /api/spawns/{id}/fire performs a manual activation from the dashboard.
func (s *Server) handleSpawnAction(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/spawns/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" || action != "fire" {
		writeNotFound(w, "unknown spawn resource")
		return
	}
	if r.Method != http.MethodPost {
		writeNotAllowed(w)
		return
	}

	if s.dispatcher == nil || !s.dispatcher.Fire(id) {
		writeNotFound(w, "spawn not found in active profile")
		return
	}
	writeSuccess(w)
}

// GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeNotAllowed(w)
		return
	}

	list, err := s.repo.List()
	if err != nil {
		slog.Warn("Status profile listing failed", "error", err)
	}
	spawnCount := 0
	for _, p := range list {
		spawnCount += len(p.Spawns)
	}

	s.mu.RLock()
	feed := s.feed
	s.mu.RUnlock()

	writeJSONOK(w, map[string]any{
		"version":       version.Version,
		"uptime":        util.FormatDuration(time.Since(s.startTime)),
		"profileCount":  len(list),
		"spawnCount":    spawnCount,
		"feedConnected": feed != nil && feed.IsConnected(),
	})
}

// GET /api/commands returns the remote tool commands for the alias
// picker in the trigger form.
func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeNotAllowed(w)
		return
	}

	s.mu.RLock()
	feed := s.feed
	s.mu.RUnlock()
	if feed == nil || !feed.IsConnected() {
		writeError(w, http.StatusServiceUnavailable, "event feed not connected")
		return
	}

	commands, err := feed.Commands(r.Context())
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSONOK(w, commands)
}
