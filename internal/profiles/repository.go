package profiles

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mediaspawn/spawner-go/internal/database"
	"github.com/mediaspawn/spawner-go/internal/models"
	"github.com/mediaspawn/spawner-go/internal/trigger"
)

// Repository persists spawn profiles. Triggers travel through their JSON
// codec, so legacy weekly configs read from disk are migrated on load.
type Repository struct {
	db *database.DB
	mu sync.RWMutex
}

type ProfilesModule struct{}

func (m *ProfilesModule) Name() string {
	return "profiles"
}

func (m *ProfilesModule) Migrations() []database.Migration {
	return []database.Migration{
		{
			Version:     1,
			Description: "Create profiles, spawns and assets tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS profiles (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					description TEXT DEFAULT ''
				);

				CREATE TABLE IF NOT EXISTS spawns (
					id TEXT PRIMARY KEY,
					profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
					position INTEGER NOT NULL DEFAULT 0,
					name TEXT NOT NULL,
					description TEXT DEFAULT '',
					enabled INTEGER NOT NULL DEFAULT 1,
					duration_seconds REAL NOT NULL DEFAULT 0,
					trigger_json TEXT NOT NULL,
					assets_json TEXT NOT NULL DEFAULT '[]'
				);

				CREATE TABLE IF NOT EXISTS assets (
					id TEXT PRIMARY KEY,
					profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
					name TEXT NOT NULL,
					path TEXT NOT NULL,
					media_type TEXT NOT NULL,
					properties_json TEXT NOT NULL DEFAULT '{}'
				);

				CREATE INDEX IF NOT EXISTS idx_spawns_profile ON spawns(profile_id, position);
				CREATE INDEX IF NOT EXISTS idx_assets_profile ON assets(profile_id);
			`,
		},
	}
}

func NewRepository(db *database.DB) (*Repository, error) {
	if err := db.RegisterModule(&ProfilesModule{}); err != nil {
		return nil, fmt.Errorf("failed to register profiles module: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) List() ([]*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.Query("SELECT id FROM profiles ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	profiles := make([]*models.Profile, 0, len(ids))
	for _, id := range ids {
		p, err := r.get(id)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (r *Repository) Get(id string) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(id)
}

func (r *Repository) get(id string) (*models.Profile, error) {
	p := &models.Profile{ID: id}
	err := r.db.QueryRow("SELECT name, description FROM profiles WHERE id = ?", id).
		Scan(&p.Name, &p.Description)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	spawns, err := r.loadSpawns(id)
	if err != nil {
		return nil, err
	}
	p.Spawns = spawns

	assets, err := r.loadAssets(id)
	if err != nil {
		return nil, err
	}
	p.Assets = assets

	return p, nil
}

func (r *Repository) loadSpawns(profileID string) ([]*models.Spawn, error) {
	rows, err := r.db.Query(`
		SELECT id, name, description, enabled, duration_seconds, trigger_json, assets_json
		FROM spawns WHERE profile_id = ? ORDER BY position
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spawns []*models.Spawn
	for rows.Next() {
		var (
			s           models.Spawn
			enabled     int
			triggerJSON string
			assetsJSON  string
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &enabled, &s.DurationSeconds, &triggerJSON, &assetsJSON); err != nil {
			return nil, err
		}
		s.Enabled = enabled != 0

		var tr trigger.Trigger
		if err := json.Unmarshal([]byte(triggerJSON), &tr); err != nil {
			return nil, fmt.Errorf("decode trigger for spawn %s: %w", s.ID, err)
		}
		s.Trigger = tr

		if err := json.Unmarshal([]byte(assetsJSON), &s.Assets); err != nil {
			return nil, fmt.Errorf("decode assets for spawn %s: %w", s.ID, err)
		}

		spawns = append(spawns, &s)
	}
	return spawns, rows.Err()
}

func (r *Repository) loadAssets(profileID string) ([]*models.Asset, error) {
	rows, err := r.db.Query(`
		SELECT id, name, path, media_type, properties_json
		FROM assets WHERE profile_id = ? ORDER BY name
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		var (
			a        models.Asset
			propJSON string
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Path, &a.Type, &propJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(propJSON), &a.Properties); err != nil {
			return nil, fmt.Errorf("decode properties for asset %s: %w", a.ID, err)
		}
		assets = append(assets, &a)
	}
	return assets, rows.Err()
}

// Save upserts the profile and replaces its spawns and assets.
func (r *Repository) Save(p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO profiles (id, name, description) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, description = excluded.description
	`, p.ID, p.Name, p.Description)
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM spawns WHERE profile_id = ?", p.ID); err != nil {
		return err
	}
	for i, s := range p.Spawns {
		triggerJSON, err := json.Marshal(s.Trigger)
		if err != nil {
			return fmt.Errorf("encode trigger for spawn %s: %w", s.ID, err)
		}
		assets := s.Assets
		if assets == nil {
			assets = []models.SpawnAsset{}
		}
		assetsJSON, err := json.Marshal(assets)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			INSERT INTO spawns (id, profile_id, position, name, description, enabled, duration_seconds, trigger_json, assets_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, s.ID, p.ID, i, s.Name, s.Description, boolToInt(s.Enabled), s.DurationSeconds, string(triggerJSON), string(assetsJSON))
		if err != nil {
			return err
		}
	}

	if _, err := tx.Exec("DELETE FROM assets WHERE profile_id = ?", p.ID); err != nil {
		return err
	}
	for _, a := range p.Assets {
		propJSON, err := json.Marshal(a.Properties)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			INSERT INTO assets (id, profile_id, name, path, media_type, properties_json)
			VALUES (?, ?, ?, ?, ?, ?)
		`, a.ID, p.ID, a.Name, a.Path, string(a.Type), string(propJSON))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// CASCADE is not always enabled on sqlite connections; delete
	// children explicitly.
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM spawns WHERE profile_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM assets WHERE profile_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM profiles WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
