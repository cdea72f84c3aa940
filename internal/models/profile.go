package models

import "fmt"

// Profile is a named collection of spawns sharing one asset library. It
// is the unit of persistence and of import/export.
type Profile struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Spawns      []*Spawn `json:"spawns"`
	Assets      []*Asset `json:"assets"`
}

func NewProfile(id, name string) *Profile {
	return &Profile{ID: id, Name: name}
}

func (p *Profile) String() string {
	return fmt.Sprintf("Profile(%s, %d spawns)", p.Name, len(p.Spawns))
}

func (p *Profile) FindSpawn(id string) *Spawn {
	for _, s := range p.Spawns {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (p *Profile) FindAsset(id string) *Asset {
	for _, a := range p.Assets {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// EnabledSpawns returns the spawns the dispatcher should consider.
func (p *Profile) EnabledSpawns() []*Spawn {
	var out []*Spawn
	for _, s := range p.Spawns {
		if s.Active() {
			out = append(out, s)
		}
	}
	return out
}
