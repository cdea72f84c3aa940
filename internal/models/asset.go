package models

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaAudio MediaType = "audio"
	MediaVideo MediaType = "video"
)

// Asset is an entry in the media library. Spawns reference assets by ID
// and may override playback properties per spawn.
type Asset struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Path       string          `json:"path"`
	Type       MediaType       `json:"type"`
	Properties AssetProperties `json:"properties"`
}

type AssetProperties struct {
	DurationSeconds float64   `json:"durationSeconds,omitempty"`
	Volume          float64   `json:"volume,omitempty"`
	Scale           float64   `json:"scale,omitempty"`
	Position        *Position `json:"position,omitempty"`
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// AssetOverrides is a partial override applied when an asset is attached
// to a spawn. Pointer fields distinguish "unset" from zero values; nil
// fields fall back to the asset's own properties.
type AssetOverrides struct {
	DurationSeconds *float64  `json:"durationSeconds,omitempty"`
	Volume          *float64  `json:"volume,omitempty"`
	Scale           *float64  `json:"scale,omitempty"`
	Position        *Position `json:"position,omitempty"`
}

// Apply layers non-nil overrides on top of base properties.
func (o *AssetOverrides) Apply(base AssetProperties) AssetProperties {
	if o == nil {
		return base
	}
	if o.DurationSeconds != nil {
		base.DurationSeconds = *o.DurationSeconds
	}
	if o.Volume != nil {
		base.Volume = *o.Volume
	}
	if o.Scale != nil {
		base.Scale = *o.Scale
	}
	if o.Position != nil {
		p := *o.Position
		base.Position = &p
	}
	return base
}
