package models

import (
	"reflect"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestAssetOverridesApply(t *testing.T) {
	t.Parallel()

	base := AssetProperties{
		DurationSeconds: 10,
		Volume:          0.8,
		Scale:           1,
		Position:        &Position{X: 5, Y: 5},
	}

	tests := []struct {
		name      string
		overrides *AssetOverrides
		want      AssetProperties
	}{
		{
			name:      "nil overrides keep base",
			overrides: nil,
			want:      base,
		},
		{
			name:      "empty overrides keep base",
			overrides: &AssetOverrides{},
			want:      base,
		},
		{
			name:      "partial override replaces only set fields",
			overrides: &AssetOverrides{Volume: floatPtr(0.5)},
			want: AssetProperties{
				DurationSeconds: 10,
				Volume:          0.5,
				Scale:           1,
				Position:        &Position{X: 5, Y: 5},
			},
		},
		{
			name: "full override",
			overrides: &AssetOverrides{
				DurationSeconds: floatPtr(3),
				Volume:          floatPtr(1),
				Scale:           floatPtr(2),
				Position:        &Position{X: 100, Y: 200},
			},
			want: AssetProperties{
				DurationSeconds: 3,
				Volume:          1,
				Scale:           2,
				Position:        &Position{X: 100, Y: 200},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.overrides.Apply(base)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// Apply must not alias the override's position into the result, since
// the same overrides can be applied to several assets.
func TestAssetOverridesApplyCopiesPosition(t *testing.T) {
	t.Parallel()

	overrides := &AssetOverrides{Position: &Position{X: 1, Y: 2}}
	got := overrides.Apply(AssetProperties{})
	got.Position.X = 99

	if overrides.Position.X != 1 {
		t.Errorf("override position mutated through result: %+v", overrides.Position)
	}
}

func TestProfileFindAsset(t *testing.T) {
	t.Parallel()

	p := NewProfile("p1", "main")
	p.Assets = []*Asset{
		{ID: "a1", Name: "airhorn", Type: MediaAudio},
		{ID: "a2", Name: "confetti", Type: MediaVideo},
	}

	if got := p.FindAsset("a2"); got == nil || got.Name != "confetti" {
		t.Errorf("FindAsset(a2) = %+v, want confetti", got)
	}
	if got := p.FindAsset("missing"); got != nil {
		t.Errorf("FindAsset(missing) = %+v, want nil", got)
	}
}
