// Package data loads the static game tables from YAML.
package data

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/bombarena/internal/component"
	"github.com/l1jgo/bombarena/internal/world"
)

//go:embed defaults/powerup_list.yaml
var defaultPowerups []byte

// PowerupEntry is one row of the drop table.
type PowerupEntry struct {
	Kind   string `yaml:"kind"`
	Weight int    `yaml:"weight"`
}

type powerupFile struct {
	Powerups []PowerupEntry `yaml:"powerups"`
}

// PowerupTable is the weighted drop table in file order.
type PowerupTable struct {
	weights []world.PowerupWeight
}

// Weights returns a copy suitable for world.Rules.Powerups.
func (t *PowerupTable) Weights() []world.PowerupWeight {
	return append([]world.PowerupWeight(nil), t.weights...)
}

// TotalWeight returns the sum of all weights.
func (t *PowerupTable) TotalWeight() int {
	n := 0
	for _, w := range t.weights {
		n += w.Weight
	}
	return n
}

func (t *PowerupTable) Count() int {
	return len(t.weights)
}

// LoadPowerupTable loads the drop table from path, or the embedded default
// when path is empty.
func LoadPowerupTable(path string) (*PowerupTable, error) {
	if path == "" {
		return ParsePowerupTable(defaultPowerups, "embedded")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("powerup: read %s: %w", path, err)
	}
	return ParsePowerupTable(raw, path)
}

// ParsePowerupTable parses raw YAML; source only labels errors.
func ParsePowerupTable(raw []byte, source string) (*PowerupTable, error) {
	var f powerupFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("powerup: parse %s: %w", source, err)
	}
	if len(f.Powerups) == 0 {
		return nil, fmt.Errorf("powerup: %s: table is empty", source)
	}

	t := &PowerupTable{weights: make([]world.PowerupWeight, 0, len(f.Powerups))}
	seen := make(map[component.PowerupKind]bool, len(f.Powerups))
	for i, e := range f.Powerups {
		kind, ok := component.ParsePowerupKind(e.Kind)
		if !ok {
			return nil, fmt.Errorf("powerup: %s: entry %d: unknown kind %q", source, i, e.Kind)
		}
		if seen[kind] {
			return nil, fmt.Errorf("powerup: %s: entry %d: duplicate kind %q", source, i, e.Kind)
		}
		if e.Weight < 0 {
			return nil, fmt.Errorf("powerup: %s: entry %d: negative weight %d", source, i, e.Weight)
		}
		seen[kind] = true
		t.weights = append(t.weights, world.PowerupWeight{Kind: kind, Weight: e.Weight})
	}
	return t, nil
}
