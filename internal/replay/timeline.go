// Package replay runs recorded input timelines and checks that two runs of
// the same timeline are identical.
package replay

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// InputEntry is one timed, still unvalidated input.
type InputEntry struct {
	Tick   uint64         `yaml:"tick"`
	Player string         `yaml:"player"`
	Input  map[string]any `yaml:"input"`
}

// Timeline fully determines a match: game, seed, players, options and the
// ordered inputs. Ticks caps the run; zero means run until game over.
type Timeline struct {
	Name    string            `yaml:"name"`
	Game    string            `yaml:"game"`
	Seed    uint32            `yaml:"seed"`
	Players []string          `yaml:"players"`
	Options map[string]string `yaml:"options"`
	Ticks   uint64            `yaml:"ticks"`
	Inputs  []InputEntry      `yaml:"inputs"`
}

func LoadTimeline(path string) (*Timeline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("timeline: read %s: %w", path, err)
	}
	tl, err := ParseTimeline(raw)
	if err != nil {
		return nil, fmt.Errorf("timeline: %s: %w", path, err)
	}
	if tl.Name == "" {
		tl.Name = path
	}
	return tl, nil
}

func ParseTimeline(raw []byte) (*Timeline, error) {
	var tl Timeline
	if err := yaml.Unmarshal(raw, &tl); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if tl.Game == "" {
		return nil, fmt.Errorf("parse: missing game")
	}
	for i, in := range tl.Inputs {
		if in.Tick == 0 {
			return nil, fmt.Errorf("parse: input %d: tick must be >= 1", i)
		}
	}
	return &tl, nil
}

func SaveTimeline(path string, tl *Timeline) error {
	raw, err := yaml.Marshal(tl)
	if err != nil {
		return fmt.Errorf("timeline: encode %s: %w", tl.Name, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("timeline: write %s: %w", path, err)
	}
	return nil
}
