package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is a stage: its walkable bounds, the prefabs placed on it, and how
// to scatter the scenery.
type Level struct {
	Name       string   `json:"name"`
	HalfExtent float64  `json:"half_extent"`
	GroundSize float64  `json:"ground_size"`
	Background string   `json:"background"`
	Entities   []Entity `json:"entities"`
	Decor      Decor    `json:"decor"`
}

// Entity places a prefab. Position and Yaw override the prefab's transform
// when set.
type Entity struct {
	Type     string      `json:"type"`
	Prefab   string      `json:"prefab"`
	Position *[3]float64 `json:"position,omitempty"`
	Yaw      *float64    `json:"yaw,omitempty"`
}

type Decor struct {
	Seed      int64   `json:"seed"`
	Buildings bool    `json:"buildings"`
	Hearts    int     `json:"hearts"`
	Roses     int     `json:"roses"`
	ClearZone float64 `json:"clear_zone"`
}

// Load reads a level from disk under dir when present, otherwise from the
// embedded copies.
func Load(dir, name string) (*Level, error) {
	if dir != "" {
		if data, err := os.ReadFile(filepath.Join(dir, name)); err == nil {
			return parse(name, data)
		}
	}
	return LoadLevelFromFS(name)
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return parse(name, data)
}

func parse(name string, data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level %s: %w", name, err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("level %s: %w", name, err)
	}
	return &lvl, nil
}

// Validate checks the stage has what the game needs to run.
func (l *Level) Validate() error {
	if l.HalfExtent <= 0 {
		return fmt.Errorf("half_extent must be positive")
	}
	counts := map[string]int{}
	for i, e := range l.Entities {
		if e.Prefab == "" {
			return fmt.Errorf("entity %d (%s): prefab is required", i, e.Type)
		}
		counts[e.Type]++
	}
	for _, required := range []string{"player", "npc", "camera", "director", "clock"} {
		if counts[required] != 1 {
			return fmt.Errorf("want exactly one %s entity, got %d", required, counts[required])
		}
	}
	return nil
}
