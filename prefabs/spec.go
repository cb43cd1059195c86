package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// Vec3Spec is a YAML [x, y, z] triple.
type Vec3Spec [3]float64

// SoundtrackSpec names the ambient and cutscene tracks.
type SoundtrackSpec struct {
	Ambient struct {
		Track  string  `yaml:"track"`
		Volume float64 `yaml:"volume"`
	} `yaml:"ambient"`
	Cutscene struct {
		Track    string  `yaml:"track"`
		Gain     float64 `yaml:"gain"`
		StartSec float64 `yaml:"start_sec"`
		GuardSec float64 `yaml:"guard_sec"`
	} `yaml:"cutscene"`
}

func LoadSoundtrackSpec() (SoundtrackSpec, error) {
	spec, err := LoadSpec[SoundtrackSpec]("soundtrack.yaml")
	if err != nil {
		return spec, err
	}
	if spec.Ambient.Track == "" || spec.Cutscene.Track == "" {
		return spec, fmt.Errorf("prefabs: soundtrack.yaml: both ambient and cutscene tracks are required")
	}
	return spec, nil
}

// ModelSpec describes a character model file and how to prepare it.
type ModelSpec struct {
	Name      string  `yaml:"name"`
	File      string  `yaml:"file"`
	Height    float64 `yaml:"height"`
	YawOffset float64 `yaml:"yaw_offset"`
	Color     string  `yaml:"color"`
	Materials struct {
		FaceOverlay bool `yaml:"face_overlay"`
		VertexSnap  bool `yaml:"vertex_snap"`
	} `yaml:"materials"`
}

func LoadModelSpec(path string) (ModelSpec, error) {
	spec, err := LoadSpec[ModelSpec](path)
	if err != nil {
		return spec, err
	}
	if spec.File == "" {
		return spec, fmt.Errorf("prefabs: %s: model file is required", path)
	}
	if spec.Height <= 0 {
		return spec, fmt.Errorf("prefabs: %s: height must be positive", path)
	}
	return spec, nil
}

// ParseHexColor parses #rrggbb or #rrggbbaa.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
