package system

import (
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"
	"golang.design/x/clipboard"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/vignette/ecs"
	"github.com/milk9111/vignette/ecs/component"
)

// PoseSnippet is the player pose in the shape a level entity takes, so it
// can be pasted straight into a stage file or prefab.
type PoseSnippet struct {
	Position [3]float64 `yaml:"position,flow"`
	Yaw      float64    `yaml:"yaw"`
}

// DebugSystem copies the player's pose to the clipboard on F2.
type DebugSystem struct {
	write func([]byte) error
	log   zerolog.Logger
}

func NewDebugSystem(logger zerolog.Logger) *DebugSystem {
	return &DebugSystem{
		write: clipboardWriter(),
		log:   logger.With().Str("system", "debug").Logger(),
	}
}

func clipboardWriter() func([]byte) error {
	var once sync.Once
	var initErr error
	return func(b []byte) error {
		once.Do(func() { initErr = clipboard.Init() })
		if initErr != nil {
			return fmt.Errorf("clipboard unavailable: %w", initErr)
		}
		clipboard.Write(clipboard.FmtText, b)
		return nil
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// PoseYAML renders p as a PoseSnippet.
func PoseYAML(p *component.Player) ([]byte, error) {
	snippet := PoseSnippet{
		Position: [3]float64{round3(p.Position.X()), round3(p.Position.Y()), round3(p.Position.Z())},
		Yaw:      round3(p.Yaw),
	}
	return yaml.Marshal(snippet)
}

func (s *DebugSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.InputComponent.Kind(),
		func(_ ecs.Entity, p *component.Player, in *component.Input) {
			if !in.CopyPosePressed {
				return
			}
			out, err := PoseYAML(p)
			if err != nil {
				s.log.Warn().Err(err).Msg("encode pose")
				return
			}
			if err := s.write(out); err != nil {
				s.log.Warn().Err(err).Msg("copy pose")
				return
			}
			s.log.Info().Bytes("pose", out).Msg("pose copied to clipboard")
		})
}
