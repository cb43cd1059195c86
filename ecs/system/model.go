package system

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/milk9111/vignette/assets"
	"github.com/milk9111/vignette/common"
	"github.com/milk9111/vignette/ecs"
	"github.com/milk9111/vignette/ecs/component"
	"github.com/milk9111/vignette/future"
	"github.com/milk9111/vignette/prefabs"
)

const playerReadyStatus = "Loaded. Hover-walk active. Move with WASD / Arrow keys."

// ModelLoader starts a background model load.
type ModelLoader func(ctx context.Context, desc assets.ModelDescriptor) *future.Future[*assets.Model]

// ModelSystem starts model loads for rigs that have none and polls them each
// frame. Only the player's model reports progress to the status line.
type ModelSystem struct {
	ctx    context.Context
	load   ModelLoader
	status StatusSink
	log    zerolog.Logger
}

func NewModelSystem(ctx context.Context, status StatusSink, logger zerolog.Logger) *ModelSystem {
	if status == nil {
		status = nopStatus{}
	}
	return &ModelSystem{
		ctx:    ctx,
		load:   assets.LoadModel,
		status: status,
		log:    logger.With().Str("system", "model").Logger(),
	}
}

// ModelDescriptor resolves a model descriptor prefab.
func ModelDescriptor(path string) (assets.ModelDescriptor, error) {
	spec, err := prefabs.LoadModelSpec(path)
	if err != nil {
		return assets.ModelDescriptor{}, err
	}
	desc := assets.ModelDescriptor{
		Name:      spec.Name,
		File:      spec.File,
		Height:    spec.Height,
		YawOffset: spec.YawOffset,
		Tags: assets.MaterialTags{
			FaceOverlay: spec.Materials.FaceOverlay,
			VertexSnap:  spec.Materials.VertexSnap,
		},
	}
	if spec.Color != "" {
		c, err := prefabs.ParseHexColor(spec.Color)
		if err != nil {
			return desc, fmt.Errorf("prefabs: %s: %w", path, err)
		}
		desc.Color = c
	}
	if desc.Name == "" {
		desc.Name = path
	}
	return desc, nil
}

func (s *ModelSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.ModelComponent.Kind(), func(e ecs.Entity, m *component.Model) {
		if m.Ready() || m.Failed {
			return
		}
		isPlayer := ecs.Has(w, e, component.PlayerTagComponent.Kind())

		if m.Load == nil {
			desc, err := ModelDescriptor(m.Descriptor)
			if err != nil {
				s.fail(m, isPlayer, err)
				return
			}
			m.Name = desc.Name
			m.Load = s.load(s.ctx, desc)
			m.Reported = -1
		}

		if !m.Load.Ready() {
			if isPlayer {
				pct := int(math.Min(100, math.Round(m.Load.Progress()*100)))
				if pct != m.Reported {
					m.Reported = pct
					s.status.SetStatus(fmt.Sprintf("Loading %s model... %d%%", displayName(m.Name), pct))
				}
			}
			return
		}

		model, err := m.Load.Result()
		if err != nil {
			s.fail(m, isPlayer, err)
			return
		}
		m.Asset = model
		s.log.Info().Str("model", model.Name).Float64("scale", model.Scale).Str("upright", model.Upright.Name).Msg("model loaded")
		if isPlayer {
			s.status.SetStatus(playerReadyStatus)
		}
		if npc, ok := ecs.Get(w, e, component.NpcComponent.Kind()); ok && !npc.Faced {
			if _, player, ok := ecs.FirstWith(w, component.PlayerComponent.Kind()); ok {
				npc.Yaw = common.FaceYaw(npc.Position, player.Position)
			}
			npc.Faced = true
		}
	})
}

func (s *ModelSystem) fail(m *component.Model, isPlayer bool, err error) {
	m.Failed = true
	m.Load = nil
	s.log.Warn().Err(err).Str("descriptor", m.Descriptor).Msg("model failed to load")
	if isPlayer {
		s.status.SetStatus("Model failed to load. Check console and asset path.")
	}
}

func displayName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
