package system

import (
	"math"

	"github.com/milk9111/vignette/ecs"
	"github.com/milk9111/vignette/ecs/component"
)

// PoseSystem copies simulation state onto the rigs the renderer draws and
// applies the idle bob.
type PoseSystem struct{}

func NewPoseSystem() *PoseSystem {
	return &PoseSystem{}
}

func (s *PoseSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	_, elapsed := frameTime(w)

	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, p *component.Player, t *component.Transform) {
			t.Position = p.Position
			t.Yaw = p.VisualYaw
			t.Bob = 0
			if bob, ok := ecs.Get(w, e, component.IdleBobComponent.Kind()); ok {
				t.Bob = bobOffset(bob, elapsed, p.Moving)
			}
		})

	ecs.ForEach2(w, component.NpcComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, n *component.Npc, t *component.Transform) {
			t.Position = n.Position
			t.Yaw = n.Yaw
			t.Bob = 0
			if bob, ok := ecs.Get(w, e, component.IdleBobComponent.Kind()); ok {
				t.Bob = bobOffset(bob, elapsed, true)
			}
		})
}

func bobOffset(bob *component.IdleBob, elapsed float64, moving bool) float64 {
	if bob.WhileMoving && !moving {
		return 0
	}
	return math.Sin(elapsed*bob.Frequency) * bob.Amplitude
}
