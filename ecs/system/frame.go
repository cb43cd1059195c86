package system

import (
	"github.com/milk9111/vignette/ecs"
	"github.com/milk9111/vignette/ecs/component"
)

const defaultHalfExtent = 24.0

// frameTime returns this frame's clamped step and the accumulated time.
func frameTime(w *ecs.World) (dt, elapsed float64) {
	if _, clock, ok := ecs.FirstWith(w, component.FrameClockComponent.Kind()); ok {
		return clock.Dt, clock.Elapsed
	}
	return 0, 0
}

func cutsceneActive(w *ecs.World) bool {
	_, cs, ok := ecs.FirstWith(w, component.CutsceneComponent.Kind())
	return ok && cs.Active
}

func halfExtent(w *ecs.World) float64 {
	if _, b, ok := ecs.FirstWith(w, component.LevelBoundsComponent.Kind()); ok && b.HalfExtent > 0 {
		return b.HalfExtent
	}
	return defaultHalfExtent
}

func modelReady(w *ecs.World, e ecs.Entity) bool {
	m, ok := ecs.Get(w, e, component.ModelComponent.Kind())
	return ok && m.Ready()
}
