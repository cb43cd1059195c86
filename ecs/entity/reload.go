package entity

import (
	"errors"
	"fmt"

	"github.com/milk9111/vignette/ecs"
	"github.com/milk9111/vignette/ecs/component"
	"github.com/milk9111/vignette/prefabs"
)

// ErrCutsceneActive is returned when a script reload is attempted while the
// cutscene is playing. The caller retries once it ends.
var ErrCutsceneActive = errors.New("cutscene is active")

// ReloadTuning re-reads prefabPath and applies its tuning values to every
// entity built from it. Runtime state such as positions and velocities is
// kept. It returns the number of entities updated.
func ReloadTuning(w *ecs.World, prefabPath string) (int, error) {
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("reload %q: %w", prefabPath, err)
	}

	updated := 0
	var firstErr error
	ecs.ForEach(w, component.PrefabSourceComponent.Kind(), func(e ecs.Entity, src *component.PrefabSource) {
		if src.Path != prefabPath || firstErr != nil {
			return
		}
		if err := applyTuning(w, e, spec); err != nil {
			firstErr = fmt.Errorf("reload %q: %w", prefabPath, err)
			return
		}
		updated++
	})
	return updated, firstErr
}

func applyTuning(w *ecs.World, e ecs.Entity, spec prefabs.EntityBuildSpec) error {
	if raw, ok := spec.Components["locomotion"]; ok {
		if loco, ok := ecs.Get(w, e, component.LocomotionComponent.Kind()); ok {
			s, err := prefabs.DecodeComponentSpec[locomotionSpec](raw)
			if err != nil {
				return fmt.Errorf("decode locomotion spec: %w", err)
			}
			next, err := locomotionFromSpec(s)
			if err != nil {
				return err
			}
			*loco = *next
		}
	}
	if raw, ok := spec.Components["idle_bob"]; ok {
		if bob, ok := ecs.Get(w, e, component.IdleBobComponent.Kind()); ok {
			s, err := prefabs.DecodeComponentSpec[idleBobSpec](raw)
			if err != nil {
				return fmt.Errorf("decode idle_bob spec: %w", err)
			}
			bob.Frequency = s.Frequency
			bob.Amplitude = s.Amplitude
			bob.WhileMoving = s.WhileMoving
		}
	}
	if raw, ok := spec.Components["npc"]; ok {
		if npc, ok := ecs.Get(w, e, component.NpcComponent.Kind()); ok {
			s, err := prefabs.DecodeComponentSpec[npcSpec](raw)
			if err != nil {
				return fmt.Errorf("decode npc spec: %w", err)
			}
			talk, reset, err := npcRadii(s)
			if err != nil {
				return err
			}
			npc.TalkRadius = talk
			npc.ResetRadius = reset
		}
	}
	if raw, ok := spec.Components["camera"]; ok {
		if cam, ok := ecs.Get(w, e, component.CameraComponent.Kind()); ok {
			s, err := prefabs.DecodeComponentSpec[cameraSpec](raw)
			if err != nil {
				return fmt.Errorf("decode camera spec: %w", err)
			}
			cameraTuning(s, cam)
		}
	}
	if raw, ok := spec.Components["cutscene"]; ok {
		if cs, ok := ecs.Get(w, e, component.CutsceneComponent.Kind()); ok {
			s, err := prefabs.DecodeComponentSpec[cutsceneSpec](raw)
			if err != nil {
				return fmt.Errorf("decode cutscene spec: %w", err)
			}
			cs.Tuning = cutsceneTuning(s)
		}
	}
	if raw, ok := spec.Components["frame_clock"]; ok {
		if clock, ok := ecs.Get(w, e, component.FrameClockComponent.Kind()); ok {
			s, err := prefabs.DecodeComponentSpec[frameClockSpec](raw)
			if err != nil {
				return fmt.Errorf("decode frame_clock spec: %w", err)
			}
			if s.MaxDt > 0 {
				clock.MaxDt = s.MaxDt
			}
		}
	}
	return nil
}

// ReloadCutsceneScript re-resolves the director's script from its prefab.
// The running script is never swapped mid-scene.
func ReloadCutsceneScript(w *ecs.World) error {
	e, cs, ok := ecs.FirstWith(w, component.CutsceneComponent.Kind())
	if !ok {
		return fmt.Errorf("reload script: no cutscene entity")
	}
	if cs.Active {
		return ErrCutsceneActive
	}
	src, ok := ecs.Get(w, e, component.PrefabSourceComponent.Kind())
	if !ok {
		return fmt.Errorf("reload script: cutscene entity has no prefab source")
	}
	spec, err := prefabs.LoadEntityBuildSpec(src.Path)
	if err != nil {
		return fmt.Errorf("reload script: %w", err)
	}
	s, err := prefabs.DecodeComponentSpec[cutsceneSpec](spec.Components["cutscene"])
	if err != nil {
		return fmt.Errorf("reload script: decode cutscene spec: %w", err)
	}
	script, err := cutsceneScript(s)
	if err != nil {
		return fmt.Errorf("reload script: %w", err)
	}
	cs.Script = script
	cs.StepIndex = -1
	return nil
}
