package entity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/vignette/ecs"
	"github.com/milk9111/vignette/ecs/component"
	"github.com/milk9111/vignette/prefabs"
)

// ErrInvalidRadii is returned for an NPC whose reset radius does not exceed
// its talk radius; the cutscene could never re-arm.
var ErrInvalidRadii = errors.New("npc: reset_radius must be greater than talk_radius")

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":  addPlayerTag,
	"npc_tag":     addNpcTag,
	"camera_tag":  addCameraTag,
	"input":       addInput,
	"player":      addPlayer,
	"locomotion":  addLocomotion,
	"idle_bob":    addIdleBob,
	"npc":         addNpc,
	"transform":   addTransform,
	"model":       addModel,
	"camera":      addCamera,
	"cutscene":    addCutscene,
	"frame_clock": addFrameClock,
}

var componentBuildOrder = []string{
	"player_tag",
	"npc_tag",
	"camera_tag",
	"input",
	"transform",
	"player",
	"locomotion",
	"idle_bob",
	"npc",
	"model",
	"camera",
	"cutscene",
	"frame_clock",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	unknown := make([]string, 0)
	for name := range spec.Components {
		if _, ok := componentRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return 0, fmt.Errorf("build entity: %q: no builder for components %v", prefabPath, unknown)
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PrefabSourceComponent.Kind(), &component.PrefabSource{Path: prefabPath}); err != nil {
		return 0, fmt.Errorf("build entity: %q: %w", prefabPath, err)
	}
	ctx := &buildContext{PrefabPath: prefabPath}
	for _, name := range componentBuildOrder {
		raw, ok := spec.Components[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}

	return e, nil
}

// Place moves a freshly built entity, keeping its simulation state and its
// rig in agreement.
func Place(w *ecs.World, e ecs.Entity, pos mgl64.Vec3, yaw *float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		t = &component.Transform{}
	}
	t.Position = pos
	if yaw != nil {
		t.Yaw = *yaw
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), t); err != nil {
		return err
	}

	if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok {
		p.Position = pos
		if yaw != nil {
			p.Yaw = *yaw
			p.VisualYaw = *yaw
		}
	}
	if n, ok := ecs.Get(w, e, component.NpcComponent.Kind()); ok {
		n.Spawn = pos
		n.Position = pos
		if yaw != nil {
			n.Yaw = *yaw
		}
	}
	if c, ok := ecs.Get(w, e, component.CameraComponent.Kind()); ok {
		c.Position = pos
	}
	return nil
}

func vec3(v prefabs.Vec3Spec) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addNpcTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.NpcTagComponent.Kind(), &component.NpcTag{})
}

func addCameraTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: vec3(spec.Position),
		Yaw:      spec.Yaw,
	})
}

type playerSpec = prefabs.PlayerComponentSpec

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[playerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	return ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		Yaw:       spec.Yaw,
		VisualYaw: spec.Yaw,
		OnGround:  true,
	})
}

type locomotionSpec = prefabs.LocomotionComponentSpec

func locomotionFromSpec(spec locomotionSpec) (*component.Locomotion, error) {
	if spec.MoveSpeed <= 0 || spec.TurnSpeed <= 0 {
		return nil, fmt.Errorf("move_speed and turn_speed must be positive")
	}
	if spec.Gravity <= 0 {
		return nil, fmt.Errorf("gravity must be positive")
	}
	if spec.VisualDamp == 0 {
		spec.VisualDamp = 18
	}
	if spec.MoveEpsilon == 0 {
		spec.MoveEpsilon = 1e-7
	}
	if spec.MovingThreshold == 0 {
		spec.MovingThreshold = 0.02
	}
	return &component.Locomotion{
		MoveSpeed:       spec.MoveSpeed,
		TurnSpeed:       spec.TurnSpeed,
		JumpVelocity:    spec.JumpVelocity,
		Gravity:         spec.Gravity,
		VisualDamp:      spec.VisualDamp,
		MoveEpsilon:     spec.MoveEpsilon,
		MovingThreshold: spec.MovingThreshold,
	}, nil
}

func addLocomotion(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[locomotionSpec](raw)
	if err != nil {
		return fmt.Errorf("decode locomotion spec: %w", err)
	}
	loco, err := locomotionFromSpec(spec)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.LocomotionComponent.Kind(), loco)
}

type idleBobSpec = prefabs.IdleBobComponentSpec

func addIdleBob(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[idleBobSpec](raw)
	if err != nil {
		return fmt.Errorf("decode idle_bob spec: %w", err)
	}
	return ecs.Add(w, e, component.IdleBobComponent.Kind(), &component.IdleBob{
		Frequency:   spec.Frequency,
		Amplitude:   spec.Amplitude,
		WhileMoving: spec.WhileMoving,
	})
}

type npcSpec = prefabs.NpcComponentSpec

func npcRadii(spec npcSpec) (talk, reset float64, err error) {
	if spec.TalkRadius <= 0 {
		return 0, 0, fmt.Errorf("npc: talk_radius must be positive")
	}
	if spec.ResetRadius <= spec.TalkRadius {
		return 0, 0, fmt.Errorf("%w (talk %.2f, reset %.2f)", ErrInvalidRadii, spec.TalkRadius, spec.ResetRadius)
	}
	return spec.TalkRadius, spec.ResetRadius, nil
}

func addNpc(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[npcSpec](raw)
	if err != nil {
		return fmt.Errorf("decode npc spec: %w", err)
	}
	talk, reset, err := npcRadii(spec)
	if err != nil {
		return err
	}
	npc := &component.Npc{TalkRadius: talk, ResetRadius: reset}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		npc.Spawn = t.Position
		npc.Position = t.Position
		npc.Yaw = t.Yaw
	}
	return ecs.Add(w, e, component.NpcComponent.Kind(), npc)
}

type modelSpec = prefabs.ModelComponentSpec

func addModel(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[modelSpec](raw)
	if err != nil {
		return fmt.Errorf("decode model spec: %w", err)
	}
	if spec.Descriptor == "" {
		return fmt.Errorf("model: descriptor is required")
	}
	desc, err := prefabs.LoadModelSpec(spec.Descriptor)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.ModelComponent.Kind(), &component.Model{
		Descriptor: spec.Descriptor,
		Height:     desc.Height,
	})
}

type cameraSpec = prefabs.CameraComponentSpec

func cameraTuning(spec cameraSpec, cam *component.Camera) {
	if spec.FollowDamp == 0 {
		spec.FollowDamp = 8
	}
	if spec.PairDamp == 0 {
		spec.PairDamp = 7
	}
	if spec.FOV == 0 {
		spec.FOV = 52
	}
	if spec.Near == 0 {
		spec.Near = 0.1
	}
	if spec.Far == 0 {
		spec.Far = 120
	}
	cam.FollowOffset = vec3(spec.FollowOffset)
	cam.LookOffset = vec3(spec.LookOffset)
	cam.FollowDamp = spec.FollowDamp
	cam.PairTargetY = spec.PairTargetY
	cam.PairOffset = vec3(spec.PairOffset)
	cam.PairYawOffset = spec.PairYawOffset
	cam.PairDamp = spec.PairDamp
	cam.FOV = spec.FOV
	cam.Near = spec.Near
	cam.Far = spec.Far
}

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[cameraSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}
	cam := &component.Camera{}
	cameraTuning(spec, cam)
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		cam.Position = t.Position
	}
	cam.Target = cam.Position.Add(mgl64.Vec3{0, 0, 1})
	return ecs.Add(w, e, component.CameraComponent.Kind(), cam)
}

type cutsceneSpec = prefabs.CutsceneComponentSpec

func cutsceneTuning(spec cutsceneSpec) component.CutsceneTuning {
	t := component.CutsceneTuning{
		FaceDamp:     spec.FaceDamp,
		SpinTurnDamp: spec.SpinTurnDamp,
		SpinTurnTime: spec.SpinTurnTime,
		SpinSpeed:    spec.SpinSpeed,
		AdvanceDelay: spec.AdvanceDelay,
	}
	if t.FaceDamp == 0 {
		t.FaceDamp = 11
	}
	if t.SpinTurnDamp == 0 {
		t.SpinTurnDamp = 24
	}
	if t.SpinTurnTime == 0 {
		t.SpinTurnTime = 0.55
	}
	if t.SpinSpeed == 0 {
		t.SpinSpeed = 8.6
	}
	if t.AdvanceDelay == 0 {
		t.AdvanceDelay = 0.12
	}
	return t
}

func cutsceneScript(spec cutsceneSpec) ([]component.CutsceneStep, error) {
	steps, err := prefabs.ResolveCutsceneSteps(spec)
	if err != nil {
		return nil, err
	}
	script := make([]component.CutsceneStep, len(steps))
	for i, s := range steps {
		script[i] = component.CutsceneStep{Speaker: s.Speaker, Text: s.Text, Spin: s.Spin}
	}
	return script, nil
}

func addCutscene(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[cutsceneSpec](raw)
	if err != nil {
		return fmt.Errorf("decode cutscene spec: %w", err)
	}
	script, err := cutsceneScript(spec)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.CutsceneComponent.Kind(), &component.Cutscene{
		Script:    script,
		Tuning:    cutsceneTuning(spec),
		StepIndex: -1,
	})
}

type frameClockSpec = prefabs.FrameClockComponentSpec

func addFrameClock(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[frameClockSpec](raw)
	if err != nil {
		return fmt.Errorf("decode frame_clock spec: %w", err)
	}
	if spec.MaxDt <= 0 {
		spec.MaxDt = 0.05
	}
	return ecs.Add(w, e, component.FrameClockComponent.Kind(), &component.FrameClock{MaxDt: spec.MaxDt})
}
