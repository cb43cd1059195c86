package system

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/vignette/common"
	"github.com/milk9111/vignette/ecs"
	"github.com/milk9111/vignette/ecs/component"
)

// LocomotionSystem drives the player on the ground plane. It does nothing
// while a cutscene is active; the director owns the player then.
type LocomotionSystem struct{}

func NewLocomotionSystem() *LocomotionSystem {
	return &LocomotionSystem{}
}

func (s *LocomotionSystem) Update(w *ecs.World) {
	if w == nil || cutsceneActive(w) {
		return
	}

	dt, _ := frameTime(w)
	bound := halfExtent(w)

	ecs.ForEach3(w, component.PlayerComponent.Kind(), component.LocomotionComponent.Kind(), component.InputComponent.Kind(),
		func(_ ecs.Entity, p *component.Player, loco *component.Locomotion, in *component.Input) {
			if in.JumpPressed {
				p.JumpQueued = true
			}
			Move(p, loco, in.Forward, in.Turn, bound, dt)
			IntegrateVertical(p, loco, dt, true)
		})
}

// Move turns and walks the player for one step and keeps it inside
// [-bound, bound] on x and z. The model turns toward the actual
// displacement, so walking into a wall does not spin it.
func Move(p *component.Player, loco *component.Locomotion, forward, turn, bound, dt float64) {
	p.Forward = forward
	p.Moving = math.Abs(forward) > loco.MovingThreshold

	p.Yaw -= turn * loco.TurnSpeed * dt
	dist := forward * loco.MoveSpeed * dt

	prev := common.Planar(p.Position)
	next := prev.Add(cp.Vector{X: math.Sin(p.Yaw) * dist, Y: math.Cos(p.Yaw) * dist})
	next.X = cp.Clamp(next.X, -bound, bound)
	next.Y = cp.Clamp(next.Y, -bound, bound)
	p.Position[0] = next.X
	p.Position[2] = next.Y

	moved := next.Sub(prev)
	if moved.LengthSq() > loco.MoveEpsilon {
		target := math.Atan2(-moved.X, -moved.Y)
		p.VisualYaw = common.DampAngle(p.VisualYaw, target, loco.VisualDamp, dt)
	}
}

// IntegrateVertical applies a queued jump when allowed and grounded, then
// gravity. The jump queue never outlives the step.
func IntegrateVertical(p *component.Player, loco *component.Locomotion, dt float64, allowJump bool) {
	if allowJump && p.JumpQueued && p.OnGround {
		p.VerticalVelocity = loco.JumpVelocity
		p.OnGround = false
	}
	p.JumpQueued = false

	p.VerticalVelocity -= loco.Gravity * dt
	p.Position[1] += p.VerticalVelocity * dt

	if p.Position[1] <= 0 {
		p.Position[1] = 0
		p.VerticalVelocity = 0
		p.OnGround = true
	}
}
