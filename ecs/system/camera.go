package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/vignette/common"
	"github.com/milk9111/vignette/ecs"
	"github.com/milk9111/vignette/ecs/component"
)

// CameraSystem frames the player from behind, or both actors side-on while
// the cutscene is active. Position is damped; the look target is not.
type CameraSystem struct {
	camEntity ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	if !ecs.IsAlive(w, cs.camEntity) {
		e, ok := ecs.First(w, component.CameraComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = e
	}
	cam, ok := ecs.Get(w, cs.camEntity, component.CameraComponent.Kind())
	if !ok {
		return
	}
	_, player, ok := ecs.FirstWith(w, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	dt, _ := frameTime(w)

	if cutsceneActive(w) {
		if _, npc, ok := ecs.FirstWith(w, component.NpcComponent.Kind()); ok {
			PairFrame(cam, player.Position, npc.Position, dt)
			return
		}
	}
	FollowFrame(cam, player.Position, player.Yaw, dt)
}

// FollowFrame places the camera behind the player along its heading.
func FollowFrame(cam *component.Camera, playerPos mgl64.Vec3, yaw, dt float64) {
	target := playerPos.Add(cam.LookOffset)
	desired := target.Add(common.RotateY(cam.FollowOffset, yaw))
	cam.Position = common.DampVec3(cam.Position, desired, cam.FollowDamp, dt)
	cam.Target = target
}

// PairFrame looks at the midpoint of the two actors from the side.
func PairFrame(cam *component.Camera, a, b mgl64.Vec3, dt float64) {
	target := a.Add(b).Mul(0.5)
	target[1] = cam.PairTargetY
	pairYaw := math.Atan2(b.X()-a.X(), b.Z()-a.Z())
	desired := target.Add(common.RotateY(cam.PairOffset, pairYaw+cam.PairYawOffset))
	cam.Position = common.DampVec3(cam.Position, desired, cam.PairDamp, dt)
	cam.Target = target
}
