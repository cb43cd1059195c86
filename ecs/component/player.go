package component

import "github.com/go-gl/mathgl/mgl64"

// Player is the controllable character's simulation state.
//
// Yaw is the movement heading; VisualYaw is where the model faces and lags
// behind the actual displacement. After vertical integration OnGround holds
// exactly when Position.Y and VerticalVelocity are both zero.
type Player struct {
	Position         mgl64.Vec3
	Yaw              float64
	VisualYaw        float64
	VerticalVelocity float64
	OnGround         bool
	JumpQueued       bool
	Forward          float64
	Moving           bool
}

var PlayerComponent = NewComponent[Player]()
