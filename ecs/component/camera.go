package component

import "github.com/go-gl/mathgl/mgl64"

// Camera is the single perspective camera. Position is damped toward the
// framing the camera system computes; Target is applied without smoothing.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3

	FollowOffset mgl64.Vec3
	LookOffset   mgl64.Vec3
	FollowDamp   float64

	// Pair framing keeps both actors in view during the cutscene.
	PairTargetY   float64
	PairOffset    mgl64.Vec3
	PairYawOffset float64
	PairDamp      float64

	FOV  float64 // degrees, vertical
	Near float64
	Far  float64
}

var worldUp = mgl64.Vec3{0, 1, 0}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, worldUp)
}

// Projection returns the perspective matrix for the given aspect ratio.
func (c *Camera) Projection(aspect float64) mgl64.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

var CameraComponent = NewComponent[Camera]()
