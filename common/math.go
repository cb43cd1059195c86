package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// Lerp blends a toward b by t.
func Lerp(a, b, t float64) float64 {
	return cp.Lerp(a, b, t)
}

// Blend returns the fraction of the remaining distance covered after dt
// seconds of exponential decay with the given sharpness (1/s).
func Blend(sharpness, dt float64) float64 {
	if sharpness <= 0 || dt <= 0 {
		return 0
	}
	return 1 - math.Exp(-sharpness*dt)
}

// Damp moves current toward target by Blend(sharpness, dt).
func Damp(current, target, sharpness, dt float64) float64 {
	return current + (target-current)*Blend(sharpness, dt)
}

// WrapAngle maps a to the half-open interval (-π, π].
func WrapAngle(a float64) float64 {
	w := math.Atan2(math.Sin(a), math.Cos(a))
	if w == -math.Pi {
		return math.Pi
	}
	return w
}

// AngleDelta is the signed shortest-arc difference target-current.
func AngleDelta(current, target float64) float64 {
	return WrapAngle(target - current)
}

// DampAngle is Damp along the shortest arc. The result is not wrapped so
// callers that accumulate yaw keep a continuous value.
func DampAngle(current, target, sharpness, dt float64) float64 {
	return current + AngleDelta(current, target)*Blend(sharpness, dt)
}

// DampVec3 damps every axis of current toward target.
func DampVec3(current, target mgl64.Vec3, sharpness, dt float64) mgl64.Vec3 {
	return current.Add(target.Sub(current).Mul(Blend(sharpness, dt)))
}

// Planar drops the height of v, returning its ground-plane (x, z) pair.
func Planar(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Z()}
}

// PlanarDistanceSq is the squared ground-plane distance between a and b.
func PlanarDistanceSq(a, b mgl64.Vec3) float64 {
	return Planar(a).DistanceSq(Planar(b))
}

// FaceYaw is the rig yaw that turns a model standing at from toward to.
// Rig models look down their local -Z axis.
func FaceYaw(from, to mgl64.Vec3) float64 {
	d := to.Sub(from)
	return math.Atan2(-d.X(), -d.Z())
}

// RotateY rotates v about the world up axis.
func RotateY(v mgl64.Vec3, angle float64) mgl64.Vec3 {
	return mgl64.Rotate3DY(angle).Mul3x1(v)
}
