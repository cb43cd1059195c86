package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is the pose the renderer draws a character rig at. Simulation
// state lives on Player and Npc; the pose system copies it here every frame.
type Transform struct {
	Position mgl64.Vec3
	Yaw      float64
	// Bob is the vertical idle offset applied to the model on top of Position.
	Bob float64
}

var TransformComponent = NewComponent[Transform]()
