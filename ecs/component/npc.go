package component

import "github.com/go-gl/mathgl/mgl64"

// Npc is the stationary character that starts the cutscene. ResetRadius is
// always larger than TalkRadius; the builder rejects anything else.
type Npc struct {
	Spawn       mgl64.Vec3
	Position    mgl64.Vec3
	Yaw         float64
	TalkRadius  float64
	ResetRadius float64
	// Faced is set once the NPC has turned toward the player after its model
	// loaded.
	Faced bool
}

var NpcComponent = NewComponent[Npc]()
