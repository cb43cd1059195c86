package component

// IdleBob bobs a rig up and down by Amplitude*sin(elapsed*Frequency).
// With WhileMoving set the bob only runs while the player is moving.
type IdleBob struct {
	Frequency   float64
	Amplitude   float64
	WhileMoving bool
}

var IdleBobComponent = NewComponent[IdleBob]()
