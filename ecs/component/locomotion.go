package component

// Locomotion holds the player's movement tuning.
type Locomotion struct {
	MoveSpeed    float64
	TurnSpeed    float64
	JumpVelocity float64
	Gravity      float64
	// VisualDamp is the sharpness used to turn the model toward its motion.
	VisualDamp float64
	// MoveEpsilon is the squared displacement below which the model keeps
	// its facing.
	MoveEpsilon float64
	// MovingThreshold is the |forward| above which the player counts as moving.
	MovingThreshold float64
}

var LocomotionComponent = NewComponent[Locomotion]()
