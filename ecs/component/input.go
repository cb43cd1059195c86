package component

// Input stores per-frame input state for an entity.
type Input struct {
	// Forward and Turn are in [-1, 1]; positive Turn is to the right.
	Forward float64
	Turn    float64

	JumpPressed    bool
	ConfirmPressed bool
	// Interacted is set on any key or pointer press this frame.
	Interacted      bool
	CopyPosePressed bool
}

var InputComponent = NewComponent[Input]()
