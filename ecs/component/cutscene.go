package component

// CutsceneStep is one line of the cutscene script. Spin marks the finale.
type CutsceneStep struct {
	Speaker string
	Text    string
	Spin    bool
}

// CutsceneTuning controls how the actors move while the cutscene plays.
type CutsceneTuning struct {
	FaceDamp     float64
	SpinTurnDamp float64
	SpinTurnTime float64
	SpinSpeed    float64
	// AdvanceDelay is how long a line must be shown before it can be skipped.
	AdvanceDelay float64
}

// Cutscene is the director's script and runtime state. StepIndex is -1
// before the first line is shown.
type Cutscene struct {
	Script []CutsceneStep
	Tuning CutsceneTuning

	Active           bool
	Done             bool
	StepIndex        int
	StepElapsed      float64
	AdvanceRequested bool

	Spinning          bool
	SpinElapsed       float64
	SpinBasePlayerYaw float64
	SpinBaseNpcYaw    float64
}

// CurrentStep returns the line being shown, if any.
func (c *Cutscene) CurrentStep() (CutsceneStep, bool) {
	if c == nil || c.StepIndex < 0 || c.StepIndex >= len(c.Script) {
		return CutsceneStep{}, false
	}
	return c.Script[c.StepIndex], true
}

var CutsceneComponent = NewComponent[Cutscene]()
