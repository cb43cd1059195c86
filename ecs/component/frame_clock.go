package component

import "time"

// FrameClock is the simulation time step shared by every system.
type FrameClock struct {
	Dt      float64
	Elapsed float64
	MaxDt   float64
	Frame   uint64
	Last    time.Time
}

var FrameClockComponent = NewComponent[FrameClock]()
