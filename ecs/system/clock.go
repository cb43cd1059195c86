package system

import (
	"time"

	"github.com/milk9111/vignette/ecs"
	"github.com/milk9111/vignette/ecs/component"
)

// ClockSystem advances the frame clock from wall time. The first frame has
// a zero step; long stalls are clamped to MaxDt.
type ClockSystem struct {
	now func() time.Time
}

func NewClockSystem() *ClockSystem {
	return &ClockSystem{now: time.Now}
}

func (s *ClockSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.FrameClockComponent.Kind(), func(_ ecs.Entity, clock *component.FrameClock) {
		now := s.now()
		dt := 0.0
		if !clock.Last.IsZero() {
			dt = now.Sub(clock.Last).Seconds()
		}
		clock.Last = now
		if dt < 0 {
			dt = 0
		}
		if clock.MaxDt > 0 && dt > clock.MaxDt {
			dt = clock.MaxDt
		}
		clock.Dt = dt
		clock.Elapsed += dt
		clock.Frame++
	})
}
