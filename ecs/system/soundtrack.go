package system

import (
	"github.com/milk9111/vignette/ecs"
	"github.com/milk9111/vignette/ecs/component"
)

// Music is the part of the soundtrack manager the frame loop drives.
type Music interface {
	Interact()
	Update()
}

// SoundtrackSystem forwards user interaction to the soundtrack, which may
// only start audio after one, and pumps its pending loads.
type SoundtrackSystem struct {
	music Music
}

func NewSoundtrackSystem(music Music) *SoundtrackSystem {
	return &SoundtrackSystem{music: music}
}

func (s *SoundtrackSystem) Update(w *ecs.World) {
	if w == nil || s.music == nil {
		return
	}
	interacted := false
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, in *component.Input) {
		interacted = interacted || in.Interacted
	})
	if interacted {
		s.music.Interact()
	}
	s.music.Update()
}
