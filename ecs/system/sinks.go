package system

// DialogueSink shows the cutscene's current line.
type DialogueSink interface {
	SetLine(speaker, text string)
	SetVisible(visible bool)
}

// StatusSink receives short status messages such as model load progress.
type StatusSink interface {
	SetStatus(text string)
}

// CutsceneAudio switches the soundtrack between the ambient loop and the
// cutscene track.
type CutsceneAudio interface {
	StartCutsceneTrack()
	StopCutsceneTrack()
}

type nopDialogue struct{}

func (nopDialogue) SetLine(string, string) {}
func (nopDialogue) SetVisible(bool)        {}

type nopStatus struct{}

func (nopStatus) SetStatus(string) {}

type nopAudio struct{}

func (nopAudio) StartCutsceneTrack() {}
func (nopAudio) StopCutsceneTrack()  {}
