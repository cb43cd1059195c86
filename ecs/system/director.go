package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/milk9111/vignette/common"
	"github.com/milk9111/vignette/ecs"
	"github.com/milk9111/vignette/ecs/component"
)

// DirectorSystem runs the NPC cutscene: the proximity trigger, step
// sequencing, the turn-then-spin finale, and re-arming once the player has
// walked away.
type DirectorSystem struct {
	dialogue DialogueSink
	audio    CutsceneAudio
	log      zerolog.Logger
}

func NewDirectorSystem(dialogue DialogueSink, audio CutsceneAudio, logger zerolog.Logger) *DirectorSystem {
	if dialogue == nil {
		dialogue = nopDialogue{}
	}
	if audio == nil {
		audio = nopAudio{}
	}
	return &DirectorSystem{
		dialogue: dialogue,
		audio:    audio,
		log:      logger.With().Str("system", "director").Logger(),
	}
}

// scene gathers what the director needs for one frame.
type scene struct {
	cs        *component.Cutscene
	player    *component.Player
	loco      *component.Locomotion
	input     *component.Input
	npc       *component.Npc
	cameraPos mgl64.Vec3
	ready     bool
}

func (d *DirectorSystem) scene(w *ecs.World) (scene, bool) {
	var sc scene
	var ok bool
	if _, sc.cs, ok = ecs.FirstWith(w, component.CutsceneComponent.Kind()); !ok {
		return sc, false
	}
	pe, player, ok := ecs.FirstWith(w, component.PlayerComponent.Kind())
	if !ok {
		return sc, false
	}
	ne, npc, ok := ecs.FirstWith(w, component.NpcComponent.Kind())
	if !ok {
		return sc, false
	}
	sc.player = player
	sc.npc = npc
	sc.loco, _ = ecs.Get(w, pe, component.LocomotionComponent.Kind())
	sc.input, _ = ecs.Get(w, pe, component.InputComponent.Kind())
	if _, cam, ok := ecs.FirstWith(w, component.CameraComponent.Kind()); ok {
		sc.cameraPos = cam.Position
	}
	sc.ready = modelReady(w, pe) && modelReady(w, ne)
	return sc, true
}

func (d *DirectorSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	sc, ok := d.scene(w)
	if !ok {
		return
	}
	dt, _ := frameTime(w)

	if sc.cs.Active {
		if sc.input != nil && sc.input.ConfirmPressed {
			sc.cs.AdvanceRequested = true
		}
		d.play(sc, dt)
		return
	}
	d.checkTrigger(sc)
}

// checkTrigger starts the cutscene when the player is within talk range, or
// re-arms a finished cutscene once the player is beyond reset range.
func (d *DirectorSystem) checkTrigger(sc scene) {
	if sc.cs.Active || !sc.ready {
		return
	}
	distSq := common.PlanarDistanceSq(sc.player.Position, sc.npc.Position)

	if sc.cs.Done {
		if distSq >= sc.npc.ResetRadius*sc.npc.ResetRadius {
			sc.cs.Done = false
			d.log.Debug().Msg("cutscene re-armed")
		}
		return
	}

	if distSq <= sc.npc.TalkRadius*sc.npc.TalkRadius {
		d.start(sc)
	}
}

// Start begins the cutscene. It reports false when the cutscene is already
// running, has finished and not re-armed, or an actor model is missing.
func (d *DirectorSystem) Start(w *ecs.World) bool {
	sc, ok := d.scene(w)
	if !ok {
		return false
	}
	return d.start(sc)
}

func (d *DirectorSystem) start(sc scene) bool {
	cs := sc.cs
	if cs.Active || cs.Done || !sc.ready {
		return false
	}
	cs.Active = true
	cs.StepIndex = -1
	cs.StepElapsed = 0
	cs.AdvanceRequested = false
	cs.Spinning = false
	cs.SpinElapsed = 0
	d.log.Info().Int("steps", len(cs.Script)).Msg("cutscene started")
	d.advance(sc)
	return true
}

func (d *DirectorSystem) advance(sc scene) {
	cs := sc.cs
	cs.StepIndex++
	if cs.StepIndex >= len(cs.Script) {
		d.end(cs)
		return
	}

	step := cs.Script[cs.StepIndex]
	cs.StepElapsed = 0
	cs.AdvanceRequested = false
	cs.Spinning = step.Spin
	cs.SpinElapsed = 0
	d.dialogue.SetLine(step.Speaker, step.Text)
	d.dialogue.SetVisible(true)

	if cs.Spinning {
		cs.SpinBasePlayerYaw = common.FaceYaw(sc.player.Position, sc.cameraPos)
		cs.SpinBaseNpcYaw = common.FaceYaw(sc.npc.Position, sc.cameraPos)
		d.audio.StartCutsceneTrack()
	}
}

func (d *DirectorSystem) end(cs *component.Cutscene) {
	cs.Active = false
	cs.Done = true
	cs.Spinning = false
	d.dialogue.SetVisible(false)
	d.audio.StopCutsceneTrack()
	d.log.Info().Msg("cutscene finished")
}

func (d *DirectorSystem) play(sc scene, dt float64) {
	cs := sc.cs
	if !sc.ready {
		return
	}
	tune := cs.Tuning
	p := sc.player
	npc := sc.npc

	if cs.Spinning {
		cs.SpinElapsed += dt
		if cs.SpinElapsed < tune.SpinTurnTime {
			p.VisualYaw = common.DampAngle(p.VisualYaw, cs.SpinBasePlayerYaw, tune.SpinTurnDamp, dt)
			npc.Yaw = common.DampAngle(npc.Yaw, cs.SpinBaseNpcYaw, tune.SpinTurnDamp, dt)
		} else {
			spin := (cs.SpinElapsed - tune.SpinTurnTime) * tune.SpinSpeed
			p.VisualYaw = cs.SpinBasePlayerYaw + spin
			npc.Yaw = cs.SpinBaseNpcYaw + spin
		}
	} else {
		p.VisualYaw = common.DampAngle(p.VisualYaw, common.FaceYaw(p.Position, npc.Position), tune.FaceDamp, dt)
		npc.Yaw = common.DampAngle(npc.Yaw, common.FaceYaw(npc.Position, p.Position), tune.FaceDamp, dt)
	}

	if sc.loco != nil {
		IntegrateVertical(p, sc.loco, dt, false)
	}
	p.Forward = 0
	p.Moving = false

	cs.StepElapsed += dt
	if cs.AdvanceRequested && cs.StepElapsed > tune.AdvanceDelay {
		d.advance(sc)
	}
}
