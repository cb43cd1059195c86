package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/vignette/ecs"
	"github.com/milk9111/vignette/ecs/component"
)

// InputSystem polls keyboard, pointer, and the first gamepad into every
// Input component.
type InputSystem struct {
	keys []ebiten.Key
}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

// axis is the primary key pair, falling back to the alternate pair when the
// primary pair is neutral.
func axis(pos, neg, altPos, altNeg bool) float64 {
	if v := keyAxis(pos, neg); v != 0 {
		return v
	}
	return keyAxis(altPos, altNeg)
}

func keyAxis(pos, neg bool) float64 {
	v := 0.0
	if pos {
		v++
	}
	if neg {
		v--
	}
	return v
}

func (s *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	const stickDeadzone = 0.2

	forward := axis(
		ebiten.IsKeyPressed(ebiten.KeyW), ebiten.IsKeyPressed(ebiten.KeyS),
		ebiten.IsKeyPressed(ebiten.KeyArrowUp), ebiten.IsKeyPressed(ebiten.KeyArrowDown),
	)
	turn := axis(
		ebiten.IsKeyPressed(ebiten.KeyD), ebiten.IsKeyPressed(ebiten.KeyA),
		ebiten.IsKeyPressed(ebiten.KeyArrowRight), ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
	)
	jumpPressed := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	pointerPressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		len(inpututil.AppendJustPressedTouchIDs(nil)) > 0
	confirmPressed := inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
		inpututil.IsKeyJustPressed(ebiten.KeyE) ||
		pointerPressed
	copyPose := inpututil.IsKeyJustPressed(ebiten.KeyF2)

	s.keys = inpututil.AppendJustPressedKeys(s.keys[:0])
	interacted := len(s.keys) > 0 || pointerPressed

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if forward == 0 && math.Abs(ly) > stickDeadzone {
			forward = -ly
		}
		if turn == 0 && math.Abs(lx) > stickDeadzone {
			turn = lx
		}

		padJump := inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		padConfirm := inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightRight)
		jumpPressed = jumpPressed || padJump
		confirmPressed = confirmPressed || padConfirm
		interacted = interacted || padJump || padConfirm
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, input *component.Input) {
		input.Forward = forward
		input.Turn = turn
		input.JumpPressed = jumpPressed
		input.ConfirmPressed = confirmPressed
		input.Interacted = interacted
		input.CopyPosePressed = copyPose
	})
}
