package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/touchquad/touch"
)

// InputSystem polls touches and the mouse and feeds the first active pointer
// into a touch.Tracker. The left mouse button stands in for a finger on
// desktops.
type InputSystem struct {
	tracker *touch.Tracker

	active    ebiten.TouchID
	hasActive bool
	pressed   []ebiten.TouchID
}

func NewInputSystem(tracker *touch.Tracker) *InputSystem {
	return &InputSystem{tracker: tracker}
}

func (i *InputSystem) Update() {
	if i == nil || i.tracker == nil {
		return
	}

	if i.hasActive {
		if inpututil.IsTouchJustReleased(i.active) {
			i.hasActive = false
			i.tracker.Release()
			return
		}
		x, y := ebiten.TouchPosition(i.active)
		i.tracker.Move(float32(x), float32(y))
		return
	}

	i.pressed = inpututil.AppendJustPressedTouchIDs(i.pressed[:0])
	if len(i.pressed) > 0 {
		i.active = i.pressed[0]
		i.hasActive = true
		x, y := ebiten.TouchPosition(i.active)
		i.tracker.Press(float32(x), float32(y))
		return
	}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		x, y := ebiten.CursorPosition()
		i.tracker.Press(float32(x), float32(y))
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		x, y := ebiten.CursorPosition()
		i.tracker.Move(float32(x), float32(y))
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		i.tracker.Release()
	}
}
