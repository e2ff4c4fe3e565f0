package touch

// ScaleFactor converts a drag distance in pixels into degrees of rotation.
const ScaleFactor float32 = 180.0 / 320

// Tracker turns press, move and release events into State updates.
type Tracker struct {
	state  *State
	width  float32
	height float32

	down  bool
	prevX float32
	prevY float32
}

func NewTracker(state *State) *Tracker {
	return &Tracker{state: state}
}

func (t *Tracker) State() *State {
	return t.state
}

// SetSurface records the surface size used to pick rotation direction.
func (t *Tracker) SetSurface(width, height int) {
	t.width = float32(width)
	t.height = float32(height)
}

// Down reports whether a pointer is currently pressed.
func (t *Tracker) Down() bool {
	return t.down
}

func (t *Tracker) Press(x, y float32) {
	t.down = true
	t.prevX, t.prevY = x, y
	t.state.SetPosition(x, y)
	t.state.SetDelta(0, 0)
}

// Move updates the position and spins the angle by the drag distance.
// Moves without a preceding Press are treated as a press.
func (t *Tracker) Move(x, y float32) {
	if !t.down {
		t.Press(x, y)
		return
	}
	if x == t.prevX && y == t.prevY {
		return
	}

	dx := x - t.prevX
	dy := y - t.prevY
	t.state.SetDelta(dx, dy)

	// reverse direction of rotation above the mid-line
	if y > t.height/2 {
		dx = -dx
	}
	// reverse direction of rotation to left of the mid-line
	if x < t.width/2 {
		dy = -dy
	}

	t.state.SetAngle(t.state.Angle() + (dx+dy)*ScaleFactor)
	t.state.SetPosition(x, y)
	t.prevX, t.prevY = x, y
}

func (t *Tracker) Release() {
	t.down = false
	t.state.SetDelta(0, 0)
}
