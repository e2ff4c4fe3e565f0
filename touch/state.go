// Package touch holds pointer state shared between the input and render loops.
package touch

import (
	"math"
	"sync/atomic"
)

const (
	DefaultX float32 = 500
	DefaultY float32 = 500
)

// State is written by the input side and read by the render side. Each field
// is individually atomic; a reader may observe X from one event and Y from
// the next.
type State struct {
	x     atomic.Uint32
	y     atomic.Uint32
	dx    atomic.Uint32
	dy    atomic.Uint32
	angle atomic.Uint32
}

func NewState(x, y float32) *State {
	s := &State{}
	s.SetPosition(x, y)
	return s
}

func (s *State) SetPosition(x, y float32) {
	store(&s.x, x)
	store(&s.y, y)
}

func (s *State) Position() (float32, float32) {
	return load(&s.x), load(&s.y)
}

func (s *State) SetDelta(dx, dy float32) {
	store(&s.dx, dx)
	store(&s.dy, dy)
}

func (s *State) Delta() (float32, float32) {
	return load(&s.dx), load(&s.dy)
}

func (s *State) SetAngle(deg float32) {
	store(&s.angle, deg)
}

func (s *State) Angle() float32 {
	return load(&s.angle)
}

// Snapshot is a point-in-time copy of State.
type Snapshot struct {
	X, Y   float32
	DX, DY float32
	Angle  float32
}

func (s *State) Snapshot() Snapshot {
	x, y := s.Position()
	dx, dy := s.Delta()
	return Snapshot{X: x, Y: y, DX: dx, DY: dy, Angle: s.Angle()}
}

func store(u *atomic.Uint32, v float32) {
	u.Store(math.Float32bits(v))
}

func load(u *atomic.Uint32) float32 {
	return math.Float32frombits(u.Load())
}
