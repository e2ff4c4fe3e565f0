// Package behavior runs Tengo scripts that drive a sprite's per-frame transform.
package behavior

import (
	"context"
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/touchquad/scene"
)

var ErrBadOutput = errors.New("behavior: script output must be a number")

// Inputs are published to the script as globals before every run.
type Inputs struct {
	UptimeMS   int64
	Frame      int64
	TouchX     float32
	TouchY     float32
	TouchAngle float32
}

// Outputs are read back from the script's globals after every run.
type Outputs struct {
	Angle float32
	Scale float32
}

// Runtime holds one compiled script. Globals persist between runs so a
// script may accumulate state in its outputs.
type Runtime struct {
	name     string
	compiled *tengo.Compiled
}

// Load compiles a script from the scene script directory.
func Load(name string) (*Runtime, error) {
	src, err := scene.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("behavior: load %s: %w", name, err)
	}
	return Compile(name, src)
}

func Compile(name string, src []byte) (*Runtime, error) {
	script := tengo.NewScript(src)
	_ = script.Add("uptime_ms", 0)
	_ = script.Add("frame", 0)
	_ = script.Add("touch_x", 0.0)
	_ = script.Add("touch_y", 0.0)
	_ = script.Add("touch_angle", 0.0)
	_ = script.Add("angle", 0.0)
	_ = script.Add("scale", 1.0)

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("behavior: compile %s: %w", name, err)
	}
	return &Runtime{name: name, compiled: compiled}, nil
}

func (r *Runtime) Name() string {
	return r.name
}

func (r *Runtime) Run(ctx context.Context, in Inputs) (Outputs, error) {
	inputs := map[string]any{
		"uptime_ms":   in.UptimeMS,
		"frame":       in.Frame,
		"touch_x":     float64(in.TouchX),
		"touch_y":     float64(in.TouchY),
		"touch_angle": float64(in.TouchAngle),
	}
	for k, v := range inputs {
		if err := r.compiled.Set(k, v); err != nil {
			return Outputs{}, fmt.Errorf("behavior: %s: set %s: %w", r.name, k, err)
		}
	}

	if err := r.compiled.RunContext(ctx); err != nil {
		return Outputs{}, fmt.Errorf("behavior: %s: run: %w", r.name, err)
	}

	angle, err := r.number("angle")
	if err != nil {
		return Outputs{}, err
	}
	scale, err := r.number("scale")
	if err != nil {
		return Outputs{}, err
	}
	return Outputs{Angle: float32(angle), Scale: float32(scale)}, nil
}

func (r *Runtime) number(name string) (float64, error) {
	v := r.compiled.Get(name)
	switch v.ValueType() {
	case "int", "float":
		return v.Float(), nil
	default:
		return 0, fmt.Errorf("%w: %s.%s is %s", ErrBadOutput, r.name, name, v.ValueType())
	}
}
