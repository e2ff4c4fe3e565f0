package scene

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("scene: invalid spec")

type Spec struct {
	Name         string       `yaml:"name"`
	ClearColor   *YAMLColor   `yaml:"clear_color"`
	DebugOverlay bool         `yaml:"debug_overlay"`
	Camera       CameraSpec   `yaml:"camera"`
	Touch        TouchSpec    `yaml:"touch"`
	Sprites      []SpriteSpec `yaml:"sprites"`
}

type CameraSpec struct {
	Eye    *[3]float32 `yaml:"eye"`
	Center *[3]float32 `yaml:"center"`
	Up     *[3]float32 `yaml:"up"`
	Near   float32     `yaml:"near"`
	Far    float32     `yaml:"far"`
}

type TouchSpec struct {
	StartX *float32 `yaml:"start_x"`
	StartY *float32 `yaml:"start_y"`
}

type SpriteSpec struct {
	Name            string       `yaml:"name"`
	Texture         string       `yaml:"texture"`
	TextureSize     int          `yaml:"texture_size"`
	Size            float32      `yaml:"size"`
	Visible         *bool        `yaml:"visible"`
	FollowTouch     bool         `yaml:"follow_touch"`
	RotateWithTouch bool         `yaml:"rotate_with_touch"`
	Offset          [2]float32   `yaml:"offset"`
	Tint            *YAMLColor   `yaml:"tint"`
	Outline         *OutlineSpec `yaml:"outline"`
	Script          string       `yaml:"script"`
}

type OutlineSpec struct {
	Thickness int        `yaml:"thickness"`
	Color     *YAMLColor `yaml:"color"`
}

// IsVisible treats a missing visible key as true.
func (s SpriteSpec) IsVisible() bool {
	return s.Visible == nil || *s.Visible
}

func LoadSpec(name string) (*Spec, error) {
	data, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", name, err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", name, err)
	}
	return spec, nil
}

// Parse decodes a scene document, fills defaults and validates it.
func Parse(data []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	spec.applyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

func (s *Spec) applyDefaults() {
	if s.ClearColor == nil {
		s.ClearColor = &YAMLColor{Color: color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}}
	}
	if s.Camera.Eye == nil {
		s.Camera.Eye = &[3]float32{0, 0, -3}
	}
	if s.Camera.Center == nil {
		s.Camera.Center = &[3]float32{0, 0, 0}
	}
	if s.Camera.Up == nil {
		s.Camera.Up = &[3]float32{0, 1, 0}
	}
	if s.Camera.Near == 0 {
		s.Camera.Near = 3
	}
	if s.Camera.Far == 0 {
		s.Camera.Far = 7
	}
	if s.Touch.StartX == nil {
		x := float32(500)
		s.Touch.StartX = &x
	}
	if s.Touch.StartY == nil {
		y := float32(500)
		s.Touch.StartY = &y
	}
	for i := range s.Sprites {
		if s.Sprites[i].Size == 0 {
			s.Sprites[i].Size = 0.4
		}
		if o := s.Sprites[i].Outline; o != nil && o.Color == nil {
			o.Color = &YAMLColor{Color: color.Black}
		}
	}
}

func (s *Spec) Validate() error {
	if s.Camera.Near <= 0 || s.Camera.Far <= 0 || s.Camera.Near >= s.Camera.Far {
		return fmt.Errorf("%w: camera clip planes near=%v far=%v", ErrInvalidSpec, s.Camera.Near, s.Camera.Far)
	}
	if *s.Camera.Eye == *s.Camera.Center {
		return fmt.Errorf("%w: camera eye equals center", ErrInvalidSpec)
	}
	// LookAt needs an up vector with a component across the view direction.
	forward := mgl32.Vec3(*s.Camera.Center).Sub(mgl32.Vec3(*s.Camera.Eye))
	if forward.Cross(mgl32.Vec3(*s.Camera.Up)).Len() < 1e-6*forward.Len() {
		return fmt.Errorf("%w: camera up %v is zero or parallel to the view direction", ErrInvalidSpec, *s.Camera.Up)
	}

	seen := make(map[string]bool, len(s.Sprites))
	for i, sp := range s.Sprites {
		if sp.Name == "" {
			return fmt.Errorf("%w: sprite %d has no name", ErrInvalidSpec, i)
		}
		if seen[sp.Name] {
			return fmt.Errorf("%w: duplicate sprite %q", ErrInvalidSpec, sp.Name)
		}
		seen[sp.Name] = true
		if sp.Texture == "" {
			return fmt.Errorf("%w: sprite %q has no texture", ErrInvalidSpec, sp.Name)
		}
		if sp.Size < 0 {
			return fmt.Errorf("%w: sprite %q size %v", ErrInvalidSpec, sp.Name, sp.Size)
		}
		if sp.Outline != nil && sp.Outline.Thickness < 0 {
			return fmt.Errorf("%w: sprite %q outline thickness %d", ErrInvalidSpec, sp.Name, sp.Outline.Thickness)
		}
		if sp.TextureSize < 0 {
			return fmt.Errorf("%w: sprite %q texture_size %d", ErrInvalidSpec, sp.Name, sp.TextureSize)
		}
	}
	return nil
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or an SVG colour name.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(value.Value)]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
