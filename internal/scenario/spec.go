// Package scenario describes squads and their behaviour trees in YAML files
// and instantiates them into a simulation world.
package scenario

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"squad-formation-sim/internal/common"
)

var (
	// ErrUnknownKind is returned for behaviour or condition nodes whose kind
	// has no builder.
	ErrUnknownKind = errors.New("unknown kind")
	// ErrInvalidScenario is returned for structurally wrong scenario files.
	ErrInvalidScenario = errors.New("invalid scenario")
)

// File is a whole scenario: the play area and the squads in it.
type File struct {
	Name   string  `yaml:"name"`
	Area   Area    `yaml:"area"`
	Squads []Squad `yaml:"squads"`
}

// Area is the rectangle behaviours lay their paths out in.
type Area struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Rect converts the area for the behaviour library.
func (a Area) Rect() common.Rect {
	return common.NewRect(a.X, a.Y, a.Width, a.Height)
}

// Squad describes one squad. Members are spawned at their formation slots
// around Spawn unless Positions lists them explicitly.
type Squad struct {
	Name      string       `yaml:"name"`
	Formation string       `yaml:"formation"`
	Scale     float64      `yaml:"scale"`
	Spawn     Point        `yaml:"spawn"`
	Members   int          `yaml:"members"`
	Positions []Point      `yaml:"positions"`
	Entity    EntityParams `yaml:"entity"`
	Leader    EntityParams `yaml:"leader"`
	Behaviour *Node        `yaml:"behaviour"`
}

// EntityParams overrides the tuning defaults of the members it applies to.
// Zero keeps the default. Squad.Leader is applied to the first member on
// top of Squad.Entity.
type EntityParams struct {
	MaxSpeed float64 `yaml:"max_speed"`
	MaxForce float64 `yaml:"max_force"`
	Mass     float64 `yaml:"mass"`
}

// Node is a behaviour tree node. Kind selects the builder; the other fields
// are its parameters and only the ones the kind uses are read.
type Node struct {
	Kind     string  `yaml:"kind"`
	Until    *Cond   `yaml:"until"`
	Children []*Node `yaml:"children"`
	Body     *Node   `yaml:"body"`
	Times    int     `yaml:"times"`
	Delay    float64 `yaml:"delay"`

	Chain         bool    `yaml:"chain"`
	Points        []Point `yaml:"points"`
	Target        Point   `yaml:"target"`
	NumPoints     int     `yaml:"num_points"`
	Swizzle       bool    `yaml:"swizzle"`
	LeftSide      bool    `yaml:"left_side"`
	Randomize     bool    `yaml:"randomize"`
	LeafsInQuad   int     `yaml:"leafs_in_quad"`
	Iterations    int     `yaml:"iterations"`
	StartingAngle float64 `yaml:"starting_angle"`
	Spirals       int     `yaml:"spirals"`
	XMid          float64 `yaml:"x_mid"`
	Margin        float64 `yaml:"margin"`
}

// Cond is a condition node.
type Cond struct {
	Kind     string  `yaml:"kind"`
	Duration float64 `yaml:"duration"`
	Left     *Cond   `yaml:"left"`
	Right    *Cond   `yaml:"right"`
	Point    Point   `yaml:"point"`
	YPercent float64 `yaml:"y_percent"`
	Fraction float64 `yaml:"fraction"`
	Count    int     `yaml:"count"`
}

// Point is written either as [x, y] or as {x: .., y: ..}.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Vector converts the point.
func (p Point) Vector() common.Vector {
	return common.NewVector(p.X, p.Y)
}

func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var xy []float64
		if err := value.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("%w: line %d: point needs 2 coordinates, got %d", ErrInvalidScenario, value.Line, len(xy))
		}
		p.X, p.Y = xy[0], xy[1]
		return nil
	}
	type plain Point
	return value.Decode((*plain)(p))
}

// Parse decodes a scenario. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("scenario: decode: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads a scenario from disk, falling back to the builtin scenarios
// for bare names such as "showcase.yaml".
func Load(filename string) (*File, error) {
	data, err := read(filename)
	if err != nil {
		return nil, fmt.Errorf("scenario: load %s: %w", filename, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario: %s: %w", filename, err)
	}
	return f, nil
}

// Validate checks what the decoder cannot.
func (f *File) Validate() error {
	if f.Area.Width <= 0 || f.Area.Height <= 0 {
		return fmt.Errorf("%w: area must have a positive size, got %vx%v", ErrInvalidScenario, f.Area.Width, f.Area.Height)
	}
	if len(f.Squads) == 0 {
		return fmt.Errorf("%w: no squads", ErrInvalidScenario)
	}
	for i, s := range f.Squads {
		if s.Name == "" {
			return fmt.Errorf("%w: squad %d has no name", ErrInvalidScenario, i)
		}
		if s.Members < 0 {
			return fmt.Errorf("%w: squad %s: negative member count", ErrInvalidScenario, s.Name)
		}
	}
	return nil
}
