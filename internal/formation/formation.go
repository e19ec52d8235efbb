// Package formation maps a member's rank within a squad to an offset from
// the rank-0 slot.
package formation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"squad-formation-sim/internal/common"
)

// ErrRankOutOfRange is returned when a rank has no slot in the formation.
var ErrRankOutOfRange = errors.New("formation rank out of range")

// ErrUnknownFormation is returned by ByName for unregistered shapes.
var ErrUnknownFormation = errors.New("unknown formation")

// Slots per formation shape.
const defaultCapacity = 10

// slotSpacing is the gap between adjacent slots of the generated shapes.
const slotSpacing = 30.0

// Formation is a fixed table of slot offsets. Followers trail along -y.
type Formation struct {
	Name  string
	Scale float64

	offsets []common.Vector
}

func newFormation(name string, offsets []common.Vector) *Formation {
	return &Formation{Name: name, Scale: 1, offsets: offsets}
}

// Diamond returns the ten-slot diamond.
func Diamond() *Formation {
	return newFormation("diamond", []common.Vector{
		{X: 0, Y: 0},
		{X: -25, Y: -25},
		{X: 25, Y: -25},
		{X: 0, Y: -50},
		{X: 0, Y: -75},
		{X: 50, Y: -50},
		{X: -50, Y: -50},
		{X: -25, Y: -75},
		{X: 25, Y: -75},
		{X: 0, Y: -100},
	})
}

// Column returns a single file, each member one slot behind the previous.
func Column() *Formation {
	offsets := make([]common.Vector, defaultCapacity)
	for i := range offsets {
		offsets[i] = common.NewVector(0, -slotSpacing*float64(i))
	}
	return newFormation("column", offsets)
}

// ArrowHead returns a wedge with the rank-0 slot at the point.
func ArrowHead() *Formation {
	offsets := make([]common.Vector, defaultCapacity)
	for i := 1; i < len(offsets); i++ {
		step := float64((i + 1) / 2)
		side := step * 25
		if i%2 == 1 {
			side = -side
		}
		offsets[i] = common.NewVector(side, -step*25)
	}
	return newFormation("arrowhead", offsets)
}

// Line returns members side by side, alternating left and right.
func Line() *Formation {
	offsets := make([]common.Vector, defaultCapacity)
	for i := 1; i < len(offsets); i++ {
		side := float64((i+1)/2) * slotSpacing
		if i%2 == 1 {
			side = -side
		}
		offsets[i] = common.NewVector(side, 0)
	}
	return newFormation("line", offsets)
}

var registry = map[string]func() *Formation{
	"diamond":   Diamond,
	"column":    Column,
	"arrowhead": ArrowHead,
	"line":      Line,
}

// ByName builds a fresh formation from its name, case-insensitively.
func ByName(name string) (*Formation, error) {
	ctor, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormation, name)
	}
	return ctor(), nil
}

// Capacity returns the number of slots.
func (f *Formation) Capacity() int {
	return len(f.offsets)
}

// Position returns the scaled offset of the slot at rank.
func (f *Formation) Position(rank int) (common.Vector, error) {
	if rank < 0 || rank >= len(f.offsets) {
		return common.Vector{}, fmt.Errorf("%w: rank %d, capacity %d", ErrRankOutOfRange, rank, len(f.offsets))
	}
	return f.offsets[rank].Mul(f.Scale), nil
}

// WithScale returns a copy of f using scale.
func (f *Formation) WithScale(scale float64) *Formation {
	c := *f
	c.Scale = scale
	return &c
}

func (f *Formation) String() string {
	return fmt.Sprintf("%s(x%.2f, %d slots)", f.Name, f.Scale, len(f.offsets))
}

// Rotate rotates v around the origin by degrees.
func Rotate(v common.Vector, degrees float64) common.Vector {
	return v.Rotate(degrees * math.Pi / 180)
}
