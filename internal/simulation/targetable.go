package simulation

import (
	"fmt"
	"sync/atomic"

	"squad-formation-sim/internal/common"
)

// ID identifies a Targetable for equality checks and debug output.
type ID uint64

func (id ID) String() string {
	return fmt.Sprintf("e%d", uint64(id))
}

var lastID atomic.Uint64

// nextID hands out identities in creation order. Identities are never reused.
func nextID() ID {
	return ID(lastID.Add(1))
}

// Targetable is anything an entity can steer toward.
type Targetable interface {
	// GetID returns the stable identity assigned at creation.
	GetID() ID
	// GetPosition returns the current position.
	GetPosition() common.Vector
	// GetPrevPosition returns the position before the last integration step.
	GetPrevPosition() common.Vector
	// GetVelocity returns the current velocity.
	GetVelocity() common.Vector
	// GetRotation returns the facing angle in radians.
	GetRotation() float64
}
