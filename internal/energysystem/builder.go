// Package energysystem implements the immutable EnergySystem collection and
// its mutable Builder, per spec §3 and §4.4.
package energysystem

import (
	"fmt"
	"sort"

	"github.com/brianmickel/adequacy/internal/engineerr"
	"github.com/brianmickel/adequacy/internal/units"
)

// Builder is a mutable accumulator of units keyed by id.
type Builder struct {
	order []int
	byID  map[int]units.Unit
}

func NewBuilder() *Builder {
	return &Builder{byID: make(map[int]units.Unit)}
}

// AddUnit registers a unit. Fails with engineerr.ErrDuplicateID if the id
// is already present; the builder is left unmutated on error.
func (b *Builder) AddUnit(u units.Unit) error {
	if _, exists := b.byID[u.ID]; exists {
		return fmt.Errorf("add unit %d: %w", u.ID, engineerr.ErrDuplicateID)
	}
	b.byID[u.ID] = u
	b.order = append(b.order, u.ID)
	return nil
}

// RemoveUnit deregisters a unit. Fails with engineerr.ErrUnknownID if the
// id is not present; the builder is left unmutated on error.
func (b *Builder) RemoveUnit(id int) error {
	if _, exists := b.byID[id]; !exists {
		return fmt.Errorf("remove unit %d: %w", id, engineerr.ErrUnknownID)
	}
	delete(b.byID, id)
	for i, existing := range b.order {
		if existing == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return nil
}

func (b *Builder) Size() int { return len(b.order) }

// Build snapshots the builder's current units into an immutable System.
// The builder may continue to be mutated independently afterwards. Units
// are ordered by ascending id, not insertion order: several operations
// (storage dispatch, persistence, cache keys) depend on a stable, spec-
// defined order rather than the order callers happened to add units in.
func (b *Builder) Build() System {
	order := make([]int, len(b.order))
	copy(order, b.order)
	sort.Ints(order)
	byID := make(map[int]units.Unit, len(b.byID))
	for id, u := range b.byID {
		byID[id] = u
	}
	return System{order: order, byID: byID}
}
