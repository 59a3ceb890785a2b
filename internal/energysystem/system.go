package energysystem

import "github.com/brianmickel/adequacy/internal/units"

// System is an immutable, ordered collection of units keyed by id.
type System struct {
	order []int
	byID  map[int]units.Unit
}

// Empty returns a System with no units, useful as the "additional_system"
// zero value in ELCC evaluations.
func Empty() System {
	return System{byID: map[int]units.Unit{}}
}

func (s System) Size() int { return len(s.order) }

// Units returns the units in ascending id order (the order Builder.Build
// snapshots them in).
func (s System) Units() []units.Unit {
	out := make([]units.Unit, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Unit looks up a single unit by id.
func (s System) Unit(id int) (units.Unit, bool) {
	u, ok := s.byID[id]
	return u, ok
}

// GetUnitsByKind returns the ordered subset of units of the given kind.
func (s System) GetUnitsByKind(kind units.Kind) []units.Unit {
	out := make([]units.Unit, 0)
	for _, id := range s.order {
		if u := s.byID[id]; u.Kind == kind {
			out = append(out, u)
		}
	}
	return out
}

// SystemCapacity is the sum of nameplate capacities over non-demand units.
func (s System) SystemCapacity() float64 {
	total := 0.0
	for _, id := range s.order {
		u := s.byID[id]
		if u.Kind == units.KindDemand {
			continue
		}
		total += u.Nameplate()
	}
	return total
}

// Merge returns a new System containing the union of this system's units
// and other's. Ids must be disjoint (used e.g. to build the ELCC "base +
// additional" combined system).
func (s System) Merge(other System) (System, error) {
	b := NewBuilder()
	for _, u := range s.Units() {
		if err := b.AddUnit(u); err != nil {
			return System{}, err
		}
	}
	for _, u := range other.Units() {
		if err := b.AddUnit(u); err != nil {
			return System{}, err
		}
	}
	return b.Build(), nil
}
