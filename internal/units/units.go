// Package units implements the four unit kinds and their per-hour
// contribution rules to net system capacity, per spec §3-4.2.
package units

import (
	"fmt"
	"math"

	"github.com/brianmickel/adequacy/internal/engineerr"
	"github.com/brianmickel/adequacy/internal/tsarray"
)

// Kind is the closed set of unit variants.
type Kind int

const (
	KindDemand Kind = iota
	KindStatic
	KindStochastic
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindDemand:
		return "demand"
	case KindStatic:
		return "static"
	case KindStochastic:
		return "stochastic"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Demand attributes: contribution is -hourly_demand[h], deterministic.
type Demand struct {
	HourlyDemand tsarray.Series
}

// Static attributes: contribution is +hourly_capacity[h], deterministic.
type Static struct {
	NameplateCapacity float64
	HourlyCapacity    tsarray.Series
}

// Stochastic attributes: contribution is +hourly_capacity[h] with
// probability (1 - hourly_forced_outage_rate[h]) per (hour, trial).
type Stochastic struct {
	NameplateCapacity      float64
	HourlyCapacity         tsarray.Series
	HourlyForcedOutageRate tsarray.Series
}

// Storage attributes; dispatched statefully per §4.2 against the
// pre-storage net profile.
type Storage struct {
	NameplateCapacity    float64
	ChargeRateMW         float64
	DischargeRateMW      float64
	ChargeCapacityMWh    float64
	RoundTripEfficiency  float64
}

// Unit is a tagged variant over the four kinds, keyed by a non-negative
// integer id unique within one EnergySystem.
type Unit struct {
	ID   int
	Kind Kind

	Demand     *Demand
	Static     *Static
	Stochastic *Stochastic
	Storage    *Storage
}

func NewDemandUnit(id int, hourlyDemand tsarray.Series) (Unit, error) {
	if id < 0 {
		return Unit{}, fmt.Errorf("demand unit: negative id: %w", engineerr.ErrInvalidUnit)
	}
	if err := checkFinite(hourlyDemand); err != nil {
		return Unit{}, fmt.Errorf("demand unit %d: %w", id, err)
	}
	return Unit{ID: id, Kind: KindDemand, Demand: &Demand{HourlyDemand: hourlyDemand}}, nil
}

func NewStaticUnit(id int, nameplateCapacity float64, hourlyCapacity tsarray.Series) (Unit, error) {
	if id < 0 {
		return Unit{}, fmt.Errorf("static unit: negative id: %w", engineerr.ErrInvalidUnit)
	}
	if nameplateCapacity < 0 {
		return Unit{}, fmt.Errorf("static unit %d: negative nameplate capacity: %w", id, engineerr.ErrInvalidUnit)
	}
	if err := checkFinite(hourlyCapacity); err != nil {
		return Unit{}, fmt.Errorf("static unit %d: %w", id, err)
	}
	return Unit{ID: id, Kind: KindStatic, Static: &Static{NameplateCapacity: nameplateCapacity, HourlyCapacity: hourlyCapacity}}, nil
}

func NewStochasticUnit(id int, nameplateCapacity float64, hourlyCapacity, hourlyForcedOutageRate tsarray.Series) (Unit, error) {
	if id < 0 {
		return Unit{}, fmt.Errorf("stochastic unit: negative id: %w", engineerr.ErrInvalidUnit)
	}
	if nameplateCapacity < 0 {
		return Unit{}, fmt.Errorf("stochastic unit %d: negative nameplate capacity: %w", id, engineerr.ErrInvalidUnit)
	}
	if err := checkFinite(hourlyCapacity); err != nil {
		return Unit{}, fmt.Errorf("stochastic unit %d: %w", id, err)
	}
	if err := checkFinite(hourlyForcedOutageRate); err != nil {
		return Unit{}, fmt.Errorf("stochastic unit %d: %w", id, err)
	}
	for i := 0; i < hourlyForcedOutageRate.Len(); i++ {
		r := hourlyForcedOutageRate.ValueAt(i)
		if r < 0 || r > 1 {
			return Unit{}, fmt.Errorf("stochastic unit %d: forced outage rate %.4f outside [0,1]: %w", id, r, engineerr.ErrInvalidUnit)
		}
	}
	return Unit{ID: id, Kind: KindStochastic, Stochastic: &Stochastic{
		NameplateCapacity:      nameplateCapacity,
		HourlyCapacity:         hourlyCapacity,
		HourlyForcedOutageRate: hourlyForcedOutageRate,
	}}, nil
}

func NewStorageUnit(id int, nameplateCapacity, chargeRateMW, dischargeRateMW, chargeCapacityMWh, roundTripEfficiency float64) (Unit, error) {
	if id < 0 {
		return Unit{}, fmt.Errorf("storage unit: negative id: %w", engineerr.ErrInvalidUnit)
	}
	if err := checkFiniteScalars(id, nameplateCapacity, chargeRateMW, dischargeRateMW, chargeCapacityMWh, roundTripEfficiency); err != nil {
		return Unit{}, err
	}
	if nameplateCapacity < 0 {
		return Unit{}, fmt.Errorf("storage unit %d: negative nameplate capacity: %w", id, engineerr.ErrInvalidUnit)
	}
	if chargeRateMW < 0 || dischargeRateMW < 0 {
		return Unit{}, fmt.Errorf("storage unit %d: negative charge/discharge rate: %w", id, engineerr.ErrInvalidUnit)
	}
	if chargeCapacityMWh < 0 {
		return Unit{}, fmt.Errorf("storage unit %d: negative charge capacity: %w", id, engineerr.ErrInvalidUnit)
	}
	if roundTripEfficiency <= 0 || roundTripEfficiency > 1 {
		return Unit{}, fmt.Errorf("storage unit %d: roundtrip efficiency %.4f outside (0,1]: %w", id, roundTripEfficiency, engineerr.ErrInvalidUnit)
	}
	return Unit{ID: id, Kind: KindStorage, Storage: &Storage{
		NameplateCapacity:   nameplateCapacity,
		ChargeRateMW:        chargeRateMW,
		DischargeRateMW:     dischargeRateMW,
		ChargeCapacityMWh:   chargeCapacityMWh,
		RoundTripEfficiency: roundTripEfficiency,
	}}, nil
}

// Nameplate returns the unit's nameplate capacity: peak hourly demand for a
// DemandUnit, the configured nameplate for the other three kinds.
func (u Unit) Nameplate() float64 {
	switch u.Kind {
	case KindDemand:
		return u.Demand.HourlyDemand.Peak()
	case KindStatic:
		return u.Static.NameplateCapacity
	case KindStochastic:
		return u.Stochastic.NameplateCapacity
	case KindStorage:
		return u.Storage.NameplateCapacity
	default:
		return 0
	}
}

func checkFinite(s tsarray.Series) error {
	for i := 0; i < s.Len(); i++ {
		v := s.ValueAt(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite value at hour %s: %w", s.TimeAt(i), engineerr.ErrInvalidUnit)
		}
	}
	return nil
}

// checkFiniteScalars rejects NaN/Inf storage parameters before they reach
// the comparisons below, since NaN comparisons are always false and would
// otherwise let a NaN slip through silently instead of failing loudly.
func checkFiniteScalars(id int, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("storage unit %d: non-finite parameter: %w", id, engineerr.ErrInvalidUnit)
		}
	}
	return nil
}
