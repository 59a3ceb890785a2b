package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brianmickel/adequacy/internal/energysystem"
	"github.com/brianmickel/adequacy/internal/tsarray"
	"github.com/brianmickel/adequacy/internal/units"
)

// unitFile is the on-disk YAML shape accepted by `system build` and
// `elcc --additional`: a flat list of units, each carrying only the fields
// relevant to its own kind.
type unitFile struct {
	Units []unitSpec `yaml:"units"`
}

type seriesSpec struct {
	Time  []time.Time `yaml:"time"`
	Value []float64   `yaml:"value"`
}

type unitSpec struct {
	ID   int    `yaml:"id"`
	Kind string `yaml:"kind"`

	NameplateCapacity float64 `yaml:"nameplate_capacity_mw,omitempty"`

	HourlyDemand           *seriesSpec `yaml:"hourly_demand,omitempty"`
	HourlyCapacity         *seriesSpec `yaml:"hourly_capacity,omitempty"`
	HourlyForcedOutageRate *seriesSpec `yaml:"hourly_forced_outage_rate,omitempty"`

	ChargeRateMW        float64 `yaml:"charge_rate_mw,omitempty"`
	DischargeRateMW     float64 `yaml:"discharge_rate_mw,omitempty"`
	ChargeCapacityMWh   float64 `yaml:"charge_capacity_mwh,omitempty"`
	RoundTripEfficiency float64 `yaml:"round_trip_efficiency,omitempty"`
}

func buildSystemFromFile(path string) (energysystem.System, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return energysystem.System{}, fmt.Errorf("read units file %s: %w", path, err)
	}
	var uf unitFile
	if err := yaml.Unmarshal(raw, &uf); err != nil {
		return energysystem.System{}, fmt.Errorf("parse units file %s: %w", path, err)
	}

	b := energysystem.NewBuilder()
	for _, spec := range uf.Units {
		u, err := toUnit(spec)
		if err != nil {
			return energysystem.System{}, err
		}
		if err := b.AddUnit(u); err != nil {
			return energysystem.System{}, err
		}
	}
	return b.Build(), nil
}

func toSeries(s *seriesSpec, field string, id int) (tsarray.Series, error) {
	if s == nil {
		return tsarray.Series{}, fmt.Errorf("unit %d: missing %s series", id, field)
	}
	return tsarray.NewSeries(s.Time, s.Value)
}

func toUnit(spec unitSpec) (units.Unit, error) {
	switch spec.Kind {
	case "demand":
		s, err := toSeries(spec.HourlyDemand, "hourly_demand", spec.ID)
		if err != nil {
			return units.Unit{}, err
		}
		return units.NewDemandUnit(spec.ID, s)
	case "static":
		s, err := toSeries(spec.HourlyCapacity, "hourly_capacity", spec.ID)
		if err != nil {
			return units.Unit{}, err
		}
		return units.NewStaticUnit(spec.ID, spec.NameplateCapacity, s)
	case "stochastic":
		cap, err := toSeries(spec.HourlyCapacity, "hourly_capacity", spec.ID)
		if err != nil {
			return units.Unit{}, err
		}
		rate, err := toSeries(spec.HourlyForcedOutageRate, "hourly_forced_outage_rate", spec.ID)
		if err != nil {
			return units.Unit{}, err
		}
		return units.NewStochasticUnit(spec.ID, spec.NameplateCapacity, cap, rate)
	case "storage":
		return units.NewStorageUnit(spec.ID, spec.NameplateCapacity, spec.ChargeRateMW, spec.DischargeRateMW, spec.ChargeCapacityMWh, spec.RoundTripEfficiency)
	default:
		return units.Unit{}, fmt.Errorf("unit %d: unknown kind %q", spec.ID, spec.Kind)
	}
}
