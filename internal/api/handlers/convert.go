package handlers

import (
	"fmt"

	"github.com/brianmickel/adequacy/internal/api/models"
	"github.com/brianmickel/adequacy/internal/tsarray"
	"github.com/brianmickel/adequacy/internal/units"
)

func toSeries(r *models.SeriesRequest) (tsarray.Series, error) {
	if r == nil {
		return tsarray.Series{}, fmt.Errorf("missing series")
	}
	return tsarray.NewSeries(r.Time, r.Value)
}

func toUnit(r models.UnitRequest) (units.Unit, error) {
	switch r.Kind {
	case "demand":
		s, err := toSeries(r.HourlyDemand)
		if err != nil {
			return units.Unit{}, fmt.Errorf("unit %d: %w", r.ID, err)
		}
		return units.NewDemandUnit(r.ID, s)
	case "static":
		s, err := toSeries(r.HourlyCapacity)
		if err != nil {
			return units.Unit{}, fmt.Errorf("unit %d: %w", r.ID, err)
		}
		return units.NewStaticUnit(r.ID, r.NameplateCapacity, s)
	case "stochastic":
		cap, err := toSeries(r.HourlyCapacity)
		if err != nil {
			return units.Unit{}, fmt.Errorf("unit %d: %w", r.ID, err)
		}
		rate, err := toSeries(r.HourlyForcedOutageRate)
		if err != nil {
			return units.Unit{}, fmt.Errorf("unit %d: %w", r.ID, err)
		}
		return units.NewStochasticUnit(r.ID, r.NameplateCapacity, cap, rate)
	case "storage":
		return units.NewStorageUnit(r.ID, r.NameplateCapacity, r.ChargeRateMW, r.DischargeRateMW, r.ChargeCapacityMWh, r.RoundTripEfficiency)
	default:
		return units.Unit{}, fmt.Errorf("unit %d: unknown kind %q", r.ID, r.Kind)
	}
}
