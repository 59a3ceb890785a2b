package simulator

import (
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brianmickel/adequacy/internal/energysystem"
	"github.com/brianmickel/adequacy/internal/engineerr"
	"github.com/brianmickel/adequacy/internal/rng"
	"github.com/brianmickel/adequacy/internal/tsarray"
	"github.com/brianmickel/adequacy/internal/units"
)

// applyDeterministic broadcasts DemandUnit (negative) and StaticUnit
// (positive) contributions across every trial column, per §4.1/§4.5 step 2.
func applyDeterministic(ncm tsarray.Matrix, sys energysystem.System, hourAxis []time.Time) error {
	for _, u := range sys.GetUnitsByKind(units.KindDemand) {
		contribution, err := sliceToWindow(u.Demand.HourlyDemand, hourAxis, u.ID)
		if err != nil {
			return err
		}
		for i, v := range contribution {
			contribution[i] = -v
		}
		ncm.AddColumnBroadcast(contribution)
	}
	for _, u := range sys.GetUnitsByKind(units.KindStatic) {
		contribution, err := sliceToWindow(u.Static.HourlyCapacity, hourAxis, u.ID)
		if err != nil {
			return err
		}
		ncm.AddColumnBroadcast(contribution)
	}
	return nil
}

// sampleStochastic draws an availability matrix per StochasticUnit and adds
// its capacity where available, per §4.3/§4.5 step 3. Trial columns are
// partitioned into chunks and sampled concurrently; the result is
// independent of worker count because each (unit, hour, trial) draws from
// its own counter-derived stream.
func sampleStochastic(ncm tsarray.Matrix, sys energysystem.System, hourAxis []time.Time, seed int64) error {
	stochUnits := sys.GetUnitsByKind(units.KindStochastic)
	if len(stochUnits) == 0 || ncm.Trials() == 0 {
		return nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > ncm.Trials() {
		workers = ncm.Trials()
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (ncm.Trials() + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < ncm.Trials(); start += chunk {
		start := start
		end := start + chunk
		if end > ncm.Trials() {
			end = ncm.Trials()
		}
		g.Go(func() error {
			for _, u := range stochUnits {
				capacity, err := sliceToWindow(u.Stochastic.HourlyCapacity, hourAxis, u.ID)
				if err != nil {
					return err
				}
				outage, err := sliceToWindow(u.Stochastic.HourlyForcedOutageRate, hourAxis, u.ID)
				if err != nil {
					return err
				}
				for t := start; t < end; t++ {
					for h := 0; h < ncm.Hours(); h++ {
						stream := rng.StreamFor(seed, u.ID, h, t)
						draw := stream.Float64()
						if draw >= outage[h] {
							ncm.Add(h, t, capacity[h])
						}
					}
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// dispatchStorage folds each StorageUnit's dispatch into the NCM in
// ascending id order, per §4.2/§4.5 step 4: each unit sees the profile as
// updated by units dispatched before it.
func dispatchStorage(ncm tsarray.Matrix, sys energysystem.System) {
	for _, u := range sys.GetUnitsByKind(units.KindStorage) {
		for t := 0; t < ncm.Trials(); t++ {
			net := ncm.Col(t)
			contribution := u.Storage.DispatchColumn(net)
			for h, c := range contribution {
				net[h] += c
			}
			ncm.SetCol(t, net)
		}
	}
}

// sliceToWindow restricts a unit's series to the simulation's hour axis,
// wrapping coverage failures with the unit id for diagnosis.
func sliceToWindow(s tsarray.Series, hourAxis []time.Time, unitID int) ([]float64, error) {
	if len(hourAxis) == 0 {
		return nil, nil
	}
	start, end := hourAxis[0], hourAxis[len(hourAxis)-1]
	if !s.Covers(start, end) {
		return nil, fmt.Errorf("simulator: unit %d series does not cover [%s,%s]: %w", unitID, start, end, engineerr.ErrMissingTimeSeriesCoverage)
	}
	sliced, err := s.Slice(start, end)
	if err != nil {
		return nil, fmt.Errorf("simulator: unit %d: %w", unitID, err)
	}
	return sliced.Values(), nil
}
