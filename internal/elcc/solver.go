// Package elcc implements EffectiveLoadCarryingCapability: a bisection
// search over added constant demand that finds the MW value at which an
// additional system exactly offsets its own adequacy contribution, per
// spec §4.7.
package elcc

import (
	"fmt"
	"time"

	"github.com/brianmickel/adequacy/internal/energysystem"
	"github.com/brianmickel/adequacy/internal/engineerr"
	"github.com/brianmickel/adequacy/internal/metrics"
	"github.com/brianmickel/adequacy/internal/simulator"
	"github.com/brianmickel/adequacy/internal/tsarray"
	"github.com/brianmickel/adequacy/internal/units"
)

// State names a step in the solver's lifecycle, exposed so callers (e.g.
// the API) can report intermediate progress.
type State int

const (
	Evaluating State = iota
	Bisecting
	Converged
	Exhausted
)

func (s State) String() string {
	switch s {
	case Evaluating:
		return "evaluating"
	case Bisecting:
		return "bisecting"
	case Converged:
		return "converged"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Iteration records one bisection step: the trial MW value, the resulting
// NCM, and the metric it produced.
type Iteration struct {
	AddedDemandMW float64
	NCM           tsarray.Matrix
	Metric        float64
}

// Options tunes the bisection loop; zero values fall back to spec defaults.
type Options struct {
	Precision float64 // default 0.01 MW
	MaxIters  int     // default 20
	Tolerance float64 // default 1e-6 metric units
}

func (o Options) withDefaults() Options {
	if o.Precision <= 0 {
		o.Precision = 0.01
	}
	if o.MaxIters <= 0 {
		o.MaxIters = 20
	}
	if o.Tolerance <= 0 {
		o.Tolerance = 1e-6
	}
	return o
}

// Solver evaluates ELCC for a fixed base system, simulation template, and
// metric. It owns its own working simulation and the retained iteration
// history from the last Evaluate call.
type Solver struct {
	base    energysystem.System
	cfg     simulator.Config
	kind    metrics.Kind
	opts    Options
	history []Iteration
	state   State

	originalNCM tsarray.Matrix
}

// New builds a Solver over a base system and simulation template.
func New(base energysystem.System, cfg simulator.Config, kind metrics.Kind, opts Options) *Solver {
	return &Solver{base: base, cfg: cfg, kind: kind, opts: opts.withDefaults(), state: Evaluating}
}

// History returns the retained (added_demand, NCM) pairs from the most
// recent Evaluate call, per §5's requirement to expose at least the final
// pair (the implementation retains all of them).
func (s *Solver) History() []Iteration { return s.history }

// State returns the solver's terminal or in-progress state.
func (s *Solver) State() State { return s.state }

// Evaluate runs the bisection search for additional, returning the MW
// value at which its addition (plus a matching constant demand) leaves the
// configured metric approximately unchanged from the base system alone.
// On non-convergence within MaxIters it returns *engineerr.ConvergenceError
// wrapping engineerr.ErrSolverDidNotConverge alongside the best estimate.
func (s *Solver) Evaluate(additional energysystem.System) (float64, error) {
	s.history = nil
	s.state = Evaluating

	baseSim, err := simulator.New(s.cfg)
	if err != nil {
		return 0, err
	}
	baseSim.AssignEnergySystem(s.base)
	if err := baseSim.Run(); err != nil {
		return 0, fmt.Errorf("elcc: base run: %w", err)
	}
	baseNCM, err := baseSim.NetHourlyCapacityMatrix()
	if err != nil {
		return 0, err
	}
	s.originalNCM = baseNCM
	baseMetric := metrics.Evaluate(s.kind, baseNCM, s.cfg.HourlyRange())

	combined, err := s.base.Merge(additional)
	if err != nil {
		return 0, fmt.Errorf("elcc: merge base+additional: %w", err)
	}

	hi := additional.SystemCapacity()
	lo := 0.0

	hiMetric, hiNCM, err := s.evaluateAt(combined, hi)
	if err != nil {
		return 0, err
	}
	s.history = append(s.history, Iteration{AddedDemandMW: hi, NCM: hiNCM, Metric: hiMetric})
	if hiMetric <= baseMetric {
		s.state = Converged
		return hi, nil
	}

	s.state = Bisecting
	for iter := 0; iter < s.opts.MaxIters; iter++ {
		if hi-lo <= s.opts.Precision {
			s.state = Converged
			return (lo + hi) / 2, nil
		}
		mid := (lo + hi) / 2
		m, ncm, err := s.evaluateAt(combined, mid)
		if err != nil {
			return 0, err
		}
		s.history = append(s.history, Iteration{AddedDemandMW: mid, NCM: ncm, Metric: m})

		switch {
		case m > baseMetric+s.opts.Tolerance:
			hi = mid
		case m < baseMetric-s.opts.Tolerance:
			lo = mid
		default:
			s.state = Converged
			return mid, nil
		}
	}

	s.state = Exhausted
	estimate := (lo + hi) / 2
	return estimate, &engineerr.ConvergenceError{Estimate: estimate, Lo: lo, Hi: hi, Iters: s.opts.MaxIters}
}

// evaluateAt runs combined ∪ DemandUnit(constant addedMW) with the
// unmodified seed and returns the resulting metric and NCM.
func (s *Solver) evaluateAt(combined energysystem.System, addedMW float64) (float64, tsarray.Matrix, error) {
	demand, err := constantDemand(s.cfg.StartHour, s.cfg.EndHour, addedMW)
	if err != nil {
		return 0, tsarray.Matrix{}, err
	}

	withDemand, err := combined.Merge(demand)
	if err != nil {
		return 0, tsarray.Matrix{}, fmt.Errorf("elcc: add constant demand: %w", err)
	}

	sim, err := simulator.New(s.cfg)
	if err != nil {
		return 0, tsarray.Matrix{}, err
	}
	sim.AssignEnergySystem(withDemand)
	if err := sim.Run(); err != nil {
		return 0, tsarray.Matrix{}, fmt.Errorf("elcc: iteration run: %w", err)
	}
	ncm, err := sim.NetHourlyCapacityMatrix()
	if err != nil {
		return 0, tsarray.Matrix{}, err
	}
	return metrics.Evaluate(s.kind, ncm, s.cfg.HourlyRange()), ncm, nil
}

// constantDemand builds a single-unit system holding one DemandUnit of the
// given constant MW over [start,end], id-namespaced away from any real
// system content the solver may combine it with.
func constantDemand(start, end time.Time, mw float64) (energysystem.System, error) {
	series, err := tsarray.Constant(start, end, mw)
	if err != nil {
		return energysystem.System{}, err
	}
	unit, err := units.NewDemandUnit(elccDemandUnitID, series)
	if err != nil {
		return energysystem.System{}, err
	}
	b := energysystem.NewBuilder()
	if err := b.AddUnit(unit); err != nil {
		return energysystem.System{}, err
	}
	return b.Build(), nil
}

// elccDemandUnitID is reserved for the solver's synthetic constant-demand
// unit; base and additional systems must not use it. Chosen far outside
// the range a hand-built or ingested system would plausibly assign.
const elccDemandUnitID = 1<<31 - 1
