package simulator

import (
	"github.com/brianmickel/adequacy/internal/energysystem"
	"github.com/brianmickel/adequacy/internal/engineerr"
	"github.com/brianmickel/adequacy/internal/tsarray"
)

// Simulation is a single-owner ProbabilisticSimulation: its NCM is mutated
// in place during Run and is only safe to read afterwards.
type Simulation struct {
	config Config
	system *energysystem.System
	ncm    *tsarray.Matrix
}

// New builds a Simulation from a validated Config. No system is assigned
// yet; call AssignEnergySystem before Run.
func New(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulation{config: cfg}, nil
}

// AssignEnergySystem associates a system with the simulation, invalidating
// any prior NCM.
func (s *Simulation) AssignEnergySystem(sys energysystem.System) {
	s.system = &sys
	s.ncm = nil
}

// Config returns the simulation's window/trial/seed parameters.
func (s *Simulation) Config() Config { return s.config }

// NetHourlyCapacityMatrix returns the NCM computed by the last Run call.
// Returns engineerr.ErrNotRun if Run has not yet succeeded.
func (s *Simulation) NetHourlyCapacityMatrix() (tsarray.Matrix, error) {
	if s.ncm == nil {
		return tsarray.Matrix{}, engineerr.ErrNotRun
	}
	return *s.ncm, nil
}

// Run computes the NCM per §4.5's algorithm. Idempotent: repeated calls
// with unchanged config/system recompute an identical matrix.
func (s *Simulation) Run() error {
	if s.system == nil {
		return engineerr.ErrNoSystemAssigned
	}

	hours := s.config.Hours()
	trials := s.config.TrialSize
	ncm := tsarray.NewMatrix(hours, trials)
	hourAxis := s.config.HourlyRange()

	if err := applyDeterministic(ncm, *s.system, hourAxis); err != nil {
		return err
	}
	if err := sampleStochastic(ncm, *s.system, hourAxis, s.config.Seed); err != nil {
		return err
	}
	dispatchStorage(ncm, *s.system)

	s.ncm = &ncm
	return nil
}
