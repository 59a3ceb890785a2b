// Package simulator implements ProbabilisticSimulation: the Monte Carlo
// engine that turns an EnergySystem plus a study window into a net hourly
// capacity matrix, per spec §4.1-§4.3, §4.5.
package simulator

import (
	"fmt"
	"time"

	"github.com/brianmickel/adequacy/internal/engineerr"
	"github.com/brianmickel/adequacy/internal/tsarray"
)

// Config is the simulation window plus sampling parameters.
type Config struct {
	StartHour time.Time
	EndHour   time.Time
	TrialSize int
	Seed      int64
}

// Validate checks the window and trial size, per §4.5's edge cases.
func (c Config) Validate() error {
	if !c.EndHour.After(c.StartHour) {
		return fmt.Errorf("simulator: start_hour %s must be before end_hour %s: %w", c.StartHour, c.EndHour, engineerr.ErrInvalidWindow)
	}
	if c.TrialSize < 0 {
		return fmt.Errorf("simulator: negative trial_size %d: %w", c.TrialSize, engineerr.ErrInvalidWindow)
	}
	return nil
}

// Hours returns the number of hourly steps in [StartHour, EndHour].
func (c Config) Hours() int {
	return int(c.EndHour.Sub(c.StartHour)/tsarray.Hour) + 1
}

// HourlyRange returns the strictly-hourly timestamp axis of the window.
func (c Config) HourlyRange() []time.Time {
	return tsarray.HourlyRange(c.StartHour, c.EndHour)
}

// WithSeed returns a copy of c with the seed overridden. ELCC's bisection
// loop reuses one Config's window and trial size across iterations while
// keeping the seed fixed for paired-sample comparisons; this helper covers
// the rarer case of deliberately re-seeding a derived run.
func (c Config) WithSeed(seed int64) Config {
	c.Seed = seed
	return c
}
