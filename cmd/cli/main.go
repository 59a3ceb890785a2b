// cli is the command-line front end for the adequacy engine: build and
// persist energy systems, run Monte Carlo simulations, evaluate adequacy
// metrics, and solve for ELCC, all against on-disk system directories and
// YAML engine configs.
package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/brianmickel/adequacy/internal/config"
	"github.com/brianmickel/adequacy/internal/elcc"
	"github.com/brianmickel/adequacy/internal/energysystem"
	"github.com/brianmickel/adequacy/internal/metrics"
	"github.com/brianmickel/adequacy/internal/simulator"
)

var cli struct {
	System struct {
		Build systemBuildCmd `cmd:"" help:"Build a system from a unit definitions YAML file and save it to a directory."`
		Load  systemLoadCmd  `cmd:"" help:"Load a saved system directory and print a summary."`
	} `cmd:"" help:"Build, save, and inspect energy systems."`

	Simulate simulateCmd `cmd:"" help:"Run a Monte Carlo simulation against a saved system."`
	Metric   metricCmd   `cmd:"" help:"Run a simulation and evaluate one adequacy metric."`
	ELCC     elccCmd     `cmd:"" help:"Solve for the ELCC of an additional system against a base system."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("adequacy"),
		kong.Description("Probabilistic resource adequacy engine."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

type systemBuildCmd struct {
	Units string `help:"Path to a unit definitions YAML file." required:""`
	Out   string `help:"Directory to save the built system into." required:""`
}

func (c *systemBuildCmd) Run() error {
	sys, err := buildSystemFromFile(c.Units)
	if err != nil {
		return err
	}
	if err := sys.Save(c.Out); err != nil {
		return err
	}
	fmt.Printf("built system with %d units, saved to %s\n", sys.Size(), c.Out)
	return nil
}

type systemLoadCmd struct {
	Dir string `arg:"" help:"Directory a system was previously saved to."`
}

func (c *systemLoadCmd) Run() error {
	sys, err := energysystem.Load(c.Dir)
	if err != nil {
		return err
	}
	fmt.Printf("system %s: %d units, %.2f MW system capacity\n", c.Dir, sys.Size(), sys.SystemCapacity())
	for _, u := range sys.Units() {
		fmt.Printf("  id=%-4d kind=%-10s nameplate=%.2f MW\n", u.ID, u.Kind, u.Nameplate())
	}
	return nil
}

type simulateCmd struct {
	System string `help:"Directory a system was previously saved to." required:""`
	Config string `help:"Path to an engine config YAML file." required:""`
}

func (c *simulateCmd) Run() error {
	sys, sim, err := loadAndRun(c.System, c.Config)
	if err != nil {
		return err
	}
	ncm, err := sim.NetHourlyCapacityMatrix()
	if err != nil {
		return err
	}
	fmt.Printf("ran simulation over %d units, %d hours x %d trials\n", sys.Size(), ncm.Hours(), ncm.Trials())
	return nil
}

type metricCmd struct {
	System string `help:"Directory a system was previously saved to." required:""`
	Config string `help:"Path to an engine config YAML file." required:""`
	Kind   string `help:"Metric to evaluate: eue, lolh, lold, or lolf." default:"eue"`
}

func (c *metricCmd) Run() error {
	_, sim, err := loadAndRun(c.System, c.Config)
	if err != nil {
		return err
	}
	ncm, err := sim.NetHourlyCapacityMatrix()
	if err != nil {
		return err
	}
	kind, err := parseMetricKind(c.Kind)
	if err != nil {
		return err
	}
	value := metrics.Evaluate(kind, ncm, sim.Config().HourlyRange())
	fmt.Printf("%s = %.4f\n", kind, value)
	return nil
}

type elccCmd struct {
	Base       string `help:"Directory the base system was saved to." required:""`
	Additional string `help:"Path to a unit definitions YAML file describing the additional resource(s)." required:""`
	Config     string `help:"Path to an engine config YAML file." required:""`
}

func (c *elccCmd) Run() error {
	base, err := energysystem.Load(c.Base)
	if err != nil {
		return err
	}
	additional, err := buildSystemFromFile(c.Additional)
	if err != nil {
		return err
	}
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	kind, err := cfg.MetricKind()
	if err != nil {
		return err
	}

	solver := elcc.New(base, cfg.SimulatorConfig(), kind, cfg.SolverOptions())
	mw, err := solver.Evaluate(additional)
	fmt.Printf("elcc(%s) = %.4f MW after %d iterations, state=%s\n", kind, mw, len(solver.History()), solver.State())
	if err != nil {
		return err
	}
	return nil
}

func loadAndRun(systemDir, configPath string) (energysystem.System, *simulator.Simulation, error) {
	sys, err := energysystem.Load(systemDir)
	if err != nil {
		return energysystem.System{}, nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return energysystem.System{}, nil, err
	}
	sim, err := simulator.New(cfg.SimulatorConfig())
	if err != nil {
		return energysystem.System{}, nil, err
	}
	sim.AssignEnergySystem(sys)
	if err := sim.Run(); err != nil {
		return energysystem.System{}, nil, err
	}
	return sys, sim, nil
}

func parseMetricKind(s string) (metrics.Kind, error) {
	switch s {
	case "eue":
		return metrics.EUE, nil
	case "lolh":
		return metrics.LOLH, nil
	case "lold":
		return metrics.LOLD, nil
	case "lolf":
		return metrics.LOLF, nil
	default:
		return 0, fmt.Errorf("unknown metric kind %q", s)
	}
}
