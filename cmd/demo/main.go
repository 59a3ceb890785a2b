// Demo:
// - Build a handful of small energy systems in memory
// - Run each through the simulator and adequacy metrics
// - Run the ELCC solver against one of them
// to show how the pieces fit together end to end, reproducing the same six
// scenarios the engine's package tests are built against.
package main

import (
	"fmt"
	"time"

	"github.com/brianmickel/adequacy/internal/elcc"
	"github.com/brianmickel/adequacy/internal/energysystem"
	"github.com/brianmickel/adequacy/internal/metrics"
	"github.com/brianmickel/adequacy/internal/simulator"
	"github.com/brianmickel/adequacy/internal/tsarray"
	"github.com/brianmickel/adequacy/internal/units"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func main() {
	demoTrivialAdequacy()
	demoAllOutage()
	demoStorageSmoothing()
	demoStorageRoundTripLoss()
	demoDeterministicLOLF()
	demoELCC()
}

func window(hours int) (time.Time, time.Time) {
	return epoch, epoch.Add(time.Duration(hours-1) * time.Hour)
}

func hourly(n int, f func(i int) float64) (tsarray.Series, error) {
	times := make([]time.Time, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		times[i] = epoch.Add(time.Duration(i) * time.Hour)
		values[i] = f(i)
	}
	return tsarray.NewSeries(times, values)
}

func demoTrivialAdequacy() {
	fmt.Println("=== trivial adequacy: 100 MW demand, 200 MW static resource ===")

	demand, err := hourly(8760, func(i int) float64 { return 100 })
	must(err)
	capacity, err := hourly(8760, func(i int) float64 { return 200 })
	must(err)

	b := energysystem.NewBuilder()
	add := func(u units.Unit, err error) error { return addUnit(b, u, err) }
	must(add(units.NewDemandUnit(0, demand)))
	must(add(units.NewStaticUnit(1, 200, capacity)))
	sys := b.Build()

	start, end := window(8760)
	sim, err := simulator.New(simulator.Config{StartHour: start, EndHour: end, TrialSize: 10, Seed: 1})
	must(err)
	sim.AssignEnergySystem(sys)
	must(sim.Run())

	printMetrics(sim)
	fmt.Println()
}

func demoAllOutage() {
	fmt.Println("=== all-outage: 100 MW demand vs a fully forced-out 100 MW resource ===")

	demand, err := hourly(10, func(i int) float64 { return 100 })
	must(err)
	capacity, err := hourly(10, func(i int) float64 { return 100 })
	must(err)
	outageRate, err := hourly(10, func(i int) float64 { return 1.0 })
	must(err)

	b := energysystem.NewBuilder()
	add := func(u units.Unit, err error) error { return addUnit(b, u, err) }
	must(add(units.NewDemandUnit(0, demand)))
	must(add(units.NewStochasticUnit(1, 100, capacity, outageRate)))
	sys := b.Build()

	start, end := window(10)
	sim, err := simulator.New(simulator.Config{StartHour: start, EndHour: end, TrialSize: 50, Seed: 7})
	must(err)
	sim.AssignEnergySystem(sys)
	must(sim.Run())

	printMetrics(sim)
	fmt.Println()
}

func demoStorageSmoothing() {
	fmt.Println("=== storage smoothing: perfectly efficient battery flattens an alternating load ===")
	runStorageDemo(1.0)
}

func demoStorageRoundTripLoss() {
	fmt.Println("=== storage round-trip loss: 50% efficiency leaves half the swing unserved ===")
	runStorageDemo(0.5)
}

func runStorageDemo(efficiency float64) {
	demand, err := hourly(4, func(i int) float64 {
		if i%2 == 1 {
			return 200
		}
		return 0
	})
	must(err)
	staticCapacity, err := hourly(4, func(i int) float64 { return 100 })
	must(err)

	b := energysystem.NewBuilder()
	add := func(u units.Unit, err error) error { return addUnit(b, u, err) }
	must(add(units.NewDemandUnit(0, demand)))
	must(add(units.NewStaticUnit(1, 100, staticCapacity)))
	must(add(units.NewStorageUnit(2, 100, 100, 100, 100, efficiency)))
	sys := b.Build()

	start, end := window(4)
	sim, err := simulator.New(simulator.Config{StartHour: start, EndHour: end, TrialSize: 1, Seed: 1})
	must(err)
	sim.AssignEnergySystem(sys)
	must(sim.Run())

	ncm, err := sim.NetHourlyCapacityMatrix()
	must(err)
	fmt.Printf("NCM per hour: %v\n", ncm.Col(0))
	printMetrics(sim)
	fmt.Println()
}

func demoDeterministicLOLF() {
	fmt.Println("=== deterministic LOLF: two separate shortfall runs in a 12-hour window ===")

	shortfall := map[int]bool{3: true, 4: true, 5: true, 9: true, 10: true}
	demand, err := hourly(12, func(i int) float64 {
		if shortfall[i] {
			return 110
		}
		return 90
	})
	must(err)
	capacity, err := hourly(12, func(i int) float64 { return 100 })
	must(err)

	b := energysystem.NewBuilder()
	add := func(u units.Unit, err error) error { return addUnit(b, u, err) }
	must(add(units.NewDemandUnit(0, demand)))
	must(add(units.NewStaticUnit(1, 100, capacity)))
	sys := b.Build()

	start, end := window(12)
	sim, err := simulator.New(simulator.Config{StartHour: start, EndHour: end, TrialSize: 1, Seed: 1})
	must(err)
	sim.AssignEnergySystem(sys)
	must(sim.Run())

	printMetrics(sim)
	fmt.Println()
}

func demoELCC() {
	fmt.Println("=== ELCC: how much load can a 1 MW perfect resource serve? ===")

	demand, err := hourly(9, func(i int) float64 { return 100 })
	must(err)
	staticCapacity, err := hourly(9, func(i int) float64 { return 95 })
	must(err)

	baseB := energysystem.NewBuilder()
	addBase := func(u units.Unit, err error) error { return addUnit(baseB, u, err) }
	must(addBase(units.NewDemandUnit(0, demand)))
	must(addBase(units.NewStaticUnit(1, 95, staticCapacity)))
	base := baseB.Build()

	addedCapacity, err := hourly(9, func(i int) float64 { return 1 })
	must(err)
	addB := energysystem.NewBuilder()
	addExtra := func(u units.Unit, err error) error { return addUnit(addB, u, err) }
	must(addExtra(units.NewStaticUnit(100, 1, addedCapacity)))
	additional := addB.Build()

	start, end := window(9)
	cfg := simulator.Config{StartHour: start, EndHour: end, TrialSize: 1, Seed: 1}
	solver := elcc.New(base, cfg, metrics.EUE, elcc.Options{})

	mw, err := solver.Evaluate(additional)
	must(err)
	fmt.Printf("ELCC(EUE) = %.4f MW after %d iterations, state=%s\n", mw, len(solver.History()), solver.State())
	fmt.Println()
}

func printMetrics(sim *simulator.Simulation) {
	ncm, err := sim.NetHourlyCapacityMatrix()
	must(err)
	hourAxis := sim.Config().HourlyRange()
	for _, kind := range []metrics.Kind{metrics.EUE, metrics.LOLH, metrics.LOLD, metrics.LOLF} {
		fmt.Printf("%-4s = %.4f\n", kind, metrics.Evaluate(kind, ncm, hourAxis))
	}
}

func addUnit(b *energysystem.Builder, u units.Unit, err error) error {
	if err != nil {
		return err
	}
	return b.AddUnit(u)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
