package simulator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brianmickel/adequacy/internal/energysystem"
	"github.com/brianmickel/adequacy/internal/tsarray"
	"github.com/brianmickel/adequacy/internal/units"
)

func window(hours int) (time.Time, time.Time) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return start, start.Add(time.Duration(hours-1) * time.Hour)
}

func TestSimulation_S1_TrivialAdequacy(t *testing.T) {
	start, end := window(10)

	demandSeries, err := tsarray.Constant(start, end, 100)
	require.NoError(t, err)
	staticSeries, err := tsarray.Constant(start, end, 200)
	require.NoError(t, err)

	demand, err := units.NewDemandUnit(0, demandSeries)
	require.NoError(t, err)
	static, err := units.NewStaticUnit(1, 200, staticSeries)
	require.NoError(t, err)

	b := energysystem.NewBuilder()
	require.NoError(t, b.AddUnit(demand))
	require.NoError(t, b.AddUnit(static))
	sys := b.Build()

	sim, err := New(Config{StartHour: start, EndHour: end, TrialSize: 5, Seed: 1})
	require.NoError(t, err)
	sim.AssignEnergySystem(sys)
	require.NoError(t, sim.Run())

	ncm, err := sim.NetHourlyCapacityMatrix()
	require.NoError(t, err)
	for h := 0; h < ncm.Hours(); h++ {
		for tr := 0; tr < ncm.Trials(); tr++ {
			require.Equal(t, 100.0, ncm.At(h, tr))
		}
	}
}

func TestSimulation_S2_AllOutage(t *testing.T) {
	start, end := window(10)

	demandSeries, err := tsarray.Constant(start, end, 100)
	require.NoError(t, err)
	capSeries, err := tsarray.Constant(start, end, 100)
	require.NoError(t, err)
	rateSeries, err := tsarray.Constant(start, end, 1.0)
	require.NoError(t, err)

	demand, err := units.NewDemandUnit(0, demandSeries)
	require.NoError(t, err)
	stoch, err := units.NewStochasticUnit(1, 100, capSeries, rateSeries)
	require.NoError(t, err)

	b := energysystem.NewBuilder()
	require.NoError(t, b.AddUnit(demand))
	require.NoError(t, b.AddUnit(stoch))
	sys := b.Build()

	sim, err := New(Config{StartHour: start, EndHour: end, TrialSize: 50, Seed: 7})
	require.NoError(t, err)
	sim.AssignEnergySystem(sys)
	require.NoError(t, sim.Run())

	ncm, err := sim.NetHourlyCapacityMatrix()
	require.NoError(t, err)
	for h := 0; h < ncm.Hours(); h++ {
		for tr := 0; tr < ncm.Trials(); tr++ {
			require.Equal(t, -100.0, ncm.At(h, tr))
		}
	}
}

func TestSimulation_S3_StorageSmoothing(t *testing.T) {
	start, end := window(4)

	times := []time.Time{start, start.Add(time.Hour), start.Add(2 * time.Hour), start.Add(3 * time.Hour)}
	demandVals := []float64{0, 200, 0, 200}
	demandSeries, err := tsarray.NewSeries(times, demandVals)
	require.NoError(t, err)
	staticSeries, err := tsarray.Constant(start, end, 100)
	require.NoError(t, err)

	demand, err := units.NewDemandUnit(0, demandSeries)
	require.NoError(t, err)
	static, err := units.NewStaticUnit(1, 100, staticSeries)
	require.NoError(t, err)
	storage, err := units.NewStorageUnit(2, 100, 100, 100, 100, 1.0)
	require.NoError(t, err)

	b := energysystem.NewBuilder()
	require.NoError(t, b.AddUnit(demand))
	require.NoError(t, b.AddUnit(static))
	require.NoError(t, b.AddUnit(storage))
	sys := b.Build()

	sim, err := New(Config{StartHour: start, EndHour: end, TrialSize: 1, Seed: 1})
	require.NoError(t, err)
	sim.AssignEnergySystem(sys)
	require.NoError(t, sim.Run())

	ncm, err := sim.NetHourlyCapacityMatrix()
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0, 0}, ncm.Col(0))
}

func TestSimulation_S4_StorageRoundTripLoss(t *testing.T) {
	start, end := window(4)

	times := []time.Time{start, start.Add(time.Hour), start.Add(2 * time.Hour), start.Add(3 * time.Hour)}
	demandVals := []float64{0, 200, 0, 200}
	demandSeries, err := tsarray.NewSeries(times, demandVals)
	require.NoError(t, err)
	staticSeries, err := tsarray.Constant(start, end, 100)
	require.NoError(t, err)

	demand, err := units.NewDemandUnit(0, demandSeries)
	require.NoError(t, err)
	static, err := units.NewStaticUnit(1, 100, staticSeries)
	require.NoError(t, err)
	storage, err := units.NewStorageUnit(2, 100, 100, 100, 100, 0.5)
	require.NoError(t, err)

	b := energysystem.NewBuilder()
	require.NoError(t, b.AddUnit(demand))
	require.NoError(t, b.AddUnit(static))
	require.NoError(t, b.AddUnit(storage))
	sys := b.Build()

	sim, err := New(Config{StartHour: start, EndHour: end, TrialSize: 1, Seed: 1})
	require.NoError(t, err)
	sim.AssignEnergySystem(sys)
	require.NoError(t, sim.Run())

	ncm, err := sim.NetHourlyCapacityMatrix()
	require.NoError(t, err)
	col := ncm.Col(0)
	require.InDelta(t, 50, col[0], 1e-9)
	require.InDelta(t, -50, col[1], 1e-9)
	require.InDelta(t, 50, col[2], 1e-9)
	require.InDelta(t, -50, col[3], 1e-9)
}

func TestSimulation_Determinism(t *testing.T) {
	start, end := window(24)

	demandSeries, err := tsarray.Constant(start, end, 80)
	require.NoError(t, err)
	capSeries, err := tsarray.Constant(start, end, 100)
	require.NoError(t, err)
	rateSeries, err := tsarray.Constant(start, end, 0.1)
	require.NoError(t, err)

	demand, err := units.NewDemandUnit(0, demandSeries)
	require.NoError(t, err)
	stoch, err := units.NewStochasticUnit(1, 100, capSeries, rateSeries)
	require.NoError(t, err)

	b := energysystem.NewBuilder()
	require.NoError(t, b.AddUnit(demand))
	require.NoError(t, b.AddUnit(stoch))
	sys := b.Build()

	cfg := Config{StartHour: start, EndHour: end, TrialSize: 200, Seed: 42}

	sim1, err := New(cfg)
	require.NoError(t, err)
	sim1.AssignEnergySystem(sys)
	require.NoError(t, sim1.Run())
	ncm1, err := sim1.NetHourlyCapacityMatrix()
	require.NoError(t, err)

	sim2, err := New(cfg)
	require.NoError(t, err)
	sim2.AssignEnergySystem(sys)
	require.NoError(t, sim2.Run())
	ncm2, err := sim2.NetHourlyCapacityMatrix()
	require.NoError(t, err)

	require.True(t, ncm1.Equal(ncm2))
}

func TestSimulation_InvalidWindow(t *testing.T) {
	start, _ := window(10)
	_, err := New(Config{StartHour: start, EndHour: start, TrialSize: 1})
	require.Error(t, err)
}

func TestSimulation_NotRunAndNoSystemAssigned(t *testing.T) {
	start, end := window(2)
	sim, err := New(Config{StartHour: start, EndHour: end, TrialSize: 1})
	require.NoError(t, err)

	_, err = sim.NetHourlyCapacityMatrix()
	require.Error(t, err)

	require.Error(t, sim.Run())
}

func TestSimulation_EmptySystemZeroNCM(t *testing.T) {
	start, end := window(5)
	sim, err := New(Config{StartHour: start, EndHour: end, TrialSize: 3})
	require.NoError(t, err)
	sim.AssignEnergySystem(energysystem.Empty())
	require.NoError(t, sim.Run())

	ncm, err := sim.NetHourlyCapacityMatrix()
	require.NoError(t, err)
	for h := 0; h < ncm.Hours(); h++ {
		for tr := 0; tr < ncm.Trials(); tr++ {
			require.Equal(t, 0.0, ncm.At(h, tr))
		}
	}
}

// TestSimulation_StorageDispatchOrder pins storage dispatch to ascending id
// regardless of the order units were added to the builder: two storage
// units with the same parameters but built id-descending and id-ascending
// must fold in the same sequence and land on the same NCM.
func TestSimulation_StorageDispatchOrder(t *testing.T) {
	start, end := window(4)

	times := []time.Time{start, start.Add(time.Hour), start.Add(2 * time.Hour), start.Add(3 * time.Hour)}
	demandVals := []float64{0, 200, 0, 200}
	demandSeries, err := tsarray.NewSeries(times, demandVals)
	require.NoError(t, err)
	staticSeries, err := tsarray.Constant(start, end, 100)
	require.NoError(t, err)

	demand, err := units.NewDemandUnit(0, demandSeries)
	require.NoError(t, err)
	static, err := units.NewStaticUnit(1, 100, staticSeries)
	require.NoError(t, err)
	storageLow, err := units.NewStorageUnit(2, 100, 100, 100, 100, 1.0)
	require.NoError(t, err)
	storageHigh, err := units.NewStorageUnit(9, 100, 100, 100, 100, 1.0)
	require.NoError(t, err)

	ascending := energysystem.NewBuilder()
	require.NoError(t, ascending.AddUnit(demand))
	require.NoError(t, ascending.AddUnit(static))
	require.NoError(t, ascending.AddUnit(storageLow))
	require.NoError(t, ascending.AddUnit(storageHigh))

	descending := energysystem.NewBuilder()
	require.NoError(t, descending.AddUnit(demand))
	require.NoError(t, descending.AddUnit(static))
	require.NoError(t, descending.AddUnit(storageHigh))
	require.NoError(t, descending.AddUnit(storageLow))

	cfg := Config{StartHour: start, EndHour: end, TrialSize: 1, Seed: 1}

	simA, err := New(cfg)
	require.NoError(t, err)
	simA.AssignEnergySystem(ascending.Build())
	require.NoError(t, simA.Run())
	ncmA, err := simA.NetHourlyCapacityMatrix()
	require.NoError(t, err)

	simD, err := New(cfg)
	require.NoError(t, err)
	simD.AssignEnergySystem(descending.Build())
	require.NoError(t, simD.Run())
	ncmD, err := simD.NetHourlyCapacityMatrix()
	require.NoError(t, err)

	require.True(t, ncmA.Equal(ncmD))
}

// TestSimulation_Additivity exercises Testable Property 2: two StaticUnits
// with capacities a and b produce the same NCM as a single StaticUnit with
// capacity a+b, all else equal.
func TestSimulation_Additivity(t *testing.T) {
	start, end := window(6)

	demandSeries, err := tsarray.Constant(start, end, 50)
	require.NoError(t, err)
	splitA, err := tsarray.Constant(start, end, 30)
	require.NoError(t, err)
	splitB, err := tsarray.Constant(start, end, 70)
	require.NoError(t, err)
	combined, err := tsarray.Constant(start, end, 100)
	require.NoError(t, err)

	demand, err := units.NewDemandUnit(0, demandSeries)
	require.NoError(t, err)
	unitA, err := units.NewStaticUnit(1, 30, splitA)
	require.NoError(t, err)
	unitB, err := units.NewStaticUnit(2, 70, splitB)
	require.NoError(t, err)
	unitAB, err := units.NewStaticUnit(1, 100, combined)
	require.NoError(t, err)

	split := energysystem.NewBuilder()
	require.NoError(t, split.AddUnit(demand))
	require.NoError(t, split.AddUnit(unitA))
	require.NoError(t, split.AddUnit(unitB))

	merged := energysystem.NewBuilder()
	require.NoError(t, merged.AddUnit(demand))
	require.NoError(t, merged.AddUnit(unitAB))

	cfg := Config{StartHour: start, EndHour: end, TrialSize: 1, Seed: 1}

	simSplit, err := New(cfg)
	require.NoError(t, err)
	simSplit.AssignEnergySystem(split.Build())
	require.NoError(t, simSplit.Run())
	ncmSplit, err := simSplit.NetHourlyCapacityMatrix()
	require.NoError(t, err)

	simMerged, err := New(cfg)
	require.NoError(t, err)
	simMerged.AssignEnergySystem(merged.Build())
	require.NoError(t, simMerged.Run())
	ncmMerged, err := simMerged.NetHourlyCapacityMatrix()
	require.NoError(t, err)

	require.True(t, ncmSplit.Equal(ncmMerged))
}

func TestSimulation_ZeroTrialSize(t *testing.T) {
	start, end := window(5)
	demandSeries, err := tsarray.Constant(start, end, 100)
	require.NoError(t, err)
	demand, err := units.NewDemandUnit(0, demandSeries)
	require.NoError(t, err)

	b := energysystem.NewBuilder()
	require.NoError(t, b.AddUnit(demand))
	sys := b.Build()

	sim, err := New(Config{StartHour: start, EndHour: end, TrialSize: 0})
	require.NoError(t, err)
	sim.AssignEnergySystem(sys)
	require.NoError(t, sim.Run())

	ncm, err := sim.NetHourlyCapacityMatrix()
	require.NoError(t, err)
	require.Equal(t, 0, ncm.Trials())
}
