package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brianmickel/adequacy/internal/energysystem"
	"github.com/brianmickel/adequacy/internal/simulator"
	"github.com/brianmickel/adequacy/internal/tsarray"
	"github.com/brianmickel/adequacy/internal/units"
)

func hourAxis(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return out
}

func TestMetrics_S1_TrivialAdequacy(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	axis := hourAxis(start, 10)
	ncm := tsarray.NewMatrix(10, 5)
	for h := 0; h < 10; h++ {
		for tr := 0; tr < 5; tr++ {
			ncm.Set(h, tr, 100)
		}
	}

	require.Equal(t, 0.0, ExpectedUnservedEnergy(ncm))
	require.Equal(t, 0.0, LossOfLoadHours(ncm))
	require.Equal(t, 0.0, LossOfLoadDays(ncm, axis))
	require.Equal(t, 0.0, LossOfLoadFrequency(ncm))
}

func TestMetrics_S2_AllOutage(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	axis := hourAxis(start, 10)
	ncm := tsarray.NewMatrix(10, 50)
	for h := 0; h < 10; h++ {
		for tr := 0; tr < 50; tr++ {
			ncm.Set(h, tr, -100)
		}
	}

	require.Equal(t, 1000.0, ExpectedUnservedEnergy(ncm))
	require.Equal(t, 10.0, LossOfLoadHours(ncm))
	require.Equal(t, 1.0, LossOfLoadDays(ncm, axis))
	require.Equal(t, 1.0, LossOfLoadFrequency(ncm))
}

func TestMetrics_S5_DeterministicLOLF(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	axis := hourAxis(start, 12)
	ncm := tsarray.NewMatrix(12, 1)
	shortfall := map[int]bool{3: true, 4: true, 5: true, 9: true, 10: true}
	for h := 0; h < 12; h++ {
		if shortfall[h] {
			ncm.Set(h, 0, -10)
		} else {
			ncm.Set(h, 0, 10)
		}
	}

	require.Equal(t, 5.0, LossOfLoadHours(ncm))
	require.Equal(t, 2.0, LossOfLoadFrequency(ncm))
	require.Equal(t, 1.0, LossOfLoadDays(ncm, axis))
}

func TestMetrics_ZeroIsNotShortfall(t *testing.T) {
	ncm := tsarray.NewMatrix(1, 1)
	ncm.Set(0, 0, 0)
	require.Equal(t, 0.0, ExpectedUnservedEnergy(ncm))
	require.Equal(t, 0.0, LossOfLoadHours(ncm))
}

func TestMetrics_ZeroTrials(t *testing.T) {
	ncm := tsarray.NewMatrix(5, 0)
	require.Equal(t, 0.0, ExpectedUnservedEnergy(ncm))
	require.Equal(t, 0.0, LossOfLoadHours(ncm))
	require.Equal(t, 0.0, LossOfLoadFrequency(ncm))
}

func runNCM(t *testing.T, sys energysystem.System, start, end time.Time) (tsarray.Matrix, []time.Time) {
	t.Helper()
	sim, err := simulator.New(simulator.Config{StartHour: start, EndHour: end, TrialSize: 20, Seed: 3})
	require.NoError(t, err)
	sim.AssignEnergySystem(sys)
	require.NoError(t, sim.Run())
	ncm, err := sim.NetHourlyCapacityMatrix()
	require.NoError(t, err)
	axis := make([]time.Time, ncm.Hours())
	for h := range axis {
		axis[h] = start.Add(time.Duration(h) * time.Hour)
	}
	return ncm, axis
}

// TestMetrics_Monotonicity exercises Testable Property 5: adding a demand
// unit can only weakly increase each metric, and adding non-negative
// capacity can only weakly decrease each metric.
func TestMetrics_Monotonicity(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(11 * time.Hour)

	baseDemandSeries, err := tsarray.Constant(start, end, 80)
	require.NoError(t, err)
	capSeries, err := tsarray.Constant(start, end, 100)
	require.NoError(t, err)
	rateSeries, err := tsarray.Constant(start, end, 0.3)
	require.NoError(t, err)

	baseDemand, err := units.NewDemandUnit(0, baseDemandSeries)
	require.NoError(t, err)
	stoch, err := units.NewStochasticUnit(1, 100, capSeries, rateSeries)
	require.NoError(t, err)

	base := energysystem.NewBuilder()
	require.NoError(t, base.AddUnit(baseDemand))
	require.NoError(t, base.AddUnit(stoch))
	baseNCM, baseAxis := runNCM(t, base.Build(), start, end)

	extraDemandSeries, err := tsarray.Constant(start, end, 20)
	require.NoError(t, err)
	extraDemand, err := units.NewDemandUnit(2, extraDemandSeries)
	require.NoError(t, err)

	withDemand := energysystem.NewBuilder()
	require.NoError(t, withDemand.AddUnit(baseDemand))
	require.NoError(t, withDemand.AddUnit(stoch))
	require.NoError(t, withDemand.AddUnit(extraDemand))
	demandNCM, demandAxis := runNCM(t, withDemand.Build(), start, end)

	for _, kind := range []Kind{EUE, LOLH, LOLD, LOLF} {
		require.GreaterOrEqual(t, Evaluate(kind, demandNCM, demandAxis), Evaluate(kind, baseNCM, baseAxis),
			"adding demand should not decrease %s", kind)
	}

	extraStaticSeries, err := tsarray.Constant(start, end, 50)
	require.NoError(t, err)
	extraStatic, err := units.NewStaticUnit(3, 50, extraStaticSeries)
	require.NoError(t, err)

	withStatic := energysystem.NewBuilder()
	require.NoError(t, withStatic.AddUnit(baseDemand))
	require.NoError(t, withStatic.AddUnit(stoch))
	require.NoError(t, withStatic.AddUnit(extraStatic))
	staticNCM, staticAxis := runNCM(t, withStatic.Build(), start, end)

	for _, kind := range []Kind{EUE, LOLH, LOLD, LOLF} {
		require.LessOrEqual(t, Evaluate(kind, staticNCM, staticAxis), Evaluate(kind, baseNCM, baseAxis),
			"adding capacity should not increase %s", kind)
	}
}
