package units

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brianmickel/adequacy/internal/engineerr"
	"github.com/brianmickel/adequacy/internal/tsarray"
)

func hourly(t *testing.T, start time.Time, n int, v float64) tsarray.Series {
	t.Helper()
	s, err := tsarray.Constant(start, start.Add(time.Duration(n-1)*time.Hour), v)
	require.NoError(t, err)
	return s
}

func TestNewDemandUnit_NameplateIsPeak(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	series := hourly(t, start, 3, 100)
	u, err := NewDemandUnit(1, series)
	require.NoError(t, err)
	require.Equal(t, 100.0, u.Nameplate())
}

func TestNewStochasticUnit_RejectsOutOfRangeRate(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cap := hourly(t, start, 3, 50)
	rate := hourly(t, start, 3, 1.5)
	_, err := NewStochasticUnit(2, 50, cap, rate)
	require.Error(t, err)
	require.True(t, errors.Is(err, engineerr.ErrInvalidUnit))
}

func TestNewStorageUnit_RejectsBadEfficiency(t *testing.T) {
	_, err := NewStorageUnit(3, 10, 5, 5, 20, 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, engineerr.ErrInvalidUnit))
}

func TestNewStorageUnit_RejectsNaNScalars(t *testing.T) {
	cases := map[string]struct {
		nameplate, charge, discharge, capacity, efficiency float64
	}{
		"nameplate":  {math.NaN(), 5, 5, 20, 1},
		"charge":     {10, math.NaN(), 5, 20, 1},
		"discharge":  {10, 5, math.NaN(), 20, 1},
		"capacity":   {10, 5, 5, math.NaN(), 1},
		"efficiency": {10, 5, 5, 20, math.NaN()},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewStorageUnit(3, c.nameplate, c.charge, c.discharge, c.capacity, c.efficiency)
			require.Error(t, err)
			require.True(t, errors.Is(err, engineerr.ErrInvalidUnit))
		})
	}
}

func TestNewStorageUnit_RejectsInfScalars(t *testing.T) {
	_, err := NewStorageUnit(3, 10, 5, math.Inf(1), 20, 1)
	require.Error(t, err)
	require.True(t, errors.Is(err, engineerr.ErrInvalidUnit))
}
