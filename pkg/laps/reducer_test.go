package laps

import (
	"testing"

	"github.com/aarondl/opt/omitnull"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1fastestlaps/pkg/model"
)

func lap(driver, number int, duration float64) model.Lap {
	return model.Lap{
		DriverNumber: omitnull.From(driver),
		LapNumber:    omitnull.From(number),
		LapDuration:  omitnull.From(duration),
	}
}

func nullLap(driver, number int) model.Lap {
	return model.Lap{DriverNumber: omitnull.From(driver), LapNumber: omitnull.From(number)}
}

func TestFastestDropsInvalid(t *testing.T) {
	laps := []model.Lap{lap(1, 1, 83.456), nullLap(1, 2), lap(1, 3, 79.210)}

	best, ok := Fastest(laps)
	require.True(t, ok)
	assert.InDelta(t, 79.210, best.Seconds, 1e-9)
	assert.Equal(t, 3, best.LapNumber.GetOrZero())
	assert.Len(t, Valid(laps), 2)
}

func TestFastestTieIsDeterministic(t *testing.T) {
	laps := []model.Lap{lap(1, 4, 80.000), lap(16, 7, 80.000), lap(1, 2, 81.000)}

	for range 10 {
		got := NewReducer(model.ModeSingle).Reduce(laps)
		require.Len(t, got, 1)
		assert.Equal(t, 4, got[0].LapNumber.GetOrZero())
		assert.Equal(t, 1, got[0].DriverNumber.GetOrZero())
	}
}

func TestFastestNoValidLaps(t *testing.T) {
	_, ok := Fastest([]model.Lap{nullLap(1, 1), {}})
	assert.False(t, ok)
	assert.Empty(t, NewReducer(model.ModeSingle).Reduce(nil))
}

func TestFastestPerDriver(t *testing.T) {
	laps := []model.Lap{
		lap(16, 1, 95.1),
		lap(1, 1, 94.2),
		lap(16, 2, 92.7),
		nullLap(44, 1),
		lap(1, 2, 93.0),
		{LapDuration: omitnull.From(60.0)},
	}

	got := NewReducer(model.ModeAll).Reduce(laps)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].DriverNumber.GetOrZero())
	assert.InDelta(t, 93.0, got[0].Seconds, 1e-9)
	assert.Equal(t, 16, got[1].DriverNumber.GetOrZero())
	assert.InDelta(t, 92.7, got[1].Seconds, 1e-9)
}

func TestFastestIgnoresNonPositive(t *testing.T) {
	best, ok := Fastest([]model.Lap{lap(1, 1, 0), lap(1, 2, 90.5)})
	require.True(t, ok)
	assert.InDelta(t, 90.5, best.Seconds, 1e-9)
}
