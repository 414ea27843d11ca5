package pipeline

import (
	"context"
	"testing"

	"github.com/aarondl/opt/null"
	"github.com/aarondl/opt/omitnull"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1fastestlaps/pkg/model"
)

type fakeSource struct {
	sessions   map[int][]model.Session
	laps       map[int][]model.Lap
	failYears  map[int]bool
	failLaps   map[int]bool
	drivers    []model.Driver
	driversErr error
	lapFilters []null.Val[int]
}

func (f *fakeSource) GetSessions(_ context.Context, year int, _ string) ([]model.Session, error) {
	if f.failYears[year] {
		return nil, errors.New("status 503")
	}
	return f.sessions[year], nil
}

func (f *fakeSource) GetLaps(_ context.Context, key int, driver null.Val[int]) ([]model.Lap, error) {
	f.lapFilters = append(f.lapFilters, driver)
	if f.failLaps[key] {
		return nil, errors.New("status 500")
	}
	list := f.laps[key]
	if num, ok := driver.Get(); ok {
		var filtered []model.Lap
		for _, l := range list {
			if l.DriverNumber.GetOrZero() == num {
				filtered = append(filtered, l)
			}
		}
		return filtered, nil
	}
	return list, nil
}

func (f *fakeSource) GetDrivers(context.Context) ([]model.Driver, error) {
	return f.drivers, f.driversErr
}

func session(key int, location, date string) model.Session {
	return model.Session{
		SessionKey:  omitnull.From(key),
		Location:    omitnull.From(location),
		CountryName: omitnull.From("Somewhere"),
		DateStart:   omitnull.From(date),
		SessionName: omitnull.From("Race"),
		SessionType: omitnull.From("Race"),
	}
}

func lap(driver int, d float64) model.Lap {
	return model.Lap{DriverNumber: omitnull.From(driver), LapDuration: omitnull.From(d)}
}

func newSource() *fakeSource {
	return &fakeSource{
		sessions: map[int][]model.Session{
			2024: {session(2, "Jeddah", "2024-03-09"), session(1, "Sakhir", "2024-03-02"), session(3, "Melbourne", "2024-03-24")},
		},
		laps: map[int][]model.Lap{
			1: {lap(1, 92.608), lap(16, 93.1), {DriverNumber: omitnull.From(1)}},
			2: {lap(16, 91.5)},
		},
		failLaps: map[int]bool{3: true},
		drivers: []model.Driver{
			{DriverNumber: omitnull.From(1), BroadcastName: omitnull.From("M VERSTAPPEN")},
			{DriverNumber: omitnull.From(16), BroadcastName: omitnull.From("C LECLERC")},
		},
	}
}

func TestRunSingleDriver(t *testing.T) {
	src := newSource()
	p, err := New(src, Options{Mode: model.ModeSingle, Years: []int{2024}, DriverNumber: 1, DriverName: "Max Verstappen"})
	require.NoError(t, err)

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Entries, 3)
	assert.Equal(t, 3, res.Sessions)

	assert.Equal(t, "Sakhir, Somewhere", res.Entries[0].RaceLocation)
	assert.Equal(t, "1:32.608", res.Entries[0].FastestLapTime)
	assert.Equal(t, model.StatusOK, res.Entries[0].Status)

	assert.Equal(t, "Jeddah, Somewhere", res.Entries[1].RaceLocation)
	assert.Equal(t, "N/A", res.Entries[1].FastestLapTime)
	assert.Equal(t, model.StatusNoLaps, res.Entries[1].Status)

	assert.Equal(t, "N/A", res.Entries[2].FastestLapTime)
	assert.Equal(t, model.StatusFetchFailed, res.Entries[2].Status)
	for _, e := range res.Entries {
		assert.Equal(t, "Max Verstappen", e.DriverName)
		assert.Equal(t, 2024, e.Year)
	}
	for _, f := range src.lapFilters {
		assert.Equal(t, 1, f.GetOrZero())
	}
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 3, res.Warnings[0].SessionKey)
}

func TestRunAllDrivers(t *testing.T) {
	src := newSource()
	p, err := New(src, Options{Mode: model.ModeAll, Years: []int{2024}})
	require.NoError(t, err)

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Entries, 3)

	assert.Equal(t, "M VERSTAPPEN", res.Entries[0].DriverName)
	assert.Equal(t, "1:32.608", res.Entries[0].FastestLapTime)
	assert.Equal(t, "C LECLERC", res.Entries[1].DriverName)
	assert.Equal(t, "1:33.100", res.Entries[1].FastestLapTime)
	assert.Equal(t, "Jeddah, Somewhere", res.Entries[2].RaceLocation)
	assert.Equal(t, "1:31.500", res.Entries[2].FastestLapTime)
	for _, f := range src.lapFilters {
		assert.False(t, f.IsValue())
	}
}

func TestRunYearFailureAndDriversFailure(t *testing.T) {
	src := newSource()
	src.failYears = map[int]bool{2023: true}
	src.driversErr = errors.New("status 502")
	p, err := New(src, Options{Mode: model.ModeAll, Years: []int{2023, 2024}})
	require.NoError(t, err)

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	// drivers, year 2023 and session 3
	require.Len(t, res.Warnings, 3)
	assert.Equal(t, 2023, res.Warnings[1].Year)
	require.Len(t, res.Entries, 3)
	assert.Equal(t, "Unknown", res.Entries[0].DriverName)
}

func TestRunSessionWithoutKey(t *testing.T) {
	src := newSource()
	src.sessions = map[int][]model.Session{2025: {{Location: omitnull.From("Suzuka")}}}
	p, err := New(src, Options{Mode: model.ModeSingle, Years: []int{2025}, DriverNumber: 1})
	require.NoError(t, err)

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, model.StatusFetchFailed, res.Entries[0].Status)
	assert.Equal(t, "M VERSTAPPEN", res.Entries[0].DriverName)
	assert.Empty(t, src.lapFilters)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p, err := New(newSource(), Options{Mode: model.ModeAll, Years: []int{2024}})
	require.NoError(t, err)

	res, err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestNewValidates(t *testing.T) {
	_, err := New(newSource(), Options{Mode: "fast", Years: []int{2024}})
	assert.Error(t, err)
	_, err = New(newSource(), Options{Mode: model.ModeAll})
	assert.Error(t, err)
}
