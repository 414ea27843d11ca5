package laps

import (
	"testing"

	"github.com/aarondl/opt/null"
	"github.com/aarondl/opt/omitnull"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1fastestlaps/pkg/model"
)

func bahrain() model.Session {
	return model.Session{
		SessionKey:  omitnull.From(9472),
		Year:        omitnull.From(2024),
		Location:    omitnull.From("Sakhir"),
		CountryName: omitnull.From("Bahrain"),
		DateStart:   omitnull.From("2024-03-02T15:00:00+00:00"),
		SessionName: omitnull.From("Race"),
		SessionType: omitnull.From("Race"),
	}
}

var drivers = model.Drivers{1: "M VERSTAPPEN", 16: "C LECLERC"}

func TestAssembleAllDrivers(t *testing.T) {
	a := NewAssembler(model.ModeAll, drivers)
	fastest := []model.FastestLap{
		{DriverNumber: null.From(1), Seconds: 92.608},
		{DriverNumber: null.From(16), Seconds: 93.1},
		{DriverNumber: null.From(99), Seconds: 95.0},
	}

	got := a.Assemble(bahrain(), fastest, model.StatusOK)
	require.Len(t, got, 3)
	assert.Equal(t, model.FastestLapEntry{
		Year:           2024,
		DriverName:     "M VERSTAPPEN",
		DriverNumber:   "1",
		RaceLocation:   "Sakhir, Bahrain",
		Date:           "2024-03-02",
		SessionName:    "Race",
		SessionType:    "Race",
		FastestLapTime: "1:32.608",
		SessionKey:     9472,
		Status:         model.StatusOK,
	}, got[0])
	assert.Equal(t, "C LECLERC", got[1].DriverName)
	assert.Equal(t, "1:33.100", got[1].FastestLapTime)
	assert.Equal(t, "Unknown", got[2].DriverName)
	assert.Equal(t, "99", got[2].DriverNumber)
}

func TestAssembleAllDriversNoLaps(t *testing.T) {
	a := NewAssembler(model.ModeAll, drivers)
	assert.Empty(t, a.Assemble(bahrain(), nil, model.StatusOK))
	assert.Empty(t, a.Assemble(bahrain(), nil, model.StatusFetchFailed))
}

func TestAssembleSingleDriver(t *testing.T) {
	a := NewAssembler(model.ModeSingle, drivers, WithDriver(1, "Max Verstappen"))

	got := a.Assemble(bahrain(), []model.FastestLap{{DriverNumber: null.From(1), Seconds: 92.608}}, model.StatusOK)
	require.Len(t, got, 1)
	assert.Equal(t, "Max Verstappen", got[0].DriverName)
	assert.Equal(t, "1", got[0].DriverNumber)
	assert.Equal(t, "1:32.608", got[0].FastestLapTime)
}

func TestAssembleSingleDriverPlaceholder(t *testing.T) {
	tests := []struct {
		name       string
		assembler  *Assembler
		status     model.Status
		wantName   string
		wantStatus model.Status
	}{
		{
			name:       "name override",
			assembler:  NewAssembler(model.ModeSingle, drivers, WithDriver(1, "Max Verstappen")),
			status:     model.StatusOK,
			wantName:   "Max Verstappen",
			wantStatus: model.StatusNoLaps,
		},
		{
			name:       "lookup",
			assembler:  NewAssembler(model.ModeSingle, drivers, WithDriver(16, "")),
			status:     model.StatusFetchFailed,
			wantName:   "C LECLERC",
			wantStatus: model.StatusFetchFailed,
		},
		{
			name:       "unknown driver",
			assembler:  NewAssembler(model.ModeSingle, nil, WithDriver(33, "")),
			status:     model.StatusNoLaps,
			wantName:   "N/A",
			wantStatus: model.StatusNoLaps,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.assembler.Assemble(bahrain(), nil, tt.status)
			require.Len(t, got, 1)
			assert.Equal(t, "N/A", got[0].FastestLapTime)
			assert.Equal(t, tt.wantName, got[0].DriverName)
			assert.Equal(t, tt.wantStatus, got[0].Status)
			assert.Equal(t, "Sakhir, Bahrain", got[0].RaceLocation)
		})
	}
}

func TestAssembleSingleUnknownWithLap(t *testing.T) {
	a := NewAssembler(model.ModeSingle, nil, WithDriver(33, ""))
	got := a.Assemble(bahrain(), []model.FastestLap{{Seconds: 90}}, model.StatusOK)
	require.Len(t, got, 1)
	assert.Equal(t, "Unknown", got[0].DriverName)
	assert.Equal(t, "33", got[0].DriverNumber)
}

func TestRaceLocation(t *testing.T) {
	s := bahrain()
	assert.Equal(t, "Sakhir, Bahrain", RaceLocation(s))

	s.CountryName = omitnull.Val[string]{}
	assert.Equal(t, "Sakhir, Unknown", RaceLocation(s))

	s.Location = omitnull.From("")
	assert.Equal(t, "Unknown, Unknown", RaceLocation(s))
}

func TestAssembleMissingMetadata(t *testing.T) {
	a := NewAssembler(model.ModeAll, drivers)
	s := model.Session{Year: omitnull.From(2023)}

	got := a.Assemble(s, []model.FastestLap{{DriverNumber: null.From(1), Seconds: 61}}, model.StatusOK)
	require.Len(t, got, 1)
	assert.Equal(t, "Unknown, Unknown", got[0].RaceLocation)
	assert.Equal(t, "N/A", got[0].Date)
	assert.Equal(t, "Unknown", got[0].SessionName)
	assert.Equal(t, "Unknown", got[0].SessionType)
	assert.Equal(t, "1:01.000", got[0].FastestLapTime)
}
