package model

import "github.com/aarondl/opt/null"

const (
	NotAvailable = "N/A"
	Unknown      = "Unknown"
)

// DefaultDriverNumber is the driver exported by the single driver variant
// unless told otherwise, DefaultDriverName the name it is exported under.
const (
	DefaultDriverNumber = 1
	DefaultDriverName   = "Max Verstappen"
)

// Mode selects the driver scope of a fastest lap reduction.
type Mode string

const (
	// ModeSingle reduces the laps of one driver to a single fastest lap.
	ModeSingle Mode = "single"
	// ModeAll reduces every driver independently.
	ModeAll Mode = "all"
)

func (m Mode) Valid() bool {
	return m == ModeSingle || m == ModeAll
}

// Status tells apart the reasons a row ends up as it does. It is not part of
// the exported CSV, both failure kinds render as "N/A" there.
type Status string

const (
	StatusOK          Status = "ok"
	StatusNoLaps      Status = "no_laps"
	StatusFetchFailed Status = "fetch_failed"
)

// FastestLap is the output of the reducer for one driver scope.
type FastestLap struct {
	DriverNumber null.Val[int]
	LapNumber    null.Val[int]
	Seconds      float64
}

// FastestLapEntry is one row of the exported dataset.
type FastestLapEntry struct {
	Year           int    `json:"year"`
	DriverName     string `json:"driverName"`
	DriverNumber   string `json:"driverNumber"`
	RaceLocation   string `json:"raceLocation"`
	Date           string `json:"date"`
	SessionName    string `json:"sessionName"`
	SessionType    string `json:"sessionType"`
	FastestLapTime string `json:"fastestLapTime"`

	SessionKey int    `json:"sessionKey,omitempty"`
	Status     Status `json:"status,omitempty"`
}
