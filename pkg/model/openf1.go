package model

import (
	"time"

	"github.com/aarondl/opt/omitnull"
)

// Session is one timed activity of a race weekend as delivered by the
// OpenF1 sessions endpoint. Every field may be missing in the payload.
type Session struct {
	SessionKey  omitnull.Val[int]    `json:"session_key"`
	MeetingKey  omitnull.Val[int]    `json:"meeting_key"`
	Year        omitnull.Val[int]    `json:"year"`
	Location    omitnull.Val[string] `json:"location"`
	CountryName omitnull.Val[string] `json:"country_name"`
	CircuitName omitnull.Val[string] `json:"circuit_short_name"`
	DateStart   omitnull.Val[string] `json:"date_start"`
	DateEnd     omitnull.Val[string] `json:"date_end"`
	SessionName omitnull.Val[string] `json:"session_name"`
	SessionType omitnull.Val[string] `json:"session_type"`
}

// StartTime parses date_start. The zero time is returned when the field is
// missing or not an ISO-8601 timestamp.
func (s Session) StartTime() time.Time {
	raw, ok := s.DateStart.Get()
	if !ok {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Date returns the calendar date portion (YYYY-MM-DD) of date_start or "N/A".
func (s Session) Date() string {
	raw, ok := s.DateStart.Get()
	if !ok || len(raw) < len(time.DateOnly) {
		return NotAvailable
	}
	day := raw[:len(time.DateOnly)]
	if _, err := time.Parse(time.DateOnly, day); err != nil {
		return NotAvailable
	}
	return day
}

// Lap is one timed lap. LapDuration is null for out laps, pit laps and
// laps the timing system did not capture.
type Lap struct {
	SessionKey   omitnull.Val[int]     `json:"session_key"`
	DriverNumber omitnull.Val[int]     `json:"driver_number"`
	LapNumber    omitnull.Val[int]     `json:"lap_number"`
	LapDuration  omitnull.Val[float64] `json:"lap_duration"`
}

// Duration returns the lap duration when the lap counts for timing.
func (l Lap) Duration() (float64, bool) {
	d, ok := l.LapDuration.Get()
	if !ok || d <= 0 {
		return 0, false
	}
	return d, true
}

type Driver struct {
	DriverNumber  omitnull.Val[int]    `json:"driver_number"`
	BroadcastName omitnull.Val[string] `json:"broadcast_name"`
	FullName      omitnull.Val[string] `json:"full_name"`
	NameAcronym   omitnull.Val[string] `json:"name_acronym"`
	TeamName      omitnull.Val[string] `json:"team_name"`
	SessionKey    omitnull.Val[int]    `json:"session_key"`
}

// Drivers maps a driver number to its display name.
type Drivers map[int]string

// NewDrivers builds the lookup from the drivers endpoint. Drivers appear
// once per session there, the last occurrence of a number wins.
func NewDrivers(list []Driver) Drivers {
	ret := make(Drivers)
	for _, d := range list {
		num, ok := d.DriverNumber.Get()
		if !ok {
			continue
		}
		name := d.BroadcastName.GetOr(Unknown)
		if name == "" {
			name = Unknown
		}
		ret[num] = name
	}
	return ret
}

// Name returns the display name registered for num.
func (d Drivers) Name(num int) (string, bool) {
	name, ok := d[num]
	return name, ok
}
