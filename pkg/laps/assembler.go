package laps

import (
	"strconv"

	"github.com/aarondl/opt/null"
	"github.com/aarondl/opt/omitnull"

	"f1fastestlaps/pkg/helper"
	"f1fastestlaps/pkg/model"
)

// Assembler turns reducer output into dataset rows.
type Assembler struct {
	mode    model.Mode
	drivers model.Drivers
	// single mode only
	driverNumber null.Val[int]
	driverName   string
}

type AssemblerOption func(*Assembler)

// WithDriver fixes the driver of a single mode run. A non-empty name takes
// precedence over the lookup.
func WithDriver(number int, name string) AssemblerOption {
	return func(a *Assembler) {
		a.driverNumber = null.From(number)
		a.driverName = name
	}
}

func NewAssembler(mode model.Mode, drivers model.Drivers, opts ...AssemblerOption) *Assembler {
	if drivers == nil {
		drivers = model.Drivers{}
	}
	a := &Assembler{mode: mode, drivers: drivers}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble builds the rows of one session. In single mode a session without
// a fastest lap still produces one "N/A" row, in all mode it produces none.
// status is recorded on placeholder rows, rows with a lap are always ok.
func (a *Assembler) Assemble(s model.Session, fastest []model.FastestLap, status model.Status) []model.FastestLapEntry {
	if len(fastest) == 0 {
		if a.mode == model.ModeAll {
			return nil
		}
		if status == model.StatusOK {
			status = model.StatusNoLaps
		}
		entry := a.base(s)
		entry.DriverName = a.singleName(false)
		entry.DriverNumber = a.singleNumber()
		entry.FastestLapTime = helper.NotAvailable
		entry.Status = status
		return []model.FastestLapEntry{entry}
	}

	ret := make([]model.FastestLapEntry, 0, len(fastest))
	for _, f := range fastest {
		entry := a.base(s)
		if a.mode == model.ModeSingle {
			entry.DriverName = a.singleName(true)
			entry.DriverNumber = a.singleNumber()
		} else {
			entry.DriverName = a.lookup(f.DriverNumber)
			entry.DriverNumber = numberText(f.DriverNumber)
		}
		entry.FastestLapTime = helper.FormatLapTime(null.From(f.Seconds))
		entry.Status = model.StatusOK
		ret = append(ret, entry)
	}
	return ret
}

func (a *Assembler) base(s model.Session) model.FastestLapEntry {
	return model.FastestLapEntry{
		Year:         s.Year.GetOrZero(),
		RaceLocation: RaceLocation(s),
		Date:         s.Date(),
		SessionName:  orUnknown(s.SessionName),
		SessionType:  orUnknown(s.SessionType),
		SessionKey:   s.SessionKey.GetOrZero(),
	}
}

func (a *Assembler) singleName(hasLap bool) string {
	if a.driverName != "" {
		return a.driverName
	}
	if name, ok := a.lookupOK(a.driverNumber); ok {
		return name
	}
	if hasLap {
		return model.Unknown
	}
	return model.NotAvailable
}

func (a *Assembler) singleNumber() string {
	return numberText(a.driverNumber)
}

func (a *Assembler) lookup(num null.Val[int]) string {
	if name, ok := a.lookupOK(num); ok {
		return name
	}
	return model.Unknown
}

func (a *Assembler) lookupOK(num null.Val[int]) (string, bool) {
	n, ok := num.Get()
	if !ok {
		return "", false
	}
	return a.drivers.Name(n)
}

// RaceLocation renders "location, country" with "Unknown" for a missing part.
func RaceLocation(s model.Session) string {
	return orUnknown(s.Location) + ", " + orUnknown(s.CountryName)
}

func orUnknown(v omitnull.Val[string]) string {
	if s, ok := v.Get(); ok && s != "" {
		return s
	}
	return model.Unknown
}

func numberText(num null.Val[int]) string {
	n, ok := num.Get()
	if !ok {
		return model.NotAvailable
	}
	return strconv.Itoa(n)
}
