package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"f1fastestlaps/pkg/model"
)

const (
	ColYear           = "Year"
	ColDriverName     = "Driver Name"
	ColDriverNumber   = "Driver Number"
	ColRaceLocation   = "Race Location"
	ColDate           = "Date"
	ColSessionName    = "Session Name"
	ColSessionType    = "Session Type"
	ColFastestLapTime = "Fastest Lap Time"
)

// Header is the column set of every exported dataset, in order.
var Header = []string{
	ColYear,
	ColDriverName,
	ColDriverNumber,
	ColRaceLocation,
	ColDate,
	ColSessionName,
	ColSessionType,
	ColFastestLapTime,
}

var ErrMissingColumn = errors.New("missing column")

// DefaultFileName returns the file a pipeline variant exports to with the
// default driver.
func DefaultFileName(mode model.Mode) string {
	if mode == model.ModeSingle {
		return DriverFileName(model.DefaultDriverNumber)
	}
	return "all_drivers_fastest_laps.csv"
}

// DriverFileName returns the single driver export file of driver number.
func DriverFileName(number int) string {
	if number == model.DefaultDriverNumber {
		return "verstappen_fastest_laps.csv"
	}
	return fmt.Sprintf("driver_%d_fastest_laps.csv", number)
}

// WriteTo writes the header followed by one record per entry.
func WriteTo(w io.Writer, entries []model.FastestLapEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, e := range entries {
		if err := cw.Write(record(e)); err != nil {
			return errors.Wrap(err, "write record")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

// Write replaces path with the dataset. The data goes to a temporary file in
// the same directory first, so a failed export leaves a previous file intact.
func Write(path string, entries []model.FastestLapEntry) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = WriteTo(tmp, entries); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "sync temp file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap(err, "chmod temp file")
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "rename to %s", path)
	}
	return nil
}

// Read parses a dataset. Columns are located by header name, extra columns
// are ignored and a missing one is an error.
func Read(r io.Reader) ([]model.FastestLapEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	head, err := cr.Read()
	if err == io.EOF {
		return nil, errors.Wrap(ErrMissingColumn, "empty file")
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	idx := map[string]int{}
	for i, h := range head {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range Header {
		if _, ok := idx[col]; !ok {
			return nil, errors.Wrapf(ErrMissingColumn, "%q", col)
		}
	}

	var ret []model.FastestLapEntry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read record")
		}
		field := func(col string) string {
			if i := idx[col]; i < len(rec) {
				return rec[i]
			}
			return ""
		}
		year, _ := strconv.Atoi(field(ColYear))
		ret = append(ret, model.FastestLapEntry{
			Year:           year,
			DriverName:     field(ColDriverName),
			DriverNumber:   field(ColDriverNumber),
			RaceLocation:   field(ColRaceLocation),
			Date:           field(ColDate),
			SessionName:    field(ColSessionName),
			SessionType:    field(ColSessionType),
			FastestLapTime: field(ColFastestLapTime),
		})
	}
	return ret, nil
}

// Load reads the dataset stored at path.
func Load(path string) ([]model.FastestLapEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open dataset")
	}
	defer f.Close()
	return Read(f)
}

func record(e model.FastestLapEntry) []string {
	return []string{
		strconv.Itoa(e.Year),
		e.DriverName,
		e.DriverNumber,
		e.RaceLocation,
		e.Date,
		e.SessionName,
		e.SessionType,
		e.FastestLapTime,
	}
}
