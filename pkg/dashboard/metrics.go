package dashboard

import (
	"sort"

	"github.com/aarondl/opt/null"

	"f1fastestlaps/pkg/helper"
	"f1fastestlaps/pkg/model"
)

type Metrics struct {
	TotalRaces  int               `json:"totalRaces"`
	BestLap     null.Val[float64] `json:"bestLap"`
	BestLapText string            `json:"bestLapText"`
}

func ComputeMetrics(entries []model.FastestLapEntry) Metrics {
	m := Metrics{TotalRaces: len(entries)}
	for _, e := range entries {
		v, ok := helper.ParseLapTime(e.FastestLapTime).Get()
		if !ok {
			continue
		}
		if best, ok := m.BestLap.Get(); !ok || v < best {
			m.BestLap = null.From(v)
		}
	}
	m.BestLapText = helper.FormatSeconds(m.BestLap)
	return m
}

// Row is one entry with its lap time in seconds.
type Row struct {
	model.FastestLapEntry
	LapSeconds null.Val[float64] `json:"lapSeconds"`
}

// Rows converts entries to rows keeping their order.
func Rows(entries []model.FastestLapEntry) []Row {
	ret := make([]Row, 0, len(entries))
	for _, e := range entries {
		ret = append(ret, Row{FastestLapEntry: e, LapSeconds: helper.ParseLapTime(e.FastestLapTime)})
	}
	return ret
}

// ChartRows returns the rows with a lap time, slowest first.
func ChartRows(entries []model.FastestLapEntry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, r := range Rows(entries) {
		if r.LapSeconds.IsValue() {
			rows = append(rows, r)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].LapSeconds.GetOrZero() > rows[j].LapSeconds.GetOrZero()
	})
	return rows
}
