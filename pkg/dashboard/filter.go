package dashboard

import (
	"slices"

	"github.com/samber/lo"

	"f1fastestlaps/pkg/model"
)

// Query selects a subset of the dataset. Zero values match everything.
type Query struct {
	Year        int    `json:"year"`
	SessionType string `json:"sessionType"`
	Driver      string `json:"driver"`
	SessionName string `json:"sessionName"`
}

// Filter returns the entries matching q, in dataset order.
func Filter(entries []model.FastestLapEntry, q Query) []model.FastestLapEntry {
	return lo.Filter(entries, func(e model.FastestLapEntry, _ int) bool {
		return (q.Year == 0 || e.Year == q.Year) &&
			(q.SessionType == "" || e.SessionType == q.SessionType) &&
			(q.Driver == "" || e.DriverName == q.Driver || e.DriverNumber == q.Driver) &&
			(q.SessionName == "" || e.SessionName == q.SessionName)
	})
}

// Options lists the selectable values of the dataset.
type Options struct {
	Years        []int    `json:"years"`
	SessionTypes []string `json:"sessionTypes"`
	Drivers      []string `json:"drivers"`
	SessionNames []string `json:"sessionNames"`
}

// OptionsOf returns years ascending and every other option in order of
// first appearance.
func OptionsOf(entries []model.FastestLapEntry) Options {
	years := lo.Uniq(lo.Map(entries, func(e model.FastestLapEntry, _ int) int { return e.Year }))
	slices.Sort(years)
	return Options{
		Years:        years,
		SessionTypes: lo.Uniq(lo.Map(entries, func(e model.FastestLapEntry, _ int) string { return e.SessionType })),
		Drivers:      lo.Uniq(lo.Map(entries, func(e model.FastestLapEntry, _ int) string { return e.DriverName })),
		SessionNames: lo.Uniq(lo.Map(entries, func(e model.FastestLapEntry, _ int) string { return e.SessionName })),
	}
}

// DefaultQuery selects the first year and the first session type, the
// initial state of the page.
func DefaultQuery(o Options) Query {
	q := Query{}
	if len(o.Years) > 0 {
		q.Year = o.Years[0]
	}
	if len(o.SessionTypes) > 0 {
		q.SessionType = o.SessionTypes[0]
	}
	return q
}
