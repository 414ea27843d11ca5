package laps

import (
	"slices"

	"github.com/aarondl/opt/null"
	"github.com/samber/lo"

	"f1fastestlaps/pkg/model"
)

// Valid keeps the laps that carry a duration.
func Valid(laps []model.Lap) []model.Lap {
	return lo.Filter(laps, func(l model.Lap, _ int) bool {
		_, ok := l.Duration()
		return ok
	})
}

// Fastest returns the fastest valid lap. On equal durations the lap that
// comes first in laps wins.
func Fastest(laps []model.Lap) (model.FastestLap, bool) {
	valid := Valid(laps)
	if len(valid) == 0 {
		return model.FastestLap{}, false
	}
	best := lo.MinBy(valid, func(a, b model.Lap) bool {
		da, _ := a.Duration()
		db, _ := b.Duration()
		return da < db
	})
	return toFastestLap(best), true
}

// FastestPerDriver returns one fastest lap per driver that has at least one
// valid lap, ordered by driver number. Laps without a driver number are
// ignored.
func FastestPerDriver(laps []model.Lap) []model.FastestLap {
	withDriver := lo.Filter(laps, func(l model.Lap, _ int) bool {
		return l.DriverNumber.IsValue()
	})
	groups := lo.GroupBy(withDriver, func(l model.Lap) int {
		return l.DriverNumber.GetOrZero()
	})
	numbers := lo.Keys(groups)
	slices.Sort(numbers)

	ret := make([]model.FastestLap, 0, len(numbers))
	for _, num := range numbers {
		if best, ok := Fastest(groups[num]); ok {
			ret = append(ret, best)
		}
	}
	return ret
}

// Reducer applies the reduction of one driver scope.
type Reducer struct {
	mode model.Mode
}

func NewReducer(mode model.Mode) Reducer {
	return Reducer{mode: mode}
}

// Reduce returns at most one lap in single mode and one lap per driver in
// all mode.
func (r Reducer) Reduce(laps []model.Lap) []model.FastestLap {
	if r.mode == model.ModeAll {
		return FastestPerDriver(laps)
	}
	if best, ok := Fastest(laps); ok {
		return []model.FastestLap{best}
	}
	return nil
}

func toFastestLap(l model.Lap) model.FastestLap {
	d, _ := l.Duration()
	ret := model.FastestLap{Seconds: d}
	if num, ok := l.DriverNumber.Get(); ok {
		ret.DriverNumber = null.From(num)
	}
	if lap, ok := l.LapNumber.Get(); ok {
		ret.LapNumber = null.From(lap)
	}
	return ret
}
