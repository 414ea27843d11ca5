package sessions

import (
	"context"
	"fmt"
	"iter"
	"sort"

	"github.com/aarondl/opt/omitnull"
	"github.com/pkg/errors"

	"f1fastestlaps/log"
	"f1fastestlaps/pkg/model"
)

var ErrNoYears = errors.New("no years given")

// Source delivers the sessions of one year.
type Source interface {
	GetSessions(ctx context.Context, year int, sessionType string) ([]model.Session, error)
}

// YearError marks a year whose sessions could not be retrieved. It is
// distinct from a year that has no sessions at all.
type YearError struct {
	Year int
	Err  error
}

func (e *YearError) Error() string {
	return fmt.Sprintf("sessions of %d: %v", e.Year, e.Err)
}

func (e *YearError) Unwrap() error {
	return e.Err
}

type Enumerator struct {
	source      Source
	sessionType string
}

type Option func(*Enumerator)

// WithSessionType restricts the enumeration to one session type.
func WithSessionType(sessionType string) Option {
	return func(e *Enumerator) {
		e.sessionType = sessionType
	}
}

func NewEnumerator(source Source, opts ...Option) *Enumerator {
	e := &Enumerator{source: source}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sessions yields the sessions of every year in the given order, each year
// sorted by start time. A year that fails yields a single *YearError and the
// enumeration continues with the next year. Cancellation of ctx yields
// ctx.Err() and stops.
func (e *Enumerator) Sessions(ctx context.Context, years []int) iter.Seq2[model.Session, error] {
	return func(yield func(model.Session, error) bool) {
		if len(years) == 0 {
			yield(model.Session{}, ErrNoYears)
			return
		}
		for _, year := range years {
			if err := ctx.Err(); err != nil {
				yield(model.Session{}, err)
				return
			}
			list, err := e.source.GetSessions(ctx, year, e.sessionType)
			if err != nil {
				if ctx.Err() != nil {
					yield(model.Session{}, ctx.Err())
					return
				}
				log.Warn("could not fetch sessions", log.Int("year", year), log.ErrorField(err))
				if !yield(model.Session{}, &YearError{Year: year, Err: err}) {
					return
				}
				continue
			}
			log.Debug("fetched sessions", log.Int("year", year), log.Int("count", len(list)))
			for _, s := range SortByStart(list) {
				s.Year = omitnull.From(year)
				if !yield(s, nil) {
					return
				}
			}
		}
	}
}

// SortByStart returns a copy of list ordered by start time ascending.
// Sessions without a parsable start go last; ties keep source order.
func SortByStart(list []model.Session) []model.Session {
	ret := make([]model.Session, len(list))
	copy(ret, list)
	sort.SliceStable(ret, func(i, j int) bool {
		ti, tj := ret[i].StartTime(), ret[j].StartTime()
		if ti.IsZero() || tj.IsZero() {
			return !ti.IsZero() && tj.IsZero()
		}
		return ti.Before(tj)
	})
	return ret
}
