package sessions

import (
	"context"
	"testing"

	"github.com/aarondl/opt/omitnull"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1fastestlaps/pkg/model"
)

type fakeSource struct {
	sessions map[int][]model.Session
	failing  map[int]error
	calls    []int
}

func (f *fakeSource) GetSessions(_ context.Context, year int, _ string) ([]model.Session, error) {
	f.calls = append(f.calls, year)
	if err, ok := f.failing[year]; ok {
		return nil, err
	}
	return f.sessions[year], nil
}

func session(key int, date string) model.Session {
	return model.Session{SessionKey: omitnull.From(key), DateStart: omitnull.From(date)}
}

func collect(ctx context.Context, t *testing.T, e *Enumerator, years []int) ([]model.Session, []error) {
	t.Helper()
	var got []model.Session
	var errs []error
	for s, err := range e.Sessions(ctx, years) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		got = append(got, s)
	}
	return got, errs
}

func TestSessionsSortedWithinYear(t *testing.T) {
	src := &fakeSource{sessions: map[int][]model.Session{
		2024: {session(2, "2024-03-10"), session(1, "2024-01-01")},
	}}

	got, errs := collect(context.Background(), t, NewEnumerator(src), []int{2024})
	require.Empty(t, errs)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-01", got[0].Date())
	assert.Equal(t, "2024-03-10", got[1].Date())
	assert.Equal(t, 2024, got[0].Year.GetOrZero())
}

func TestSessionsKeepYearOrder(t *testing.T) {
	src := &fakeSource{sessions: map[int][]model.Session{
		2023: {session(10, "2023-11-26T13:00:00+00:00")},
		2024: {session(20, "2024-03-02T15:00:00+00:00"), session(21, "2024-03-01T16:00:00+00:00")},
	}}

	got, errs := collect(context.Background(), t, NewEnumerator(src), []int{2024, 2023})
	require.Empty(t, errs)
	keys := []int{}
	for _, s := range got {
		keys = append(keys, s.SessionKey.GetOrZero())
	}
	assert.Equal(t, []int{21, 20, 10}, keys)
}

func TestSessionsYearFailureIsDistinguishable(t *testing.T) {
	boom := errors.New("boom")
	src := &fakeSource{
		sessions: map[int][]model.Session{2025: {session(1, "2025-03-16")}},
		failing:  map[int]error{2023: boom},
	}

	got, errs := collect(context.Background(), t, NewEnumerator(src), []int{2023, 2024, 2025})
	assert.Equal(t, []int{2023, 2024, 2025}, src.calls)
	require.Len(t, errs, 1)
	var yerr *YearError
	require.True(t, errors.As(errs[0], &yerr))
	assert.Equal(t, 2023, yerr.Year)
	assert.True(t, errors.Is(errs[0], boom))
	// 2024 had no sessions and produced neither rows nor errors
	require.Len(t, got, 1)
	assert.Equal(t, 2025, got[0].Year.GetOrZero())
}

func TestSessionsNoYears(t *testing.T) {
	_, errs := collect(context.Background(), t, NewEnumerator(&fakeSource{}), nil)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrNoYears)
}

func TestSessionsCancelled(t *testing.T) {
	src := &fakeSource{sessions: map[int][]model.Session{2024: {session(1, "2024-01-01")}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, errs := collect(ctx, t, NewEnumerator(src), []int{2024})
	assert.Empty(t, got)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
	assert.Empty(t, src.calls)
}

func TestSortByStartUndatedLast(t *testing.T) {
	list := []model.Session{{SessionKey: omitnull.From(9)}, session(1, "2024-05-01"), session(2, "2024-04-01")}
	got := SortByStart(list)
	assert.Equal(t, 2, got[0].SessionKey.GetOrZero())
	assert.Equal(t, 1, got[1].SessionKey.GetOrZero())
	assert.Equal(t, 9, got[2].SessionKey.GetOrZero())
	// input untouched
	assert.Equal(t, 9, list[0].SessionKey.GetOrZero())
}
