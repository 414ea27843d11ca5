package pipeline

import (
	"context"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/pkg/errors"

	"f1fastestlaps/log"
	"f1fastestlaps/pkg/laps"
	"f1fastestlaps/pkg/model"
	"f1fastestlaps/pkg/sessions"
)

// Source is the part of the OpenF1 client a run needs.
type Source interface {
	sessions.Source
	GetLaps(ctx context.Context, sessionKey int, driver null.Val[int]) ([]model.Lap, error)
	GetDrivers(ctx context.Context) ([]model.Driver, error)
}

type Options struct {
	Mode  model.Mode
	Years []int
	// single mode only
	DriverNumber int
	DriverName   string
	SessionType  string
}

type Warning struct {
	Year       int    `json:"year"`
	SessionKey int    `json:"sessionKey,omitempty"`
	Message    string `json:"message"`
}

type Result struct {
	Entries    []model.FastestLapEntry
	Warnings   []Warning
	Sessions   int
	StartedAt  time.Time
	FinishedAt time.Time
}

type Pipeline struct {
	source Source
	opts   Options
}

func New(source Source, opts Options) (*Pipeline, error) {
	if !opts.Mode.Valid() {
		return nil, errors.Errorf("unknown mode %q", opts.Mode)
	}
	if len(opts.Years) == 0 {
		return nil, sessions.ErrNoYears
	}
	return &Pipeline{source: source, opts: opts}, nil
}

// Run fetches and reduces every session of the configured years, one at a
// time. Source failures become warnings. The only error returned is the
// cancellation of ctx, in which case no result is produced.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{StartedAt: time.Now()}

	drivers := p.driverLookup(ctx, res)
	var assemblerOpts []laps.AssemblerOption
	driverFilter := null.Val[int]{}
	if p.opts.Mode == model.ModeSingle {
		assemblerOpts = append(assemblerOpts, laps.WithDriver(p.opts.DriverNumber, p.opts.DriverName))
		driverFilter = null.From(p.opts.DriverNumber)
	}
	assembler := laps.NewAssembler(p.opts.Mode, drivers, assemblerOpts...)
	reducer := laps.NewReducer(p.opts.Mode)
	enumerator := sessions.NewEnumerator(p.source, sessions.WithSessionType(p.opts.SessionType))

	for s, err := range enumerator.Sessions(ctx, p.opts.Years) {
		if err != nil {
			var yerr *sessions.YearError
			if errors.As(err, &yerr) {
				res.Warnings = append(res.Warnings, Warning{Year: yerr.Year, Message: yerr.Err.Error()})
				continue
			}
			return nil, err
		}
		res.Sessions++
		res.Entries = append(res.Entries, p.processSession(ctx, s, reducer, assembler, driverFilter, res)...)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	res.FinishedAt = time.Now()
	log.Info("run finished",
		log.String("mode", string(p.opts.Mode)),
		log.Int("sessions", res.Sessions),
		log.Int("rows", len(res.Entries)),
		log.Int("warnings", len(res.Warnings)),
		log.Duration("took", res.FinishedAt.Sub(res.StartedAt)))
	return res, nil
}

func (p *Pipeline) processSession(
	ctx context.Context,
	s model.Session,
	reducer laps.Reducer,
	assembler *laps.Assembler,
	driverFilter null.Val[int],
	res *Result,
) []model.FastestLapEntry {
	year := s.Year.GetOrZero()
	key, ok := s.SessionKey.Get()
	if !ok {
		p.warn(res, year, 0, "session without session_key")
		return assembler.Assemble(s, nil, model.StatusFetchFailed)
	}
	list, err := p.source.GetLaps(ctx, key, driverFilter)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		p.warn(res, year, key, err.Error())
		return assembler.Assemble(s, nil, model.StatusFetchFailed)
	}
	fastest := reducer.Reduce(list)
	status := model.StatusOK
	if len(fastest) == 0 {
		status = model.StatusNoLaps
	}
	log.Debug("session processed",
		log.Int("year", year),
		log.Int("session_key", key),
		log.Int("laps", len(list)),
		log.String("status", string(status)))
	return assembler.Assemble(s, fastest, status)
}

func (p *Pipeline) driverLookup(ctx context.Context, res *Result) model.Drivers {
	list, err := p.source.GetDrivers(ctx)
	if err != nil {
		p.warn(res, 0, 0, "drivers: "+err.Error())
		return model.Drivers{}
	}
	return model.NewDrivers(list)
}

func (p *Pipeline) warn(res *Result, year, sessionKey int, msg string) {
	log.Warn("skipping scope",
		log.Int("year", year),
		log.Int("session_key", sessionKey),
		log.String("status", string(model.StatusFetchFailed)),
		log.String("reason", msg))
	res.Warnings = append(res.Warnings, Warning{Year: year, SessionKey: sessionKey, Message: msg})
}
