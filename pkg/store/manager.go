package store

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"f1fastestlaps/log"
	"f1fastestlaps/pkg/model"
)

// Run is one completed export.
type Run struct {
	ID         int64      `json:"id"`
	Dataset    string     `json:"dataset"`
	Mode       model.Mode `json:"mode"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt time.Time  `json:"finishedAt"`
	Rows       int        `json:"rows"`
	Warnings   int        `json:"warnings"`
}

func (r Run) Took() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

type Manager struct {
	db *sql.DB
	mu sync.Mutex
}

// NewManager opens (and creates if needed) the sqlite database at path.
func NewManager(path string) (*Manager, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	for _, stmt := range buildCreateTables() {
		if _, err = db.Exec(stmt); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "init database")
		}
	}
	return &Manager{db: db}, nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.db.Close()
}

// SaveRun stores the run and its entries in one transaction and returns the
// run with its assigned id.
func (m *Manager) SaveRun(run Run, entries []model.FastestLapEntry) (Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, err := m.db.Begin()
	if err != nil {
		return run, errors.Wrap(err, "begin")
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	run.Rows = len(entries)
	query, args := buildInsertRunCommand(run)
	res, err := tx.Exec(query, args...)
	if err != nil {
		return run, errors.Wrap(err, "insert run")
	}
	if run.ID, err = res.LastInsertId(); err != nil {
		return run, errors.Wrap(err, "run id")
	}

	stmt, err := tx.Prepare(buildInsertEntryCommand())
	if err != nil {
		return run, errors.Wrap(err, "prepare entry insert")
	}
	defer stmt.Close()
	for i, e := range entries {
		if _, err = stmt.Exec(entryArgs(run.ID, i, e)...); err != nil {
			return run, errors.Wrapf(err, "insert entry %d", i)
		}
	}
	if err = tx.Commit(); err != nil {
		return run, errors.Wrap(err, "commit")
	}
	log.Debug("run stored", log.Int64("run", run.ID), log.Int("rows", run.Rows))
	return run, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (m *Manager) ListRuns(limit int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query, args, read := buildSelectRunsCommand(limit)
	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select runs")
	}
	return read(rows)
}

// Entries returns the archived entries of a run in export order.
func (m *Manager) Entries(runID int64) ([]model.FastestLapEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query, args, read := buildSelectEntriesCommand(runID)
	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select entries")
	}
	return read(rows)
}
