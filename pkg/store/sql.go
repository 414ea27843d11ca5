package store

import (
	"database/sql"
	"time"

	"f1fastestlaps/pkg/model"
)

func buildCreateTables() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		dataset TEXT NOT NULL,
		mode TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		rows INTEGER NOT NULL,
		warnings INTEGER NOT NULL);`,
		`CREATE TABLE IF NOT EXISTS entries (
		run_id INTEGER NOT NULL REFERENCES runs(id),
		pos INTEGER NOT NULL,
		year INTEGER NOT NULL,
		driver_name TEXT NOT NULL,
		driver_number TEXT NOT NULL,
		race_location TEXT NOT NULL,
		date TEXT NOT NULL,
		session_name TEXT NOT NULL,
		session_type TEXT NOT NULL,
		session_key INTEGER,
		fastest_lap_time TEXT NOT NULL,
		status TEXT NOT NULL,
		PRIMARY KEY (run_id, pos));`,
	}
}

func buildInsertRunCommand(r Run) (string, []any) {
	return `INSERT INTO runs (dataset, mode, started_at, finished_at, rows, warnings)
		VALUES (?, ?, ?, ?, ?, ?)`,
		[]any{
			r.Dataset, string(r.Mode),
			r.StartedAt.UTC().Format(time.RFC3339Nano), r.FinishedAt.UTC().Format(time.RFC3339Nano),
			r.Rows, r.Warnings,
		}
}

func buildInsertEntryCommand() string {
	return `INSERT INTO entries (run_id, pos, year, driver_name, driver_number, race_location,
		date, session_name, session_type, session_key, fastest_lap_time, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
}

func entryArgs(runID int64, pos int, e model.FastestLapEntry) []any {
	return []any{
		runID, pos, e.Year, e.DriverName, e.DriverNumber, e.RaceLocation,
		e.Date, e.SessionName, e.SessionType, e.SessionKey, e.FastestLapTime, string(e.Status),
	}
}

func buildSelectRunsCommand(limit int) (string, []any, func(*sql.Rows) ([]Run, error)) {
	fields := "id, dataset, mode, started_at, finished_at, rows, warnings"
	if limit <= 0 {
		limit = -1
	}
	return `SELECT ` + fields + ` FROM runs ORDER BY id DESC LIMIT ?`, []any{limit}, processSelectRunsRows
}

func processSelectRunsRows(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var r Run
		var mode, started, finished string
		err := rows.Scan(&r.ID, &r.Dataset, &mode, &started, &finished, &r.Rows, &r.Warnings)
		if err != nil {
			return runs, err
		}
		r.Mode = model.Mode(mode)
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func buildSelectEntriesCommand(runID int64) (string, []any, func(*sql.Rows) ([]model.FastestLapEntry, error)) {
	fields := "year, driver_name, driver_number, race_location, date, session_name, session_type, " +
		"session_key, fastest_lap_time, status"
	return `SELECT ` + fields + ` FROM entries WHERE run_id = ? ORDER BY pos`, []any{runID}, processSelectEntriesRows
}

func processSelectEntriesRows(rows *sql.Rows) ([]model.FastestLapEntry, error) {
	defer rows.Close()

	entries := make([]model.FastestLapEntry, 0)
	for rows.Next() {
		var e model.FastestLapEntry
		var status string
		err := rows.Scan(&e.Year, &e.DriverName, &e.DriverNumber, &e.RaceLocation, &e.Date,
			&e.SessionName, &e.SessionType, &e.SessionKey, &e.FastestLapTime, &status)
		if err != nil {
			return entries, err
		}
		e.Status = model.Status(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
