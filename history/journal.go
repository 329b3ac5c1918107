// Copyright (C) 2025 The macshift authors
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

// Package history keeps a SQLite journal of hardware address changes.
// Recording is best-effort: a journal failure must never block a change.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	_ "modernc.org/sqlite" // Pure-Go SQLite3 driver
)

// Journal actions.
const (
	ActionChange  = "change"
	ActionRestore = "restore"
)

// Journal results.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// Entry is one recorded hardware address change.
type Entry struct {
	ID        int64
	At        time.Time
	Interface string
	OldMAC    string
	NewMAC    string
	Action    string
	Result    string
}

// Journal stores change entries in a SQLite database.
type Journal struct {
	db  *sql.DB
	log hclog.Logger
}

// Open opens (or creates) the journal database at path.
func Open(path string, log hclog.Logger) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	j := &Journal{db: db, log: log}
	if err := j.initializeSchema(); err != nil {
		db.Close()
		return nil, err
	}

	log.Debug("history journal opened")
	return j, nil
}

func (j *Journal) initializeSchema() error {
	schemaSQL := `
		CREATE TABLE IF NOT EXISTS changes (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			interface TEXT NOT NULL,
			old_mac   TEXT,
			new_mac   TEXT NOT NULL,
			action    TEXT NOT NULL,
			result    TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_changes_timestamp ON changes(timestamp);
		CREATE INDEX IF NOT EXISTS idx_changes_interface ON changes(interface);
	`

	if _, err := j.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create changes table: %w", err)
	}

	return nil
}

// Record appends an entry to the journal. Timestamps are stored in UTC
// RFC 3339 so lexical and chronological order agree.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}

	insertSQL := `INSERT INTO changes (timestamp, interface, old_mac, new_mac, action, result)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := j.db.ExecContext(ctx, insertSQL,
		at.UTC().Format(time.RFC3339), e.Interface, e.OldMAC, e.NewMAC, e.Action, e.Result)
	if err != nil {
		return fmt.Errorf("failed to record change: %w", err)
	}

	return nil
}

// Recent returns the newest entries first, optionally filtered by
// interface name.
func (j *Journal) Recent(ctx context.Context, limit int, iface string) ([]Entry, error) {
	query := "SELECT id, timestamp, interface, old_mac, new_mac, action, result FROM changes WHERE 1=1"
	args := []interface{}{}

	if iface != "" {
		query += " AND interface = ?"
		args = append(args, iface)
	}

	query += " ORDER BY timestamp DESC, id DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query changes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var timestamp string
		if err := rows.Scan(&e.ID, &timestamp, &e.Interface, &e.OldMAC, &e.NewMAC, &e.Action, &e.Result); err != nil {
			return nil, fmt.Errorf("failed to scan change entry: %w", err)
		}
		if at, err := time.Parse(time.RFC3339, timestamp); err == nil {
			e.At = at
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// ActivityByDay returns change counts per day for the last days days,
// oldest first, one element per day including zero days. The series
// feeds the CLI activity graph.
func (j *Journal) ActivityByDay(ctx context.Context, days int) ([]float64, error) {
	since := time.Now().UTC().AddDate(0, 0, -(days - 1))
	sinceDay := since.Format("2006-01-02")

	query := `SELECT substr(timestamp, 1, 10) AS day, COUNT(*)
		FROM changes WHERE substr(timestamp, 1, 10) >= ? GROUP BY day`
	rows, err := j.db.QueryContext(ctx, query, sinceDay)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		counts[day] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	series := make([]float64, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		series[i] = float64(counts[day])
	}

	return series, nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}
