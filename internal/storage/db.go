package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"menuboard/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS sync_runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL,
  rawCount INTEGER NOT NULL DEFAULT 0,
  itemCount INTEGER NOT NULL DEFAULT 0,
  categoryCount INTEGER NOT NULL DEFAULT 0,
  error TEXT NOT NULL DEFAULT '',
  durationMs INTEGER NOT NULL DEFAULT 0,
  timingsJson TEXT NOT NULL DEFAULT '{}',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS menu_items (
  runId INTEGER NOT NULL,
  categoryPos INTEGER NOT NULL,
  itemPos INTEGER NOT NULL,
  category TEXT NOT NULL,
  itemId TEXT NOT NULL,
  name TEXT NOT NULL,
  price REAL NOT NULL,
  description TEXT NOT NULL,
  imageUrl TEXT NOT NULL,
  stock INTEGER NOT NULL,
  available INTEGER NOT NULL,
  PRIMARY KEY(runId, categoryPos, itemPos),
  FOREIGN KEY(runId) REFERENCES sync_runs(id)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// InsertRun records one sync attempt and returns its row id.
func (d *DB) InsertRun(run internal.SyncRunRow, timings map[string]float64) (int64, error) {
	return insertRun(d.conn, run, timings)
}

func insertRun(ex execer, run internal.SyncRunRow, timings map[string]float64) (int64, error) {
	timingsJSON, _ := json.Marshal(timings)
	res, err := ex.Exec(`
INSERT INTO sync_runs (traceId, status, rawCount, itemCount, categoryCount, error, durationMs, timingsJson)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.TraceID, string(run.Status), run.RawCount, run.ItemCount, run.CategoryCount, run.Error, run.DurationMs, string(timingsJSON))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordSuccessfulRun stores a successful run together with its snapshot in a
// single transaction. Nothing is written when any insert fails, so an ok run
// always has its items.
func (d *DB) RecordSuccessfulRun(run internal.SyncRunRow, timings map[string]float64, categories []internal.MenuCategory) (int64, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	runID, err := insertRun(tx, run, timings)
	if err != nil {
		return 0, err
	}
	if err := insertSnapshot(tx, runID, categories); err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// SaveSnapshot stores the ordered categories of an already recorded run.
func (d *DB) SaveSnapshot(runID int64, categories []internal.MenuCategory) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertSnapshot(tx, runID, categories); err != nil {
		return err
	}
	return tx.Commit()
}

func insertSnapshot(tx *sql.Tx, runID int64, categories []internal.MenuCategory) error {
	stmt, err := tx.Prepare(`
INSERT INTO menu_items (
  runId, categoryPos, itemPos, category, itemId, name, price, description, imageUrl, stock, available
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for ci, category := range categories {
		for ii, item := range category.Items {
			if _, err := stmt.Exec(
				runID, ci, ii, category.Name, item.ID, item.Name, item.Price,
				item.Description, item.ImageURL, item.Stock, item.Available,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

// LatestSnapshot returns the categories of the most recent successful run.
// ok is false when no successful run has been stored yet.
func (d *DB) LatestSnapshot() (run internal.SyncRunRow, categories []internal.MenuCategory, ok bool, err error) {
	run, found, err := d.latestRun(internal.RunOK)
	if err != nil || !found {
		return run, nil, false, err
	}
	categories, err = d.SnapshotCategories(int64(run.ID))
	if err != nil {
		return run, nil, false, err
	}
	return run, categories, true, nil
}

func (d *DB) SnapshotCategories(runID int64) ([]internal.MenuCategory, error) {
	rows, err := d.conn.Query(`
SELECT categoryPos, category, itemId, name, price, description, imageUrl, stock, available
FROM menu_items
WHERE runId = ?
ORDER BY categoryPos, itemPos`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]internal.MenuCategory, 0)
	lastPos := -1
	for rows.Next() {
		var pos int
		var item internal.DisplayMenuItem
		if err := rows.Scan(&pos, &item.Category, &item.ID, &item.Name, &item.Price,
			&item.Description, &item.ImageURL, &item.Stock, &item.Available); err != nil {
			return nil, err
		}
		if pos != lastPos {
			out = append(out, internal.MenuCategory{Name: item.Category})
			lastPos = pos
		}
		out[len(out)-1].Items = append(out[len(out)-1].Items, item)
	}
	return out, rows.Err()
}

func (d *DB) latestRun(status internal.RunStatus) (internal.SyncRunRow, bool, error) {
	var r internal.SyncRunRow
	var st string
	err := d.conn.QueryRow(`
SELECT id, traceId, status, rawCount, itemCount, categoryCount, error, durationMs, createdAt
FROM sync_runs WHERE status = ? ORDER BY id DESC LIMIT 1`, string(status)).Scan(
		&r.ID, &r.TraceID, &st, &r.RawCount, &r.ItemCount, &r.CategoryCount, &r.Error, &r.DurationMs, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return internal.SyncRunRow{}, false, nil
	}
	if err != nil {
		return internal.SyncRunRow{}, false, err
	}
	r.Status = internal.RunStatus(st)
	return r, true, nil
}

// ListRuns returns the newest runs first.
func (d *DB) ListRuns(limit int) ([]internal.SyncRunRow, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("invalid limit %d", limit)
	}
	rows, err := d.conn.Query(`
SELECT id, traceId, status, rawCount, itemCount, categoryCount, error, durationMs, createdAt
FROM sync_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.SyncRunRow
	for rows.Next() {
		var r internal.SyncRunRow
		var st string
		if err := rows.Scan(&r.ID, &r.TraceID, &st, &r.RawCount, &r.ItemCount, &r.CategoryCount, &r.Error, &r.DurationMs, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Status = internal.RunStatus(st)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
