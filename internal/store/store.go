// Package store persists measurement records into a local SQLite database,
// one row per poll. The table mirrors the snapshot one column per attribute
// so downstream tooling can query it without decoding anything.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"finder2db/internal/poller"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS energy (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	device_id INTEGER NOT NULL,
	db_timestamp TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
	device_timestamp INTEGER NOT NULL,
	frequency REAL NOT NULL,
	u1 REAL NOT NULL,
	i1 REAL NOT NULL,
	pt REAL NOT NULL,
	qt REAL NOT NULL,
	st REAL NOT NULL,
	pft INTEGER NOT NULL,
	int_temp REAL NOT NULL,
	u1_thd REAL NOT NULL,
	i1_thd REAL NOT NULL,
	c1_exp INTEGER NOT NULL, c1_mantissa INTEGER NOT NULL,
	c1_val REAL NOT NULL, c1_x10 REAL NOT NULL, c1_float REAL NOT NULL,
	c4_exp INTEGER NOT NULL, c4_mantissa INTEGER NOT NULL,
	c4_val REAL NOT NULL, c4_x10 REAL NOT NULL, c4_float REAL NOT NULL,
	x3_exp INTEGER NOT NULL, x3_mantissa INTEGER NOT NULL,
	x3_val REAL NOT NULL, x3_x10 REAL NOT NULL, x3_float REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS energy_device_time ON energy (device_id, db_timestamp);
`

const insertStmt = `INSERT INTO energy (
	device_id, db_timestamp, device_timestamp,
	frequency, u1, i1, pt, qt, st, pft, int_temp, u1_thd, i1_thd,
	c1_exp, c1_mantissa, c1_val, c1_x10, c1_float,
	c4_exp, c4_mantissa, c4_val, c4_x10, c4_float,
	x3_exp, x3_mantissa, x3_val, x3_x10, x3_float
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteStore writes one row per poll. It implements poller.RecordWriter.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database and ensures the schema exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) WriteRecord(rec poller.Record) error {
	snap := rec.Snapshot
	_, err := s.db.Exec(insertStmt,
		rec.DeviceId,
		rec.PolledAt.UTC().Format(time.RFC3339),
		snap.DeviceTimestamp,
		snap.Frequency, snap.VoltageL1, snap.CurrentL1,
		snap.ActivePowerTotal, snap.ReactivePowerTotal, snap.ApparentPowerTotal,
		snap.PowerFactorTotal, snap.InternalTemperature,
		snap.VoltageTHD, snap.CurrentTHD,
		snap.C1.Exponent, snap.C1.Mantissa, snap.C1.Value, snap.C1.X10Value, snap.C1.FloatValue,
		snap.C4.Exponent, snap.C4.Mantissa, snap.C4.Value, snap.C4.X10Value, snap.C4.FloatValue,
		snap.X3.Exponent, snap.X3.Mantissa, snap.X3.Value, snap.X3.X10Value, snap.X3.FloatValue,
	)
	if err != nil {
		return fmt.Errorf("store: insert record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
