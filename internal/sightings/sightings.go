// Package sightings keeps a SQLite history of the access points seen by
// background scans.
package sightings

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// database/sql SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/wifimgr/wifimgr/internal/scancache"
	"github.com/wifimgr/wifimgr/wifi"
)

// Sighting is the accumulated history of one access point.
type Sighting struct {
	BSSID     string
	SSID      string
	Channel   int
	RSSI      int
	AuthMode  wifi.AuthMode
	Hidden    bool
	FirstSeen time.Time
	LastSeen  time.Time
	Count     int
}

// Store persists sightings. It is safe for concurrent use; database/sql
// manages connection pooling and serialization.
type Store struct{ db *sql.DB }

// DSN returns a SQLite DSN for path with the pragmas the store expects.
func DSN(path string) string {
	return "file:" + path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
}

// Open opens the database file at path and prepares the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", DSN(path))
	if err != nil {
		return nil, err
	}
	s, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps db, initializing the schema if absent.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.init(); err != nil {
		return nil, fmt.Errorf("sightings schema: %w", err)
	}
	return s, nil
}

func (s *Store) init() error {
	schema := `CREATE TABLE IF NOT EXISTS sightings (
bssid TEXT PRIMARY KEY,
ssid TEXT NOT NULL,
channel INTEGER NOT NULL,
rssi INTEGER NOT NULL,
authmode INTEGER NOT NULL,
hidden INTEGER NOT NULL DEFAULT 0,
first_seen INTEGER NOT NULL,
last_seen INTEGER NOT NULL,
seen_count INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS sightings_last_seen ON sightings(last_seen);`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func key(r wifi.ScanResult) string {
	if r.BSSID != "" {
		return r.BSSID
	}
	return "ssid:" + r.SSID
}

// Record upserts every result as seen at time at.
func (s *Store) Record(ctx context.Context, results []wifi.ScanResult, at time.Time) error {
	const q = `INSERT INTO sightings (bssid, ssid, channel, rssi, authmode, hidden, first_seen, last_seen, seen_count)
VALUES (?,?,?,?,?,?,?,?,1)
ON CONFLICT(bssid) DO UPDATE SET
ssid=excluded.ssid, channel=excluded.channel, rssi=excluded.rssi, authmode=excluded.authmode,
hidden=excluded.hidden, last_seen=excluded.last_seen, seen_count=seen_count+1`
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for _, r := range results {
		hidden := 0
		if r.Hidden {
			hidden = 1
		}
		if _, err = tx.ExecContext(ctx, q, key(r), r.SSID, r.Channel, r.RSSI, int(r.AuthMode), hidden, at.Unix(), at.Unix()); err != nil {
			return err
		}
	}
	err = tx.Commit()
	return err
}

// Recent returns sightings last seen at or after since, most recent first.
func (s *Store) Recent(ctx context.Context, since time.Time) ([]Sighting, error) {
	const q = `SELECT bssid, ssid, channel, rssi, authmode, hidden, first_seen, last_seen, seen_count
FROM sightings WHERE last_seen >= ? ORDER BY last_seen DESC, rssi DESC`
	rows, err := s.db.QueryContext(ctx, q, since.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sighting
	for rows.Next() {
		var (
			sg          Sighting
			auth, hid   int
			first, last int64
		)
		if err := rows.Scan(&sg.BSSID, &sg.SSID, &sg.Channel, &sg.RSSI, &auth, &hid, &first, &last, &sg.Count); err != nil {
			return nil, err
		}
		sg.AuthMode = wifi.AuthMode(auth)
		sg.Hidden = hid == 1
		sg.FirstSeen = time.Unix(first, 0).UTC()
		sg.LastSeen = time.Unix(last, 0).UTC()
		out = append(out, sg)
	}
	return out, rows.Err()
}

// Prune deletes sightings last seen before t and returns the number removed.
func (s *Store) Prune(ctx context.Context, t time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sightings WHERE last_seen < ?`, t.Unix())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Observer returns a scan cache hook that records every scan.
func (s *Store) Observer(logger *slog.Logger) scancache.Observer {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "sightings")
	return func(results []wifi.ScanResult) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Record(ctx, results, time.Now()); err != nil {
			log.Warn("failed to record scan", "error", err)
		}
	}
}
