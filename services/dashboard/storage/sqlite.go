package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	_ "github.com/mattn/go-sqlite3"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const (
	memoryDB           = ":memory:"
	saveTimeout        = 5 * time.Second
	minCleanerInterval = 60
)

var log = logger.GetOrCreate("storage")

// ErrInvalidRetention signals a non-positive retention period
var ErrInvalidRetention = errors.New("invalid retention period")

// sqliteStorage records the applied readings so they can be replayed later
type sqliteStorage struct {
	db               *sql.DB
	retentionSeconds int
	timeProvider     func() time.Time
	cancelFunc       context.CancelFunc
	wg               sync.WaitGroup
}

// NewSQLiteStorage creates the database, schema, and starts the retention cleaner
func NewSQLiteStorage(dbPath string, retentionSeconds int) (*sqliteStorage, error) {
	if retentionSeconds <= 0 {
		return nil, ErrInvalidRetention
	}

	if dbPath != memoryDB {
		err := prepareDirectories(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create initial empty DB file: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	err = createSchema(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &sqliteStorage{
		db:               db,
		retentionSeconds: retentionSeconds,
		timeProvider:     time.Now,
		cancelFunc:       cancel,
	}

	s.startRetentionCleaner(ctx)

	return s, nil
}

func prepareDirectories(dbPath string) error {
	return os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS readings (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT    NOT NULL,
		name_key    TEXT    NOT NULL,
		value       REAL    NOT NULL,
		unit        TEXT    NOT NULL,
		recorded_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_readings_name_key ON readings(name_key);
	CREATE INDEX IF NOT EXISTS idx_readings_recorded_at ON readings(recorded_at);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SaveReading appends one recorded reading
func (s *sqliteStorage) SaveReading(reading common.RecordedReading) error {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO readings (name, name_key, value, unit, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`, reading.Name, common.NormalizeName(reading.Name), reading.Value, reading.Unit, reading.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}

	return nil
}

// GetReadings returns up to limit readings recorded at or after since (unix millis), in recording order.
// A non-positive limit returns every matching reading.
func (s *sqliteStorage) GetReadings(ctx context.Context, since int64, limit int) ([]common.RecordedReading, error) {
	query := `
		SELECT name, value, unit, recorded_at
		FROM readings
		WHERE recorded_at >= ?
		ORDER BY recorded_at, id
	`
	args := []interface{}{since}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	return scanReadings(rows)
}

// GetReadingHistory returns the latest limit readings of the metric, oldest first. The name match is case-insensitive.
func (s *sqliteStorage) GetReadingHistory(ctx context.Context, name string, limit int) ([]common.RecordedReading, error) {
	if limit <= 0 {
		return make([]common.RecordedReading, 0), nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, value, unit, recorded_at FROM (
			SELECT id, name, value, unit, recorded_at
			FROM readings
			WHERE name_key = ?
			ORDER BY recorded_at DESC, id DESC
			LIMIT ?
		) ORDER BY recorded_at, id
	`, common.NormalizeName(strings.TrimSpace(name)), limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	return scanReadings(rows)
}

func scanReadings(rows *sql.Rows) ([]common.RecordedReading, error) {
	defer func() {
		_ = rows.Close()
	}()

	results := make([]common.RecordedReading, 0)
	for rows.Next() {
		var r common.RecordedReading

		err := rows.Scan(&r.Name, &r.Value, &r.Unit, &r.RecordedAt)
		if err != nil {
			return nil, err
		}

		results = append(results, r)
	}

	return results, rows.Err()
}

// cleanRetainedReadings executes the retention cleanup query synchronously
func (s *sqliteStorage) cleanRetainedReadings(ctx context.Context) (int64, error) {
	cutoff := s.timeProvider().Add(-time.Duration(s.retentionSeconds) * time.Second).UnixMilli()
	result, err := s.db.ExecContext(ctx, "DELETE FROM readings WHERE recorded_at < ?", cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (s *sqliteStorage) startRetentionCleaner(ctx context.Context) {
	s.wg.Add(1)

	// max(RetentionSeconds/10, 60)
	intervalSec := s.retentionSeconds / 10
	if intervalSec < minCleanerInterval {
		intervalSec = minCleanerInterval
	}

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)

	go func() {
		defer s.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.cleanRetainedReadings(ctx)
				if err != nil {
					log.Warn("failed to cleanup retained readings", "error", err)
					continue
				}
				log.Debug("retention cleanup done", "removed", removed)
			}
		}
	}()
}

// Close closes the database and stops background routines
func (s *sqliteStorage) Close() error {
	s.cancelFunc()
	s.wg.Wait()
	return s.db.Close()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *sqliteStorage) IsInterfaceNil() bool {
	return s == nil
}
