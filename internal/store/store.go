// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

// Package store persists fetched forecast series, so a service restart does
// not immediately hammer the weather API again.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/uzenn/mudwatch/internal/vartype"
	"github.com/uzenn/mudwatch/internal/weather"
)

// ErrNotCached is returned when no series has been stored for a location.
var ErrNotCached = errors.New("no cached forecast for location")

// Store is the interface the service uses to persist forecast series.
type Store interface {
	Save(ctx context.Context, location string, series weather.Series, fetchedAt time.Time) error
	Load(ctx context.Context, location string) (weather.Series, time.Time, error)
	Close() error
}

// SQLiteStore implements Store using sqlite (pure Go driver modernc.org/sqlite).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the sqlite database at the given path and
// ensures the schema exists.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS forecast_meta (
			location TEXT PRIMARY KEY,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS forecast_days (
			location TEXT NOT NULL,
			day TEXT NOT NULL,
			precipitation REAL NOT NULL,
			rain REAL NOT NULL,
			temperature REAL,
			humidity REAL,
			precip_probability REAL,
			PRIMARY KEY (location, day)
		)`,
	}
	for _, stmt := range schema {
		if _, err = db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Save replaces the stored series for the given location.
func (s *SQLiteStore) Save(ctx context.Context, location string, series weather.Series, fetchedAt time.Time) error {
	if err := series.Validate(); err != nil {
		return fmt.Errorf("refusing to store invalid series: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM forecast_days WHERE location = ?`, location); err != nil {
		return fmt.Errorf("failed to clear stored series: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO forecast_days
		(location, day, precipitation, rain, temperature, humidity, precip_probability)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, rec := range series {
		_, err = stmt.ExecContext(ctx, location, rec.Day.Format(time.DateOnly), rec.Precipitation,
			rec.Rain, nullable(rec.Temperature), nullable(rec.Humidity), nullable(rec.PrecipProbability))
		if err != nil {
			return fmt.Errorf("failed to insert daily record: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO forecast_meta (location, fetched_at) VALUES (?, ?)
		ON CONFLICT(location) DO UPDATE SET fetched_at = excluded.fetched_at`, location, fetchedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to update forecast metadata: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Load returns the stored series for a location together with its fetch
// time. Freshness is the caller's call, the store just reports the facts.
func (s *SQLiteStore) Load(ctx context.Context, location string) (weather.Series, time.Time, error) {
	var fetchedUnix int64
	err := s.db.QueryRowContext(ctx, `SELECT fetched_at FROM forecast_meta WHERE location = ?`,
		location).Scan(&fetchedUnix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, fmt.Errorf("%w: %s", ErrNotCached, location)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read forecast metadata: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT day, precipitation, rain, temperature, humidity,
		precip_probability FROM forecast_days WHERE location = ? ORDER BY day ASC`, location)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read stored series: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var series weather.Series
	for rows.Next() {
		var (
			day         string
			rec         weather.DailyRecord
			temperature sql.NullFloat64
			humidity    sql.NullFloat64
			probability sql.NullFloat64
		)
		if err = rows.Scan(&day, &rec.Precipitation, &rec.Rain, &temperature, &humidity,
			&probability); err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to scan daily record: %w", err)
		}
		rec.Day, err = time.Parse(time.DateOnly, day)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to parse stored day: %w", err)
		}
		if temperature.Valid {
			rec.Temperature = vartype.NewVariable(temperature.Float64)
		}
		if humidity.Valid {
			rec.Humidity = vartype.NewVariable(humidity.Float64)
		}
		if probability.Valid {
			rec.PrecipProbability = vartype.NewVariable(probability.Float64)
		}
		series = append(series, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to iterate stored series: %w", err)
	}

	return series, time.Unix(fetchedUnix, 0), nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullable(v vartype.VarFloat64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v.Value(), Valid: v.IsSet()}
}
