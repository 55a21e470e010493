// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

// Package weather defines the forecast data model shared by the providers,
// the road condition estimator and the presentation layer.
package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uzenn/mudwatch/internal/vartype"
)

var (
	ErrNotChronological      = errors.New("series is not in chronological order")
	ErrDuplicateDay          = errors.New("series contains duplicate days")
	ErrNegativePrecipitation = errors.New("precipitation must be non-negative")
)

// Provider is implemented by each weather API backend.
type Provider interface {
	Name() string
	GetForecast(ctx context.Context, lat, lon float64, pastDays int) (*Data, error)
}

// Data holds one forecast fetch for one coordinate.
type Data struct {
	GeneratedAt time.Time
	Latitude    float64
	Longitude   float64
	Elevation   float64

	Hourly []HourlyRecord
	Daily  Series
}

// HourlyRecord is a single hourly observation or forecast value.
type HourlyRecord struct {
	Time              time.Time
	Temperature       float64
	Humidity          float64
	PrecipProbability float64
	Precipitation     float64 // mm, including snow and showers
	Rain              float64 // mm, liquid rain only
}

// DailyRecord is one day of a forecast series. Precipitation values are
// daily sums, temperature and humidity are daily means. Temperature,
// humidity and precipitation probability are optional since not every
// provider reports them.
type DailyRecord struct {
	Day               time.Time
	Precipitation     float64
	Rain              float64
	Temperature       vartype.VarFloat64
	Humidity          vartype.VarFloat64
	PrecipProbability vartype.VarFloat64
}

// Series is a chronologically ascending sequence of daily records with no
// duplicate days.
type Series []DailyRecord

// Validate checks the series invariants: chronological order, no duplicate
// days and non-negative precipitation values.
func (s Series) Validate() error {
	for i, rec := range s {
		if rec.Precipitation < 0 || rec.Rain < 0 {
			return fmt.Errorf("%w: day %s", ErrNegativePrecipitation, rec.Day.Format(time.DateOnly))
		}
		if i == 0 {
			continue
		}
		switch {
		case rec.Day.Equal(s[i-1].Day):
			return fmt.Errorf("%w: %s", ErrDuplicateDay, rec.Day.Format(time.DateOnly))
		case rec.Day.Before(s[i-1].Day):
			return fmt.Errorf("%w: %s after %s", ErrNotChronological, s[i-1].Day.Format(time.DateOnly),
				rec.Day.Format(time.DateOnly))
		}
	}
	return nil
}

// Day normalizes a point in time to its civil day (midnight, same location).
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
