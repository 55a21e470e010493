// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

// Package roadcond estimates the condition of a dirt road from a daily
// forecast series. A day with rainfall above a threshold makes the road
// muddy; it stays muddy until enough consecutive non-wet days have passed
// and, if configured, the daily mean humidity has dropped again. All
// functions are pure and operate only on their inputs.
package roadcond

import (
	"errors"
	"fmt"
	"time"

	"github.com/uzenn/mudwatch/internal/weather"
)

// Status is the estimated condition of the road on a given day.
type Status int

const (
	Dry Status = iota
	Muddy
)

// String satisfies the fmt.Stringer interface for Status.
func (s Status) String() string {
	switch s {
	case Dry:
		return "dry"
	case Muddy:
		return "muddy"
	}
	return "unknown"
}

// Params are the tunables of the estimator.
type Params struct {
	// WetThresholdMM is the daily rainfall in millimeters above which a day
	// counts as wet.
	WetThresholdMM float64
	// DryAfterDays is the number of consecutive non-wet days required after
	// a wet day before the road reverts to dry.
	DryAfterDays int
	// HumidityMax keeps the road muddy after a wet day while the daily mean
	// relative humidity exceeds it. Zero disables the rule. Days without
	// humidity data are not held back by it.
	HumidityMax float64
}

var (
	ErrEmptySeries  = errors.New("forecast series is empty")
	ErrBeforeSeries = errors.New("reference date precedes the forecast series")
	ErrNoDryDay     = errors.New("no dry day within the forecast series")
)

// Classify returns one status per day of the series, in input order. It
// fails if the series violates its invariants (order, duplicates, negative
// precipitation).
func Classify(series weather.Series, params Params) ([]Status, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	statuses := make([]Status, len(series))
	muddy := false
	sinceWet := 0

	for i, rec := range series {
		switch {
		case rec.Rain > params.WetThresholdMM:
			muddy = true
			sinceWet = 0
			statuses[i] = Muddy
		case muddy:
			sinceWet++
			if sinceWet < params.DryAfterDays || humidityHigh(rec, params) {
				statuses[i] = Muddy
				continue
			}
			muddy = false
			statuses[i] = Dry
		default:
			statuses[i] = Dry
		}
	}

	return statuses, nil
}

// NextDryDay scans forward from the given reference date and returns the
// first day whose estimated status is dry. It returns ErrEmptySeries when
// the series is empty, ErrBeforeSeries when the reference date lies before
// the series and ErrNoDryDay when every remaining day is muddy.
func NextDryDay(series weather.Series, params Params, from time.Time) (time.Time, error) {
	if len(series) == 0 {
		return time.Time{}, ErrEmptySeries
	}

	fromDay := weather.Day(from)
	if fromDay.Before(series[0].Day) {
		return time.Time{}, fmt.Errorf("%w: %s is before %s", ErrBeforeSeries,
			fromDay.Format(time.DateOnly), series[0].Day.Format(time.DateOnly))
	}

	statuses, err := Classify(series, params)
	if err != nil {
		return time.Time{}, err
	}

	for i, rec := range series {
		if rec.Day.Before(fromDay) {
			continue
		}
		if statuses[i] == Dry {
			return rec.Day, nil
		}
	}

	return time.Time{}, ErrNoDryDay
}

// Passable reports whether the road is currently passable: the trailing two
// days of the series are non-wet and within the humidity bound. An empty
// series counts as passable since there is no evidence of rain.
func Passable(series weather.Series, params Params) (bool, error) {
	if err := series.Validate(); err != nil {
		return false, err
	}

	tail := series
	if len(tail) > 2 {
		tail = tail[len(tail)-2:]
	}
	for _, rec := range tail {
		if rec.Rain > params.WetThresholdMM || humidityHigh(rec, params) {
			return false, nil
		}
	}
	return true, nil
}

func humidityHigh(rec weather.DailyRecord, params Params) bool {
	return params.HumidityMax > 0 && rec.Humidity.IsSet() && rec.Humidity.Value() > params.HumidityMax
}
