// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

package roadcond

import (
	"errors"
	"testing"
	"time"

	"github.com/uzenn/mudwatch/internal/vartype"
	"github.com/uzenn/mudwatch/internal/weather"
)

var defaultParams = Params{WetThresholdMM: 5, DryAfterDays: 2, HumidityMax: 90}

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func rainSeries(rain ...float64) weather.Series {
	series := make(weather.Series, 0, len(rain))
	for i, mm := range rain {
		series = append(series, weather.DailyRecord{Day: day(i + 1), Rain: mm, Precipitation: mm})
	}
	return series
}

func TestClassify(t *testing.T) {
	t.Run("empty series yields empty result", func(t *testing.T) {
		statuses, err := Classify(weather.Series{}, defaultParams)
		if err != nil {
			t.Fatalf("failed to classify series: %s", err)
		}
		if len(statuses) != 0 {
			t.Errorf("expected empty result, got %d statuses", len(statuses))
		}
	})
	t.Run("result matches series length and order", func(t *testing.T) {
		series := rainSeries(0, 12, 0, 0, 3, 20, 0)
		statuses, err := Classify(series, defaultParams)
		if err != nil {
			t.Fatalf("failed to classify series: %s", err)
		}
		if len(statuses) != len(series) {
			t.Errorf("expected %d statuses, got %d", len(series), len(statuses))
		}
	})
	t.Run("single day is classified on its own rainfall", func(t *testing.T) {
		statuses, err := Classify(rainSeries(7), defaultParams)
		if err != nil {
			t.Fatalf("failed to classify series: %s", err)
		}
		if statuses[0] != Muddy {
			t.Errorf("expected single wet day to be muddy, got %s", statuses[0])
		}
		statuses, err = Classify(rainSeries(0), defaultParams)
		if err != nil {
			t.Fatalf("failed to classify series: %s", err)
		}
		if statuses[0] != Dry {
			t.Errorf("expected single dry day to be dry, got %s", statuses[0])
		}
	})
	t.Run("day above threshold is always muddy", func(t *testing.T) {
		series := rainSeries(0, 0, 6, 0, 0, 0, 30)
		statuses, err := Classify(series, defaultParams)
		if err != nil {
			t.Fatalf("failed to classify series: %s", err)
		}
		for i, rec := range series {
			if rec.Rain > defaultParams.WetThresholdMM && statuses[i] != Muddy {
				t.Errorf("expected day %d with %f mm to be muddy, got %s", i, rec.Rain, statuses[i])
			}
		}
	})
	t.Run("all dry days stay dry", func(t *testing.T) {
		statuses, err := Classify(rainSeries(0, 0, 0, 0, 0), defaultParams)
		if err != nil {
			t.Fatalf("failed to classify series: %s", err)
		}
		for i, status := range statuses {
			if status != Dry {
				t.Errorf("expected day %d to be dry, got %s", i, status)
			}
		}
	})
	t.Run("road needs two dry days to recover", func(t *testing.T) {
		statuses, err := Classify(rainSeries(10, 0, 0), Params{WetThresholdMM: 1, DryAfterDays: 2})
		if err != nil {
			t.Fatalf("failed to classify series: %s", err)
		}
		want := []Status{Muddy, Muddy, Dry}
		for i, status := range statuses {
			if status != want[i] {
				t.Errorf("expected day %d to be %s, got %s", i, want[i], status)
			}
		}
	})
	t.Run("high humidity extends the muddy period", func(t *testing.T) {
		series := rainSeries(10, 0, 0, 0)
		series[2].Humidity = vartype.NewVariable(95.0)
		statuses, err := Classify(series, defaultParams)
		if err != nil {
			t.Fatalf("failed to classify series: %s", err)
		}
		want := []Status{Muddy, Muddy, Muddy, Dry}
		for i, status := range statuses {
			if status != want[i] {
				t.Errorf("expected day %d to be %s, got %s", i, want[i], status)
			}
		}
	})
	t.Run("humidity rule is ignored when disabled", func(t *testing.T) {
		series := rainSeries(10, 0, 0)
		series[2].Humidity = vartype.NewVariable(99.0)
		statuses, err := Classify(series, Params{WetThresholdMM: 5, DryAfterDays: 2})
		if err != nil {
			t.Fatalf("failed to classify series: %s", err)
		}
		if statuses[2] != Dry {
			t.Errorf("expected day 2 to be dry with humidity rule disabled, got %s", statuses[2])
		}
	})
	t.Run("high humidity without preceding rain does not make mud", func(t *testing.T) {
		series := rainSeries(0, 0)
		series[0].Humidity = vartype.NewVariable(99.0)
		series[1].Humidity = vartype.NewVariable(99.0)
		statuses, err := Classify(series, defaultParams)
		if err != nil {
			t.Fatalf("failed to classify series: %s", err)
		}
		for i, status := range statuses {
			if status != Dry {
				t.Errorf("expected day %d to be dry, got %s", i, status)
			}
		}
	})
	t.Run("negative precipitation is rejected", func(t *testing.T) {
		_, err := Classify(rainSeries(0, -1), defaultParams)
		if err == nil {
			t.Fatal("expected classification to fail")
		}
		if !errors.Is(err, weather.ErrNegativePrecipitation) {
			t.Errorf("expected error to be %s, got %s", weather.ErrNegativePrecipitation, err)
		}
	})
}

func TestNextDryDay(t *testing.T) {
	t.Run("empty series fails", func(t *testing.T) {
		_, err := NextDryDay(weather.Series{}, defaultParams, day(1))
		if !errors.Is(err, ErrEmptySeries) {
			t.Errorf("expected error to be %s, got %s", ErrEmptySeries, err)
		}
	})
	t.Run("reference date before the series fails", func(t *testing.T) {
		_, err := NextDryDay(rainSeries(0, 0), defaultParams, day(1).AddDate(0, 0, -3))
		if !errors.Is(err, ErrBeforeSeries) {
			t.Errorf("expected error to be %s, got %s", ErrBeforeSeries, err)
		}
	})
	t.Run("all-wet series has no dry day", func(t *testing.T) {
		_, err := NextDryDay(rainSeries(10, 12, 9, 30), defaultParams, day(1))
		if !errors.Is(err, ErrNoDryDay) {
			t.Errorf("expected error to be %s, got %s", ErrNoDryDay, err)
		}
	})
	t.Run("first dry day after the mud period is found", func(t *testing.T) {
		got, err := NextDryDay(rainSeries(10, 0, 0, 0), defaultParams, day(1))
		if err != nil {
			t.Fatalf("failed to find next dry day: %s", err)
		}
		if !got.Equal(day(3)) {
			t.Errorf("expected next dry day to be %s, got %s", day(3), got)
		}
	})
	t.Run("result is never before the reference date", func(t *testing.T) {
		series := rainSeries(0, 0, 10, 0, 0, 0)
		got, err := NextDryDay(series, defaultParams, series[0].Day)
		if err != nil {
			t.Fatalf("failed to find next dry day: %s", err)
		}
		if got.Before(series[0].Day) {
			t.Errorf("expected result not to precede %s, got %s", series[0].Day, got)
		}
	})
	t.Run("dry days before the reference date are skipped", func(t *testing.T) {
		got, err := NextDryDay(rainSeries(0, 10, 0, 0), defaultParams, day(2))
		if err != nil {
			t.Fatalf("failed to find next dry day: %s", err)
		}
		if !got.Equal(day(4)) {
			t.Errorf("expected next dry day to be %s, got %s", day(4), got)
		}
	})
	t.Run("reference time of day is normalized to its civil day", func(t *testing.T) {
		got, err := NextDryDay(rainSeries(0, 0), defaultParams, day(1).Add(15*time.Hour))
		if err != nil {
			t.Fatalf("failed to find next dry day: %s", err)
		}
		if !got.Equal(day(1)) {
			t.Errorf("expected next dry day to be %s, got %s", day(1), got)
		}
	})
}

func TestPassable(t *testing.T) {
	t.Run("dry tail is passable", func(t *testing.T) {
		got, err := Passable(rainSeries(20, 0, 0), defaultParams)
		if err != nil {
			t.Fatalf("failed to check passability: %s", err)
		}
		if !got {
			t.Error("expected road to be passable")
		}
	})
	t.Run("recent rain is not passable", func(t *testing.T) {
		got, err := Passable(rainSeries(0, 0, 12), defaultParams)
		if err != nil {
			t.Fatalf("failed to check passability: %s", err)
		}
		if got {
			t.Error("expected road not to be passable")
		}
	})
	t.Run("high humidity in the tail is not passable", func(t *testing.T) {
		series := rainSeries(0, 0, 0)
		series[2].Humidity = vartype.NewVariable(95.0)
		got, err := Passable(series, defaultParams)
		if err != nil {
			t.Fatalf("failed to check passability: %s", err)
		}
		if got {
			t.Error("expected road not to be passable")
		}
	})
	t.Run("empty series is passable", func(t *testing.T) {
		got, err := Passable(weather.Series{}, defaultParams)
		if err != nil {
			t.Fatalf("failed to check passability: %s", err)
		}
		if !got {
			t.Error("expected empty series to be passable")
		}
	})
}
