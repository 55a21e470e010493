// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

package open_meteo

import (
	"log/slog"
	"testing"
	"time"

	"github.com/hectormalot/omgo"

	"github.com/uzenn/mudwatch/internal/logger"
	"github.com/uzenn/mudwatch/internal/testhelper"
)

func TestNew(t *testing.T) {
	t.Run("new provider is created with a logger", func(t *testing.T) {
		provider, err := New(logger.New(slog.LevelInfo), "metric")
		if err != nil {
			t.Fatalf("failed to create provider: %s", err)
		}
		if provider.Name() != "open-meteo" {
			t.Errorf("expected provider name to be open-meteo, got %s", provider.Name())
		}
	})
	t.Run("new provider without logger fails", func(t *testing.T) {
		if _, err := New(nil, "metric"); err == nil {
			t.Error("expected provider creation to fail")
		}
	})
}

func TestDataFromForecast(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	forecast := &omgo.Forecast{
		Latitude:  -35.08,
		Longitude: -59.03,
		Elevation: 22,
		HourlyTimes: []time.Time{
			base, base.Add(time.Hour), base.Add(24 * time.Hour),
		},
		HourlyMetrics: map[string][]float64{
			"temperature_2m":            {10, 20, 15},
			"relative_humidity_2m":      {80, 60, 90},
			"precipitation_probability": {40, 60, 10},
			"precipitation":             {1.5, 3, 0},
			"rain":                      {1, 3, 0},
		},
	}

	data := dataFromForecast(forecast)
	if data.Latitude != -35.08 || data.Longitude != -59.03 {
		t.Errorf("expected coordinates to be mapped, got %f, %f", data.Latitude, data.Longitude)
	}
	if len(data.Hourly) != 3 {
		t.Fatalf("expected 3 hourly records, got %d", len(data.Hourly))
	}
	if data.Hourly[1].Temperature != 20 {
		t.Errorf("expected second hourly temperature to be 20, got %f", data.Hourly[1].Temperature)
	}
	if len(data.Daily) != 2 {
		t.Fatalf("expected 2 daily records, got %d", len(data.Daily))
	}
	if data.Daily[0].Rain != 4 {
		t.Errorf("expected first day rain sum to be 4, got %f", data.Daily[0].Rain)
	}
	if !data.Daily[0].Humidity.IsSet() || data.Daily[0].Humidity.Value() != 70 {
		t.Errorf("expected first day mean humidity to be 70, got %s", data.Daily[0].Humidity)
	}
	if err := data.Daily.Validate(); err != nil {
		t.Errorf("expected mapped series to be valid, got: %s", err)
	}
}

func TestDataFromForecast_MissingMetrics(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	forecast := &omgo.Forecast{
		HourlyTimes:   []time.Time{base, base.Add(time.Hour)},
		HourlyMetrics: map[string][]float64{"rain": {2}},
	}

	data := dataFromForecast(forecast)
	if data.Hourly[0].Rain != 2 {
		t.Errorf("expected first hourly rain to be 2, got %f", data.Hourly[0].Rain)
	}
	// index 1 is out of range for the short metric slice
	if data.Hourly[1].Rain != 0 {
		t.Errorf("expected missing value to default to 0, got %f", data.Hourly[1].Rain)
	}
	if data.Hourly[0].Temperature != 0 {
		t.Errorf("expected missing metric to default to 0, got %f", data.Hourly[0].Temperature)
	}
}

func TestOpenMeteo_GetForecast(t *testing.T) {
	t.Run("fetching a live forecast works", func(t *testing.T) {
		testhelper.PerformIntegrationTests(t)
		provider, err := New(logger.New(slog.LevelInfo), "metric")
		if err != nil {
			t.Fatalf("failed to create provider: %s", err)
		}
		data, err := provider.GetForecast(t.Context(), -35.081202, -59.033928, 2)
		if err != nil {
			t.Fatalf("failed to fetch forecast: %s", err)
		}
		if len(data.Daily) == 0 {
			t.Error("expected daily series to be non-empty")
		}
	})
}
