// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

// Package open_meteo implements the weather.Provider interface on top of
// the Open-Meteo forecast API.
package open_meteo

import (
	"context"
	"fmt"
	"time"

	"github.com/hectormalot/omgo"

	"github.com/uzenn/mudwatch/internal/logger"
	"github.com/uzenn/mudwatch/internal/weather"
)

const name = "open-meteo"

// hourlyMetrics are the metrics the road condition estimator and the charts
// feed on.
var hourlyMetrics = []string{
	"temperature_2m", "relative_humidity_2m", "precipitation_probability", "precipitation", "rain",
}

type OpenMeteo struct {
	units  string
	log    *logger.Logger
	client omgo.Client
}

// New returns a new Open-Meteo provider.
func New(log *logger.Logger, units string) (*OpenMeteo, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	client, err := omgo.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create Open-Meteo client: %w", err)
	}

	return &OpenMeteo{units: units, log: log, client: client}, nil
}

func (o *OpenMeteo) Name() string {
	return name
}

// GetForecast retrieves the hourly forecast including the requested number
// of past days and aggregates it into a daily series.
func (o *OpenMeteo) GetForecast(ctx context.Context, lat, lon float64, pastDays int) (*weather.Data, error) {
	location, err := omgo.NewLocation(lat, lon)
	if err != nil {
		return nil, fmt.Errorf("failed to create Open-Meteo location from coordinates: %w", err)
	}

	opts := &omgo.Options{
		PastDays:      pastDays,
		Timezone:      "auto",
		HourlyMetrics: hourlyMetrics,
	}
	switch o.units {
	case "metric":
		opts.TemperatureUnit = "celsius"
		opts.PrecipitationUnit = "mm"
		opts.WindspeedUnit = "kmh"
	case "imperial":
		opts.TemperatureUnit = "fahrenheit"
		opts.PrecipitationUnit = "inch"
		opts.WindspeedUnit = "mph"
	}

	forecast, err := o.client.Forecast(ctx, location, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve forecast data from Open-Meteo API: %w", err)
	}

	data := dataFromForecast(forecast)
	if err := data.Daily.Validate(); err != nil {
		return nil, fmt.Errorf("Open-Meteo API returned an invalid series: %w", err)
	}

	return data, nil
}

// dataFromForecast maps an omgo forecast into the internal weather model.
// Metrics missing from the response are left at zero rather than failing
// the whole fetch.
func dataFromForecast(forecast *omgo.Forecast) *weather.Data {
	data := &weather.Data{
		GeneratedAt: time.Now(),
		Latitude:    forecast.Latitude,
		Longitude:   forecast.Longitude,
		Elevation:   forecast.Elevation,
	}

	metric := func(key string, idx int) float64 {
		values, ok := forecast.HourlyMetrics[key]
		if !ok || idx >= len(values) {
			return 0
		}
		return values[idx]
	}

	data.Hourly = make([]weather.HourlyRecord, 0, len(forecast.HourlyTimes))
	for i, ts := range forecast.HourlyTimes {
		data.Hourly = append(data.Hourly, weather.HourlyRecord{
			Time:              ts,
			Temperature:       metric("temperature_2m", i),
			Humidity:          metric("relative_humidity_2m", i),
			PrecipProbability: metric("precipitation_probability", i),
			Precipitation:     metric("precipitation", i),
			Rain:              metric("rain", i),
		})
	}
	data.Daily = weather.Aggregate(data.Hourly)

	return data
}
