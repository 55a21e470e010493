// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

package server

import (
	"time"

	"github.com/uzenn/mudwatch/internal/presenter"
	"github.com/uzenn/mudwatch/internal/vartype"
	"github.com/uzenn/mudwatch/internal/weather"
)

// LocationEntry is one watched location in the locations listing.
type LocationEntry struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// NearestResponse is the watched location closest to a queried coordinate.
type NearestResponse struct {
	Location   LocationEntry `json:"location"`
	DistanceKm float64       `json:"distance_km"`
}

// RoadResponse is the road condition report of one location.
type RoadResponse struct {
	Location    string      `json:"location"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	GeneratedAt time.Time   `json:"generated_at"`
	Surface     string      `json:"surface"`
	Unpaved     bool        `json:"unpaved"`
	Passable    bool        `json:"passable"`
	NextDryDay  *string     `json:"next_dry_day,omitempty"`
	Days        []DayStatus `json:"days"`
}

// DayStatus is the estimated status of a single day.
type DayStatus struct {
	Day    string  `json:"day"`
	Status string  `json:"status"`
	RainMM float64 `json:"rain_mm"`
}

// ForecastResponse is the daily forecast series of one location.
type ForecastResponse struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Latitude    float64       `json:"latitude"`
	Longitude   float64       `json:"longitude"`
	Elevation   float64       `json:"elevation"`
	Daily       []ForecastDay `json:"daily"`
}

// ForecastDay is one day of a forecast series. Optional metrics are omitted
// when the provider did not report them.
type ForecastDay struct {
	Day               string   `json:"day"`
	PrecipitationMM   float64  `json:"precipitation_mm"`
	RainMM            float64  `json:"rain_mm"`
	Temperature       *float64 `json:"temperature,omitempty"`
	Humidity          *float64 `json:"humidity,omitempty"`
	PrecipProbability *float64 `json:"precip_probability,omitempty"`
}

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func roadResponse(report presenter.Report) RoadResponse {
	response := RoadResponse{
		Location:    report.Location,
		Latitude:    report.Latitude,
		Longitude:   report.Longitude,
		GeneratedAt: report.GeneratedAt,
		Surface:     string(report.Surface),
		Unpaved:     report.Unpaved,
		Passable:    report.Passable,
		Days:        make([]DayStatus, 0, len(report.Days)),
	}
	if report.HasNextDryDay {
		nextDry := report.NextDryDay.Format(time.DateOnly)
		response.NextDryDay = &nextDry
	}
	for _, day := range report.Days {
		response.Days = append(response.Days, DayStatus{
			Day:    day.Day.Format(time.DateOnly),
			Status: day.Status.String(),
			RainMM: day.Rain,
		})
	}
	return response
}

func forecastResponse(data *weather.Data) ForecastResponse {
	response := ForecastResponse{
		GeneratedAt: data.GeneratedAt,
		Latitude:    data.Latitude,
		Longitude:   data.Longitude,
		Elevation:   data.Elevation,
		Daily:       make([]ForecastDay, 0, len(data.Daily)),
	}
	for _, rec := range data.Daily {
		response.Daily = append(response.Daily, ForecastDay{
			Day:               rec.Day.Format(time.DateOnly),
			PrecipitationMM:   rec.Precipitation,
			RainMM:            rec.Rain,
			Temperature:       optional(rec.Temperature),
			Humidity:          optional(rec.Humidity),
			PrecipProbability: optional(rec.PrecipProbability),
		})
	}
	return response
}

func optional(v vartype.VarFloat64) *float64 {
	if !v.IsSet() {
		return nil
	}
	value := v.Value()
	return &value
}
