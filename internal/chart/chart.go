// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

// Package chart renders forecast series as PNG charts.
package chart

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/uzenn/mudwatch/internal/roadcond"
	"github.com/uzenn/mudwatch/internal/weather"
)

const (
	chartWidth  = 800
	chartHeight = 300
)

var (
	rainColor        = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	thresholdColor   = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	humidityColor    = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	temperatureColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// DailyRain renders the daily rain sums with a horizontal marker at the wet
// threshold. Daily mean temperature and humidity are added when the series
// carries them.
func DailyRain(series weather.Series, wetThresholdMM float64) ([]byte, error) {
	if len(series) == 0 {
		return nil, roadcond.ErrEmptySeries
	}

	p := plot.New()
	p.Title.Text = "Daily forecast"
	p.Y.Label.Text = "mm / °C / %"
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 02"}

	points := make(plotter.XYs, 0, len(series))
	temperature := make(plotter.XYs, 0, len(series))
	humidity := make(plotter.XYs, 0, len(series))
	for _, rec := range series {
		x := float64(rec.Day.Unix())
		points = append(points, plotter.XY{X: x, Y: rec.Rain})
		if rec.Temperature.IsSet() {
			temperature = append(temperature, plotter.XY{X: x, Y: rec.Temperature.Value()})
		}
		if rec.Humidity.IsSet() {
			humidity = append(humidity, plotter.XY{X: x, Y: rec.Humidity.Value()})
		}
	}
	rain, err := plotter.NewLine(points)
	if err != nil {
		return nil, fmt.Errorf("failed to create rain line: %w", err)
	}
	rain.Color = rainColor
	p.Add(rain)
	p.Legend.Add("rain", rain)

	threshold, err := plotter.NewLine(plotter.XYs{
		{X: points[0].X, Y: wetThresholdMM},
		{X: points[len(points)-1].X, Y: wetThresholdMM},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create threshold line: %w", err)
	}
	threshold.Color = thresholdColor
	threshold.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(threshold)
	p.Legend.Add("wet threshold", threshold)

	if err = addOptionalLine(p, temperature, "temperature", temperatureColor); err != nil {
		return nil, err
	}
	if err = addOptionalLine(p, humidity, "humidity", humidityColor); err != nil {
		return nil, err
	}

	return encode(p)
}

func addOptionalLine(p *plot.Plot, points plotter.XYs, name string, lineColor color.RGBA) error {
	if len(points) == 0 {
		return nil
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return fmt.Errorf("failed to create %s line: %w", name, err)
	}
	line.Color = lineColor
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

// Hourly renders the hourly precipitation and relative humidity of a
// forecast.
func Hourly(hourly []weather.HourlyRecord) ([]byte, error) {
	if len(hourly) == 0 {
		return nil, roadcond.ErrEmptySeries
	}

	p := plot.New()
	p.Title.Text = "Hourly forecast"
	p.Y.Label.Text = "mm / %"
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 02 15:04"}

	precip := make(plotter.XYs, 0, len(hourly))
	humidity := make(plotter.XYs, 0, len(hourly))
	for _, rec := range hourly {
		x := float64(rec.Time.Unix())
		precip = append(precip, plotter.XY{X: x, Y: rec.Precipitation})
		humidity = append(humidity, plotter.XY{X: x, Y: rec.Humidity})
	}

	precipLine, err := plotter.NewLine(precip)
	if err != nil {
		return nil, fmt.Errorf("failed to create precipitation line: %w", err)
	}
	precipLine.Color = rainColor
	p.Add(precipLine)
	p.Legend.Add("precipitation", precipLine)

	humidityLine, err := plotter.NewLine(humidity)
	if err != nil {
		return nil, fmt.Errorf("failed to create humidity line: %w", err)
	}
	humidityLine.Color = humidityColor
	p.Add(humidityLine)
	p.Legend.Add("humidity", humidityLine)

	return encode(p)
}

func encode(p *plot.Plot) ([]byte, error) {
	writer, err := p.WriterTo(vg.Points(chartWidth), vg.Points(chartHeight), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create chart writer: %w", err)
	}
	buf := bytes.NewBuffer(nil)
	if _, err = writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
