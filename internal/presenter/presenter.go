// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

// Package presenter turns estimator output into user-facing road reports.
// It is a pure consumer: classification happens elsewhere, this package only
// formats.
package presenter

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/es"
	"github.com/vorlif/spreak"
	"golang.org/x/text/language"

	"github.com/uzenn/mudwatch/internal/config"
	"github.com/uzenn/mudwatch/internal/locations"
	"github.com/uzenn/mudwatch/internal/roadcond"
	"github.com/uzenn/mudwatch/internal/surface"
	"github.com/uzenn/mudwatch/internal/weather"
)

// Report is the render-ready view of one location.
type Report struct {
	Location  string
	Latitude  float64
	Longitude float64

	GeneratedAt time.Time
	SunriseTime time.Time
	SunsetTime  time.Time

	Surface surface.Surface
	Unpaved bool

	Days          []DayView
	Passable      bool
	NextDryDay    time.Time
	HasNextDryDay bool
}

// DayView is one day of the report.
type DayView struct {
	Day           time.Time
	Status        roadcond.Status
	Rain          float64
	Precipitation float64
	Temperature   string
	Humidity      string
}

// Presenter renders Reports using the configured template.
type Presenter struct {
	localizer *spreak.Localizer
	humanizer *humanize.Humanizer
	report    *template.Template
}

// New creates a Presenter from the configured report template and locale.
func New(conf *config.Config, localizer *spreak.Localizer) (*Presenter, error) {
	collection := humanize.MustNew(humanize.WithLocale(es.New()))
	pres := &Presenter{
		localizer: localizer,
		humanizer: collection.CreateHumanizer(language.Make(conf.Locale)),
	}

	tpl, err := template.New("report").Funcs(pres.templateFuncMap()).Parse(conf.Templates.Report)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}
	pres.report = tpl

	return pres, nil
}

// BuildReport assembles the view for one location. A zero nextDry time means
// no dry day is in sight.
func (p *Presenter) BuildReport(loc locations.Location, data *weather.Data, statuses []roadcond.Status,
	surf surface.Surface, passable bool, nextDry time.Time,
) Report {
	report := Report{
		Location:      loc.Name,
		Latitude:      loc.Lat,
		Longitude:     loc.Lon,
		GeneratedAt:   data.GeneratedAt,
		Surface:       surf,
		Unpaved:       surf.Unpaved(),
		Passable:      passable,
		NextDryDay:    nextDry,
		HasNextDryDay: !nextDry.IsZero(),
	}

	now := time.Now()
	report.SunriseTime, report.SunsetTime = sunrise.SunriseSunset(loc.Lat, loc.Lon, now.Year(),
		now.Month(), now.Day())

	report.Days = make([]DayView, 0, len(data.Daily))
	for i, rec := range data.Daily {
		view := DayView{
			Day:           rec.Day,
			Rain:          rec.Rain,
			Precipitation: rec.Precipitation,
			Temperature:   rec.Temperature.String(),
			Humidity:      rec.Humidity.String(),
		}
		if i < len(statuses) {
			view.Status = statuses[i]
		}
		report.Days = append(report.Days, view)
	}

	return report
}

// Render writes the report rendered through the configured template.
func (p *Presenter) Render(w io.Writer, report Report) error {
	if err := p.report.Execute(w, report); err != nil {
		return fmt.Errorf("failed to render report template: %w", err)
	}
	return nil
}
