// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/uzenn/mudwatch/internal/calendar"
	"github.com/uzenn/mudwatch/internal/locations"
	"github.com/uzenn/mudwatch/internal/logger"
	"github.com/uzenn/mudwatch/internal/roadcond"
	"github.com/uzenn/mudwatch/internal/weather"
)

const (
	fetchTimeout  = 30 * time.Second
	lookupTimeout = 30 * time.Second
)

func (s *Service) params() roadcond.Params {
	return roadcond.Params{
		WetThresholdMM: s.config.Road.WetThresholdMM,
		DryAfterDays:   s.config.Road.DryAfterDays,
		HumidityMax:    s.config.Road.HumidityMax,
	}
}

// refreshAll updates every watched location. Failures are logged per
// location, one broken fetch must not starve the others.
func (s *Service) refreshAll(ctx context.Context) {
	for _, loc := range s.registry.All() {
		if err := s.refreshLocation(ctx, loc); err != nil {
			s.logger.Error("failed to refresh location", slog.String("location", loc.Name), logger.Err(err))
		}
	}
}

func (s *Service) refreshLocation(ctx context.Context, loc locations.Location) error {
	if data, ok := s.loadCached(ctx, loc); ok {
		return s.buildSnapshot(ctx, loc, data)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	data, err := s.provider.GetForecast(fetchCtx, loc.Lat, loc.Lon, s.config.Weather.PastDays)
	if err != nil {
		return fmt.Errorf("failed to fetch forecast: %w", err)
	}

	if s.store != nil {
		if err = s.store.Save(ctx, loc.Name, data.Daily, data.GeneratedAt); err != nil {
			s.logger.Error("failed to cache forecast", slog.String("location", loc.Name), logger.Err(err))
		}
	}

	return s.buildSnapshot(ctx, loc, data)
}

// loadCached returns the stored series for a location if it is still fresh.
// The cache only holds the daily series, hourly data is dropped on restart.
func (s *Service) loadCached(ctx context.Context, loc locations.Location) (*weather.Data, bool) {
	if s.store == nil {
		return nil, false
	}
	series, fetchedAt, err := s.store.Load(ctx, loc.Name)
	if err != nil {
		s.logger.Debug("no usable cached forecast", slog.String("location", loc.Name), logger.Err(err))
		return nil, false
	}
	if time.Since(fetchedAt) >= s.config.Cache.TTL {
		return nil, false
	}

	return &weather.Data{
		GeneratedAt: fetchedAt,
		Latitude:    loc.Lat,
		Longitude:   loc.Lon,
		Daily:       series,
	}, true
}

func (s *Service) buildSnapshot(ctx context.Context, loc locations.Location, data *weather.Data) error {
	params := s.params()
	statuses, err := roadcond.Classify(data.Daily, params)
	if err != nil {
		return fmt.Errorf("failed to classify series: %w", err)
	}
	passable, err := roadcond.Passable(data.Daily, params)
	if err != nil {
		return fmt.Errorf("failed to determine passability: %w", err)
	}

	var nextDry time.Time
	nextDry, err = roadcond.NextDryDay(data.Daily, params, time.Now())
	if err != nil {
		if !errors.Is(err, roadcond.ErrNoDryDay) && !errors.Is(err, roadcond.ErrBeforeSeries) {
			return fmt.Errorf("failed to estimate next dry day: %w", err)
		}
		s.logger.Debug("no next dry day estimate", slog.String("location", loc.Name), logger.Err(err))
		nextDry = time.Time{}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()
	surf, err := s.surface.Lookup(lookupCtx, loc.Lat, loc.Lon)
	if err != nil {
		s.logger.Error("failed to look up road surface", slog.String("location", loc.Name), logger.Err(err))
	}

	s.setSnapshot(&Snapshot{
		Location:  loc,
		Data:      data,
		Statuses:  statuses,
		Report:    s.presenter.BuildReport(loc, data, statuses, surf, passable, nextDry),
		UpdatedAt: time.Now(),
	})
	return nil
}

// printReports writes the current report of every location to stdout,
// followed by a calendar grid of the estimated statuses.
func (s *Service) printReports(context.Context) {
	for _, loc := range s.registry.All() {
		s.snapLock.RLock()
		snapshot, ok := s.snapshots[loc.Name]
		s.snapLock.RUnlock()
		if !ok {
			continue
		}

		if err := s.presenter.Render(os.Stdout, snapshot.Report); err != nil {
			s.logger.Error("failed to render report", slog.String("location", loc.Name), logger.Err(err))
			continue
		}
		fmt.Fprintln(os.Stdout)

		grid, err := calendar.Render(snapshot.Data.Daily, snapshot.Statuses, calendar.Options{})
		if err != nil {
			s.logger.Error("failed to render calendar", slog.String("location", loc.Name), logger.Err(err))
			continue
		}
		fmt.Fprintln(os.Stdout, grid)
	}
}
