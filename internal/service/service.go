// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

// Package service wires the estimator, weather provider, surface lookup and
// presentation together and runs the periodic update and report jobs.
package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/uzenn/mudwatch/internal/config"
	"github.com/uzenn/mudwatch/internal/i18n"
	"github.com/uzenn/mudwatch/internal/locations"
	"github.com/uzenn/mudwatch/internal/logger"
	"github.com/uzenn/mudwatch/internal/presenter"
	"github.com/uzenn/mudwatch/internal/roadcond"
	"github.com/uzenn/mudwatch/internal/server"
	"github.com/uzenn/mudwatch/internal/store"
	"github.com/uzenn/mudwatch/internal/surface"
	"github.com/uzenn/mudwatch/internal/weather"
)

// Snapshot is the latest known state of one watched location.
type Snapshot struct {
	Location  locations.Location
	Data      *weather.Data
	Statuses  []roadcond.Status
	Report    presenter.Report
	UpdatedAt time.Time
}

// Service runs the periodic forecast updates and serves the results.
type Service struct {
	config    *config.Config
	logger    *logger.Logger
	registry  *locations.Registry
	presenter *presenter.Presenter
	provider  weather.Provider
	surface   surface.Lookup
	store     store.Store
	scheduler gocron.Scheduler
	server    *server.Server

	snapLock  sync.RWMutex
	snapshots map[string]*Snapshot
}

// New assembles a Service from the configuration.
func New(conf *config.Config, log *logger.Logger) (*Service, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	registry, err := locations.New(conf.Locations)
	if err != nil {
		return nil, fmt.Errorf("failed to create location registry: %w", err)
	}

	localizer, err := i18n.New(conf.Locale)
	if err != nil {
		return nil, fmt.Errorf("failed to create localizer: %w", err)
	}
	pres, err := presenter.New(conf, localizer)
	if err != nil {
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}

	service := &Service{
		config:    conf,
		logger:    log,
		registry:  registry,
		presenter: pres,
		scheduler: scheduler,
		snapshots: make(map[string]*Snapshot),
	}

	if service.provider, err = service.selectWeatherProvider(); err != nil {
		return nil, err
	}
	if service.surface, err = service.selectSurfaceLookup(); err != nil {
		return nil, err
	}

	if conf.Cache.Path != "" {
		if service.store, err = store.NewSQLite(conf.Cache.Path); err != nil {
			return nil, fmt.Errorf("failed to open forecast cache: %w", err)
		}
	}

	if conf.Server.Enabled {
		service.server = server.New(conf, log, service)
	}

	return service, nil
}

// Run starts the scheduled jobs and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.createScheduledJob(ctx, s.config.Intervals.WeatherUpdate, s.refreshAll,
		"weather_update_job"); err != nil {
		return err
	}
	if err := s.createScheduledJob(ctx, s.config.Intervals.Report, s.printReports,
		"report_output_job"); err != nil {
		return err
	}
	s.scheduler.Start()

	// A SIGHUP forces an immediate refresh and report.
	sigChan := make(chan os.Signal, 1)
	signals := stdLibSignalSource{}
	signals.Notify(sigChan, syscall.SIGHUP)
	defer signals.Stop(sigChan)
	go s.handleRefreshSignal(ctx, sigChan)

	serverErr := make(chan error, 1)
	if s.server != nil {
		go func() {
			serverErr <- s.server.Run(ctx)
		}()
	}

	s.refreshAll(ctx)
	s.printReports(ctx)

	var runErr error
	select {
	case runErr = <-serverErr:
	case <-ctx.Done():
		if s.server != nil {
			runErr = <-serverErr
		}
	}

	if err := s.scheduler.Shutdown(); err != nil {
		s.logger.Error("failed to shut down scheduler", logger.Err(err))
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("failed to close forecast cache", logger.Err(err))
		}
	}
	return runErr
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

// Locations implements server.Source.
func (s *Service) Locations() []locations.Location {
	return s.registry.All()
}

// Nearest implements server.Source.
func (s *Service) Nearest(lat, lon float64) (locations.Location, float64) {
	return s.registry.Nearest(lat, lon)
}

// Report implements server.Source.
func (s *Service) Report(name string) (presenter.Report, bool) {
	snapshot, ok := s.snapshot(name)
	if !ok {
		return presenter.Report{}, false
	}
	return snapshot.Report, true
}

// Forecast implements server.Source.
func (s *Service) Forecast(name string) (*weather.Data, bool) {
	snapshot, ok := s.snapshot(name)
	if !ok {
		return nil, false
	}
	return snapshot.Data, true
}

func (s *Service) snapshot(name string) (*Snapshot, bool) {
	loc, ok := s.registry.Get(name)
	if !ok {
		return nil, false
	}
	s.snapLock.RLock()
	defer s.snapLock.RUnlock()
	snapshot, ok := s.snapshots[loc.Name]
	return snapshot, ok
}

func (s *Service) setSnapshot(snapshot *Snapshot) {
	s.snapLock.Lock()
	defer s.snapLock.Unlock()
	s.snapshots[snapshot.Location.Name] = snapshot
}
