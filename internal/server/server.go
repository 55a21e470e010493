// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

// Package server exposes the current road reports over HTTP. It serves a
// small JSON API, rendered charts and a minimal HTML index.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/uzenn/mudwatch/internal/config"
	"github.com/uzenn/mudwatch/internal/locations"
	"github.com/uzenn/mudwatch/internal/logger"
	"github.com/uzenn/mudwatch/internal/presenter"
	"github.com/uzenn/mudwatch/internal/weather"
)

//go:embed assets
var assets embed.FS

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Source provides the server with the latest state per location. It is
// implemented by the service so the server stays free of scheduling and
// provider concerns.
type Source interface {
	Locations() []locations.Location
	Nearest(lat, lon float64) (locations.Location, float64)
	Report(name string) (presenter.Report, bool)
	Forecast(name string) (*weather.Data, bool)
}

// Server is the HTTP frontend of the service.
type Server struct {
	httpServer   *http.Server
	logger       *logger.Logger
	source       Source
	wetThreshold float64
}

// New creates a Server listening on the configured address.
func New(conf *config.Config, l *logger.Logger, source Source) *Server {
	server := &Server{
		logger:       l,
		source:       source,
		wetThreshold: conf.Road.WetThresholdMM,
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", server.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/api/locations", server.handleLocations).Methods(http.MethodGet)
	router.HandleFunc("/api/nearest", server.handleNearest).Methods(http.MethodGet)
	router.HandleFunc("/api/locations/{name}/forecast", server.handleForecast).Methods(http.MethodGet)
	router.HandleFunc("/api/locations/{name}/road", server.handleRoad).Methods(http.MethodGet)
	router.HandleFunc("/charts/{name}/daily.png", server.handleDailyChart).Methods(http.MethodGet)
	router.HandleFunc("/charts/{name}/hourly.png", server.handleHourlyChart).Methods(http.MethodGet)
	router.HandleFunc("/", server.handleIndex).Methods(http.MethodGet)

	server.httpServer = &http.Server{
		Addr:         conf.Server.ListenAddr,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	return server
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "address", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
