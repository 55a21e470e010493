// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/uzenn/mudwatch/internal/http"
	"github.com/uzenn/mudwatch/internal/surface"
	"github.com/uzenn/mudwatch/internal/weather"
	openmeteo "github.com/uzenn/mudwatch/internal/weather/provider/open-meteo"
)

const (
	// Road surfaces rarely change, resolved lookups are kept for a day.
	// Misses expire earlier so transient Overpass failures heal.
	surfaceHitTTL  = 24 * time.Hour
	surfaceMissTTL = time.Hour

	// The Overpass API expects polite usage, one request per second is
	// plenty for a handful of locations.
	overpassRPS   = 1
	overpassBurst = 1
)

func (s *Service) selectWeatherProvider() (weather.Provider, error) {
	switch strings.ToLower(s.config.Weather.Provider) {
	case "open-meteo":
		provider, err := openmeteo.New(s.logger, s.config.Units)
		if err != nil {
			return nil, fmt.Errorf("failed to create Open-Meteo weather provider: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unsupported weather provider: %s", s.config.Weather.Provider)
	}
}

func (s *Service) selectSurfaceLookup() (surface.Lookup, error) {
	client, err := surface.New(http.NewRateLimited(s.logger, overpassRPS, overpassBurst), s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create surface lookup: %w", err)
	}
	return surface.NewCachedLookup(client, surfaceHitTTL, surfaceMissTTL), nil
}
