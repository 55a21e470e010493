// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

// Package locations holds the named coordinates the service watches.
package locations

import (
	"errors"
	"strings"

	"github.com/umahmood/haversine"

	"github.com/uzenn/mudwatch/internal/config"
)

// ErrNoLocations is returned when the registry is created without entries.
var ErrNoLocations = errors.New("no locations configured")

// Location is a named coordinate.
type Location struct {
	Name string
	Lat  float64
	Lon  float64
}

// Registry is a read-only set of configured locations.
type Registry struct {
	locations []Location
}

// New builds a registry from the configured locations.
func New(confLocations []config.Location) (*Registry, error) {
	if len(confLocations) == 0 {
		return nil, ErrNoLocations
	}
	registry := &Registry{locations: make([]Location, 0, len(confLocations))}
	for _, loc := range confLocations {
		registry.locations = append(registry.locations, Location{Name: loc.Name, Lat: loc.Lat, Lon: loc.Lon})
	}
	return registry, nil
}

// All returns all locations in configuration order.
func (r *Registry) All() []Location {
	return r.locations
}

// Get returns the location with the given name, case-insensitively.
func (r *Registry) Get(name string) (Location, bool) {
	for _, loc := range r.locations {
		if strings.EqualFold(loc.Name, name) {
			return loc, true
		}
	}
	return Location{}, false
}

// Nearest returns the registered location closest to the given coordinate
// and the distance to it in kilometers.
func (r *Registry) Nearest(lat, lon float64) (Location, float64) {
	var nearest Location
	var nearestKm float64

	from := haversine.Coord{Lat: lat, Lon: lon}
	for i, loc := range r.locations {
		_, km := haversine.Distance(from, haversine.Coord{Lat: loc.Lat, Lon: loc.Lon})
		if i == 0 || km < nearestKm {
			nearest = loc
			nearestKm = km
		}
	}
	return nearest, nearestKm
}
