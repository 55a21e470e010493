// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

// Package surface looks up the surface type of the road nearest to a
// coordinate via the Overpass API. The mud estimate only applies to unpaved
// roads, so the service checks the surface before alarming anyone.
package surface

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/uzenn/mudwatch/internal/http"
	"github.com/uzenn/mudwatch/internal/logger"
)

const (
	name        = "overpass"
	apiEndpoint = "https://overpass-api.de/api/interpreter"
	apiTimeout  = time.Second * 30

	// searchRadius is the radius in meters around the coordinate in which a
	// tagged highway is searched.
	searchRadius = 15
)

// Surface is the OSM surface tag value of a road.
type Surface string

const (
	// Unknown is reported when a road exists but carries no surface tag value
	// we recognize.
	Unknown Surface = "unknown"
	// NoRoad is reported when no tagged highway exists near the coordinate.
	NoRoad Surface = "no road found"
)

// unpavedSurfaces are the OSM surface values that make a road subject to the
// mud estimate.
var unpavedSurfaces = map[Surface]struct{}{
	"compacted":   {},
	"dirt":        {},
	"earth":       {},
	"fine_gravel": {},
	"grass":       {},
	"gravel":      {},
	"ground":      {},
	"mud":         {},
	"sand":        {},
	"unpaved":     {},
}

// Unpaved reports whether the surface is subject to the mud estimate.
func (s Surface) Unpaved() bool {
	_, ok := unpavedSurfaces[s]
	return ok
}

// Lookup is implemented by surface resolvers, cached or not.
type Lookup interface {
	Name() string
	Lookup(ctx context.Context, lat, lon float64) (Surface, error)
}

// Client resolves road surfaces through the Overpass API.
type Client struct {
	http *http.Client
	log  *logger.Logger
}

type response struct {
	Elements []struct {
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// New returns a new Overpass surface client. The HTTP client should be rate
// limited, the Overpass API expects polite usage.
func New(httpClient *http.Client, log *logger.Logger) (*Client, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Client{http: httpClient, log: log}, nil
}

func (c *Client) Name() string {
	return name
}

// Lookup queries the surface tag of the nearest tagged highway.
func (c *Client) Lookup(ctx context.Context, lat, lon float64) (Surface, error) {
	query := fmt.Sprintf("[out:json];way(around:%d,%f,%f)[highway][surface];out tags;",
		searchRadius, lat, lon)
	form := url.Values{}
	form.Set("data", query)

	res := new(response)
	code, err := c.http.PostForm(ctx, apiEndpoint, res, form, apiTimeout)
	if err != nil {
		return Unknown, fmt.Errorf("failed to query the Overpass API: %w", err)
	}
	if code != 200 {
		return Unknown, fmt.Errorf("Overpass API returned non-positive response code: %d", code)
	}

	if len(res.Elements) == 0 {
		return NoRoad, nil
	}
	tag, ok := res.Elements[0].Tags["surface"]
	if !ok || tag == "" {
		return Unknown, nil
	}

	return Surface(tag), nil
}
