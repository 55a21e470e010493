// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/uzenn/mudwatch/internal/chart"
	"github.com/uzenn/mudwatch/internal/logger"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLocations(w http.ResponseWriter, _ *http.Request) {
	known := s.source.Locations()
	entries := make([]LocationEntry, 0, len(known))
	for _, loc := range known {
		entries = append(entries, LocationEntry{Name: loc.Name, Lat: loc.Lat, Lon: loc.Lon})
	}
	s.writeJSON(w, http.StatusOK, entries)
}

// handleNearest resolves ad-hoc coordinates to the closest watched location.
func (s *Server) handleNearest(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		s.writeError(w, http.StatusBadRequest, "invalid lat parameter")
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		s.writeError(w, http.StatusBadRequest, "invalid lon parameter")
		return
	}

	loc, km := s.source.Nearest(lat, lon)
	s.writeJSON(w, http.StatusOK, NearestResponse{
		Location:   LocationEntry{Name: loc.Name, Lat: loc.Lat, Lon: loc.Lon},
		DistanceKm: km,
	})
}

func (s *Server) handleRoad(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	report, ok := s.source.Report(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "no report for location: "+name)
		return
	}
	s.writeJSON(w, http.StatusOK, roadResponse(report))
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	data, ok := s.source.Forecast(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "no forecast for location: "+name)
		return
	}
	s.writeJSON(w, http.StatusOK, forecastResponse(data))
}

func (s *Server) handleDailyChart(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	data, ok := s.source.Forecast(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "no forecast for location: "+name)
		return
	}
	png, err := chart.DailyRain(data.Daily, s.wetThreshold)
	if err != nil {
		s.logger.Error("failed to render daily chart", "location", name, logger.Err(err))
		s.writeError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	s.writePNG(w, png)
}

func (s *Server) handleHourlyChart(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	data, ok := s.source.Forecast(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "no forecast for location: "+name)
		return
	}
	png, err := chart.Hourly(data.Hourly)
	if err != nil {
		s.logger.Error("failed to render hourly chart", "location", name, logger.Err(err))
		s.writeError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	s.writePNG(w, png)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	index, err := assets.ReadFile("assets/index.html")
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load index")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err = w.Write(index); err != nil {
		s.logger.Error("failed to write index", logger.Err(err))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode JSON response", logger.Err(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	s.writeJSON(w, code, ErrorResponse{Error: message})
}

func (s *Server) writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		s.logger.Error("failed to write chart response", logger.Err(err))
	}
}
