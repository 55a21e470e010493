// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

// Package testhelper provides shared helpers for the test suites.
package testhelper

import (
	"net/http"
	"os"
	"testing"
)

// TestOnlineAPIURL is an endpoint used by tests that perform real network requests.
const TestOnlineAPIURL = "https://api.open-meteo.com/v1/forecast"

// MockRoundTripper implements http.RoundTripper with a caller-provided function.
type MockRoundTripper struct {
	Fn func(req *http.Request) (*http.Response, error)
}

// RoundTrip satisfies the http.RoundTripper interface.
func (m MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Fn(req)
}

// PerformIntegrationTests skips the calling test unless integration tests
// have been enabled via the TEST_INTEGRATION environment variable.
func PerformIntegrationTests(t *testing.T) {
	t.Helper()
	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled, set TEST_INTEGRATION to enable them")
	}
}
