// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

package surface

import (
	"context"
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"strings"
	"testing"
	"time"

	"github.com/uzenn/mudwatch/internal/http"
	"github.com/uzenn/mudwatch/internal/logger"
	"github.com/uzenn/mudwatch/internal/testhelper"
)

func overpassClient(t *testing.T, body string) *Client {
	t.Helper()
	httpClient := http.New(logger.New(slog.LevelInfo))
	httpClient.Transport = testhelper.MockRoundTripper{Fn: func(req *stdhttp.Request) (*stdhttp.Response, error) {
		return &stdhttp.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(stdhttp.Header),
		}, nil
	}}
	client, err := New(httpClient, logger.New(slog.LevelInfo))
	if err != nil {
		t.Fatalf("failed to create surface client: %s", err)
	}
	return client
}

func TestSurface_Unpaved(t *testing.T) {
	tests := []struct {
		surface Surface
		want    bool
	}{
		{"dirt", true},
		{"unpaved", true},
		{"gravel", true},
		{"ground", true},
		{"asphalt", false},
		{"paved", false},
		{"concrete", false},
		{Unknown, false},
		{NoRoad, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.surface), func(t *testing.T) {
			if got := tc.surface.Unpaved(); got != tc.want {
				t.Errorf("expected Unpaved() for %s to be %t, got %t", tc.surface, tc.want, got)
			}
		})
	}
}

func TestClient_Lookup(t *testing.T) {
	t.Run("surface tag of the first element is returned", func(t *testing.T) {
		client := overpassClient(t, `{"elements":[{"tags":{"highway":"track","surface":"dirt"}}]}`)
		surf, err := client.Lookup(t.Context(), -35.08, -59.03)
		if err != nil {
			t.Fatalf("failed to look up surface: %s", err)
		}
		if surf != "dirt" {
			t.Errorf("expected surface to be dirt, got %s", surf)
		}
		if !surf.Unpaved() {
			t.Error("expected surface to be unpaved")
		}
	})
	t.Run("no elements yields NoRoad", func(t *testing.T) {
		client := overpassClient(t, `{"elements":[]}`)
		surf, err := client.Lookup(t.Context(), -35.08, -59.03)
		if err != nil {
			t.Fatalf("failed to look up surface: %s", err)
		}
		if surf != NoRoad {
			t.Errorf("expected surface to be %s, got %s", NoRoad, surf)
		}
	})
	t.Run("element without surface tag yields Unknown", func(t *testing.T) {
		client := overpassClient(t, `{"elements":[{"tags":{"highway":"track"}}]}`)
		surf, err := client.Lookup(t.Context(), -35.08, -59.03)
		if err != nil {
			t.Fatalf("failed to look up surface: %s", err)
		}
		if surf != Unknown {
			t.Errorf("expected surface to be %s, got %s", Unknown, surf)
		}
	})
	t.Run("failing request surfaces the error", func(t *testing.T) {
		httpClient := http.New(logger.New(slog.LevelInfo))
		httpClient.Transport = testhelper.MockRoundTripper{Fn: func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return nil, errors.New("intentionally failing")
		}}
		client, err := New(httpClient, logger.New(slog.LevelInfo))
		if err != nil {
			t.Fatalf("failed to create surface client: %s", err)
		}
		if _, err = client.Lookup(t.Context(), -35.08, -59.03); err == nil {
			t.Fatal("expected lookup to fail")
		}
	})
}

type countingLookup struct {
	calls   int
	surface Surface
	err     error
}

func (c *countingLookup) Name() string { return "counting" }

func (c *countingLookup) Lookup(_ context.Context, _, _ float64) (Surface, error) {
	c.calls++
	return c.surface, c.err
}

func TestCachedLookup(t *testing.T) {
	t.Run("second lookup within the TTL is served from cache", func(t *testing.T) {
		inner := &countingLookup{surface: "dirt"}
		cached := NewCachedLookup(inner, time.Hour, time.Minute)

		for range 3 {
			surf, err := cached.Lookup(t.Context(), -35.08, -59.03)
			if err != nil {
				t.Fatalf("failed to look up surface: %s", err)
			}
			if surf != "dirt" {
				t.Errorf("expected surface to be dirt, got %s", surf)
			}
		}
		if inner.calls != 1 {
			t.Errorf("expected 1 backend call, got %d", inner.calls)
		}
	})
	t.Run("nearby coordinates share a cache entry", func(t *testing.T) {
		inner := &countingLookup{surface: "gravel"}
		cached := NewCachedLookup(inner, time.Hour, time.Minute)

		if _, err := cached.Lookup(t.Context(), -35.0800, -59.0300); err != nil {
			t.Fatalf("failed to look up surface: %s", err)
		}
		if _, err := cached.Lookup(t.Context(), -35.0801, -59.0302); err != nil {
			t.Fatalf("failed to look up surface: %s", err)
		}
		if inner.calls != 1 {
			t.Errorf("expected 1 backend call, got %d", inner.calls)
		}
	})
	t.Run("expired entries are fetched again", func(t *testing.T) {
		inner := &countingLookup{surface: "dirt"}
		cached := NewCachedLookup(inner, -time.Second, -time.Second)

		if _, err := cached.Lookup(t.Context(), -35.08, -59.03); err != nil {
			t.Fatalf("failed to look up surface: %s", err)
		}
		if _, err := cached.Lookup(t.Context(), -35.08, -59.03); err != nil {
			t.Fatalf("failed to look up surface: %s", err)
		}
		if inner.calls != 2 {
			t.Errorf("expected 2 backend calls, got %d", inner.calls)
		}
	})
	t.Run("errors are not cached", func(t *testing.T) {
		inner := &countingLookup{err: errors.New("intentionally failing")}
		cached := NewCachedLookup(inner, time.Hour, time.Minute)

		if _, err := cached.Lookup(t.Context(), -35.08, -59.03); err == nil {
			t.Fatal("expected lookup to fail")
		}
		if _, err := cached.Lookup(t.Context(), -35.08, -59.03); err == nil {
			t.Fatal("expected lookup to fail")
		}
		if inner.calls != 2 {
			t.Errorf("expected 2 backend calls, got %d", inner.calls)
		}
	})
}
