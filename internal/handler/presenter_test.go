// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenter_Navigation(t *testing.T) {
	env := newPagesEnv(t)

	rec := env.get(t, RoutePresenter)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "1 / 6")
	assert.NotContains(t, body, "Previous")
	assert.Contains(t, body, `href="/presenter?growth=20&amp;slide=1&amp;value=500&amp;volume=10"`)
	// Presenter mode replaces the site chrome.
	assert.NotContains(t, body, "site-header")
}

func TestPresenter_SlideClamped(t *testing.T) {
	env := newPagesEnv(t)

	tests := []struct {
		query string
		count string
		title string
	}{
		{"?slide=-3", "1 / 6", "Stop Paying for Promises."},
		{"?slide=99", "6 / 6", "Next Steps"},
		{"?slide=abc", "1 / 6", "Stop Paying for Promises."},
		{"?slide=1", "2 / 6", "The Problem with Traditional Agencies"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			body := env.get(t, RoutePresenter+tt.query).Body.String()
			assert.Contains(t, body, tt.count)
			assert.Contains(t, body, tt.title)
		})
	}

	last := env.get(t, RoutePresenter+"?slide=5").Body.String()
	assert.NotContains(t, last, "Next &rarr;")
	assert.Contains(t, last, "Get Started")
}

func TestPresenter_ComparisonToggle(t *testing.T) {
	env := newPagesEnv(t)

	body := env.get(t, RoutePresenter+"?slide=3").Body.String()
	assert.Contains(t, body, "High Fixed Retainer ($3k-$10k/mo)")
	assert.NotContains(t, body, "Performance-Based (Pay for Results)")
	assert.Contains(t, body, "model=docpropel")

	body = env.get(t, RoutePresenter+"?slide=3&model=docpropel").Body.String()
	assert.Contains(t, body, "Performance-Based (Pay for Results)")
	assert.NotContains(t, body, "High Fixed Retainer ($3k-$10k/mo)")
	assert.Contains(t, body, `aria-checked="true"`)
}

func TestPresenter_RevenueCalculator(t *testing.T) {
	env := newPagesEnv(t)

	// 1000 * 50 = $50,000 a month; 30% growth adds $15,000.
	body := env.get(t, RoutePresenter+"?slide=4&value=1000&volume=50&growth=30").Body.String()
	assert.Contains(t, body, "$50,000")
	assert.Contains(t, body, "$65,000")
	assert.Contains(t, body, "+$15,000")

	// Out-of-range sliders snap into range.
	body = env.get(t, RoutePresenter+"?slide=4&value=99999&volume=1&growth=33").Body.String()
	assert.Contains(t, body, `name="value" min="100" max="5000" step="50" value="5000"`)
	assert.Contains(t, body, `name="volume" min="5" max="200" step="5" value="5"`)
	assert.Contains(t, body, `name="growth" min="5" max="100" step="5" value="30"`)
}

func TestPresenterURL(t *testing.T) {
	state := url.Values{"value": {"500"}, "volume": {"10"}, "growth": {"20"}, "model": {"docpropel"}}

	u, err := url.Parse(presenterURL(state, 2, false))
	require.NoError(t, err)
	assert.Equal(t, RoutePresenter, u.Path)
	assert.Equal(t, "2", u.Query().Get("slide"))
	assert.Empty(t, u.Query().Get("model"))
	assert.Equal(t, "500", u.Query().Get("value"))

	u, err = url.Parse(presenterURL(state, 0, true))
	require.NoError(t, err)
	assert.Equal(t, "docpropel", u.Query().Get("model"))

	// The shared state is not modified.
	assert.Equal(t, "docpropel", state.Get("model"))
	assert.False(t, strings.Contains(state.Encode(), "slide"))
}

func TestSnap(t *testing.T) {
	tests := []struct {
		n, lo, hi, step, want int
	}{
		{500, 100, 5000, 50, 500},
		{525, 100, 5000, 50, 500},
		{99, 100, 5000, 50, 100},
		{6000, 100, 5000, 50, 5000},
		{7, 5, 200, 5, 5},
		{33, 5, 100, 5, 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, snap(tt.n, tt.lo, tt.hi, tt.step), "snap(%d, %d, %d, %d)", tt.n, tt.lo, tt.hi, tt.step)
	}
}
