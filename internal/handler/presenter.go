// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/docpropel/docpropel/internal/roi"
)

// Presenter revenue calculator sliders.
const (
	presenterMinValue     = 100
	presenterMaxValue     = 5000
	presenterValueStep    = 50
	presenterDefaultValue = 500

	presenterMinVolume     = 5
	presenterMaxVolume     = 200
	presenterVolumeStep    = 5
	presenterDefaultVolume = 10

	presenterMinGrowth     = 5
	presenterMaxGrowth     = 100
	presenterGrowthStep    = 5
	presenterDefaultGrowth = 20
)

// Slider is a presenter calculator input.
type Slider struct {
	Name  string
	Label string
	Value int
	Min   int
	Max   int
	Step  int
}

// PresenterData holds data for presenter mode.
type PresenterData struct {
	Slides    []Slide
	Index     int
	Current   Slide
	PrevURL   string
	NextURL   string
	Problems  []Feature
	Solutions []Feature

	Comparisons   []PresenterComparison
	ShowDocPropel bool
	ToggleURL     string

	Sliders   []Slider
	Revenue   roi.RevenueProjection
	NextSteps []string
}

// Presenter handles GET /presenter. The slide, the comparison toggle and
// the calculator sliders travel in the query string so the deck works
// without JavaScript.
func (h *PagesHandler) Presenter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	index := clampInt(queryInt(q, "slide", 0), 0, len(presenterSlides)-1)
	value := snap(queryInt(q, "value", presenterDefaultValue), presenterMinValue, presenterMaxValue, presenterValueStep)
	volume := snap(queryInt(q, "volume", presenterDefaultVolume), presenterMinVolume, presenterMaxVolume, presenterVolumeStep)
	growth := snap(queryInt(q, "growth", presenterDefaultGrowth), presenterMinGrowth, presenterMaxGrowth, presenterGrowthStep)
	showDocPropel := q.Get("model") == "docpropel"

	state := url.Values{}
	state.Set("value", strconv.Itoa(value))
	state.Set("volume", strconv.Itoa(volume))
	state.Set("growth", strconv.Itoa(growth))
	if showDocPropel {
		state.Set("model", "docpropel")
	}

	data := PresenterData{
		Slides:        presenterSlides,
		Index:         index,
		Current:       presenterSlides[index],
		Problems:      presenterProblems,
		Solutions:     presenterSolutions,
		Comparisons:   presenterComparisons,
		ShowDocPropel: showDocPropel,
		Sliders: []Slider{
			{"value", "Avg. Patient Value", value, presenterMinValue, presenterMaxValue, presenterValueStep},
			{"volume", "Monthly Patient Volume", volume, presenterMinVolume, presenterMaxVolume, presenterVolumeStep},
			{"growth", "Projected Growth Rate", growth, presenterMinGrowth, presenterMaxGrowth, presenterGrowthStep},
		},
		Revenue:   roi.ProjectRevenue(float64(value*volume), float64(growth)),
		NextSteps: presenterNextSteps,
	}
	if index > 0 {
		data.PrevURL = presenterURL(state, index-1, showDocPropel)
	}
	if index < len(presenterSlides)-1 {
		data.NextURL = presenterURL(state, index+1, showDocPropel)
	}
	data.ToggleURL = presenterURL(state, index, !showDocPropel)

	h.render(w, r, http.StatusOK, "pages/presenter", h.base(r, "Presenter: "+data.Current.Title, "", data))
}

func presenterURL(state url.Values, slide int, docPropel bool) string {
	q := url.Values{}
	for k, v := range state {
		q[k] = v
	}
	q.Del("model")
	if docPropel {
		q.Set("model", "docpropel")
	}
	q.Set("slide", strconv.Itoa(slide))
	return RoutePresenter + "?" + q.Encode()
}

func queryInt(q url.Values, key string, fallback int) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return fallback
	}
	return n
}

func clampInt(n, lo, hi int) int {
	return min(max(n, lo), hi)
}

// snap clamps n to [lo, hi] and rounds it down to the slider step.
func snap(n, lo, hi, step int) int {
	n = clampInt(n, lo, hi)
	return n - (n-lo)%step
}
