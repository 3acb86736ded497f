// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "math"

// Direction is the predicted price movement.
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
	// DirectionNone means the model returned no direction.
	DirectionNone Direction = ""
)

// Prediction is the body of GET /predict/{symbol}.
type Prediction struct {
	Direction  Direction `json:"prediction"`
	Confidence float64   `json:"confidence"`
}

// PredictionStatus describes how far a per-entry prediction fetch got.
type PredictionStatus int

const (
	// PredictionAnalyzing means the fetch has not resolved yet.
	PredictionAnalyzing PredictionStatus = iota
	// PredictionReady means the fetch succeeded.
	PredictionReady
	// PredictionUnavailable means the fetch failed.
	PredictionUnavailable
)

// String returns a short label for the status.
func (s PredictionStatus) String() string {
	switch s {
	case PredictionAnalyzing:
		return "analyzing"
	case PredictionReady:
		return "ready"
	case PredictionUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// PredictionState is the per-symbol slot written by exactly one fetch.
type PredictionState struct {
	Status     PredictionStatus
	Direction  Direction
	Confidence float64
}

// ConfidencePercent returns the confidence rounded to a whole percent.
func (p PredictionState) ConfidencePercent() int {
	return int(math.Round(p.Confidence * 100))
}

// Label returns the text shown on a card: UP, DOWN, N/A or Unavailable.
func (p PredictionState) Label() string {
	switch p.Status {
	case PredictionAnalyzing:
		return "Analyzing..."
	case PredictionUnavailable:
		return "Unavailable"
	}
	if p.Direction == DirectionNone {
		return "N/A"
	}
	return string(p.Direction)
}
