// Copyright 2026 The Metricident Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import "errors"

var (
	// ErrConflictingRepresentation is returned when a metric's Config
	// populates both the stat and the expression shape. It indicates a
	// construction bug in the code that built the metric.
	ErrConflictingRepresentation = errors.New("metric config populates both stat and expression")

	// ErrMissingRepresentation is returned when a metric's Config populates
	// neither shape.
	ErrMissingRepresentation = errors.New("metric config populates neither stat nor expression")

	// ErrCyclicReference is returned by Key and Fingerprint when an
	// expression metric transitively references itself through
	// UsingMetrics.
	ErrCyclicReference = errors.New("expression metric references itself")
)

// Handlers holds one handler per metric representation. Both must be set
// before a call to Dispatch.
type Handlers[T any] struct {
	// Stat is invoked for a metric backed by a direct statistic query.
	Stat func(stat *StatConfig, cfg *Config) (T, error)

	// Expression is invoked for a metric computed by an expression.
	Expression func(expr *ExpressionConfig, cfg *Config) (T, error)
}

// Dispatch fetches the metric's Config once and invokes exactly one handler
// with the populated variant and the full config, returning the handler's
// result and error verbatim.
//
// Dispatch is the single chokepoint for branching on a metric's
// representation: it is where a malformed union is detected, as
// ErrConflictingRepresentation or ErrMissingRepresentation. Callers should
// never inspect Config's shape directly.
func Dispatch[T any](m Metric, h Handlers[T]) (T, error) {
	cfg := m.ToConfig()
	switch {
	case cfg.Stat != nil && cfg.Expression != nil:
		var zero T
		return zero, ErrConflictingRepresentation
	case cfg.Stat != nil:
		return h.Stat(cfg.Stat, cfg)
	case cfg.Expression != nil:
		return h.Expression(cfg.Expression, cfg)
	default:
		var zero T
		return zero, ErrMissingRepresentation
	}
}
