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

package metric

import (
	"time"

	"github.com/querykit/metricident/model"
)

// ExpressionOpts bundles the options for creating an Expression metric.
// Expression is mandatory; UsingMetrics must name every metric the formula
// refers to.
type ExpressionOpts struct {
	// Expression is the formula text, e.g. "errors / requests * 100".
	Expression string

	// UsingMetrics maps the identifiers appearing in the formula to
	// metrics. The map is copied on construction.
	UsingMetrics map[string]model.Metric

	// Period is the aggregation window the expression is evaluated over.
	// Zero means the evaluator's default applies.
	Period time.Duration

	// SearchRegion and SearchAccount scope search expressions.
	SearchRegion  string
	SearchAccount string

	// Label and Color are rendering hints.
	Label string
	Color string
}

// An Expression is a metric computed by evaluating a formula over other
// metrics. Expressions are immutable. The embedded KeyCache memoizes the
// canonical identity per instance.
type Expression struct {
	model.KeyCache

	opts ExpressionOpts
}

// NewExpression creates an Expression based on the provided ExpressionOpts.
func NewExpression(opts ExpressionOpts) *Expression {
	using := make(map[string]model.Metric, len(opts.UsingMetrics))
	for id, m := range opts.UsingMetrics {
		using[id] = m
	}
	opts.UsingMetrics = using
	return &Expression{opts: opts}
}

// ToConfig implements model.Metric.
func (e *Expression) ToConfig() *model.Config {
	using := make(map[string]model.Metric, len(e.opts.UsingMetrics))
	for id, m := range e.opts.UsingMetrics {
		using[id] = m
	}
	return &model.Config{
		Expression: &model.ExpressionConfig{
			Expression:    e.opts.Expression,
			UsingMetrics:  using,
			SearchRegion:  e.opts.SearchRegion,
			SearchAccount: e.opts.SearchAccount,
		},
	}
}

// MetricPeriod implements model.PeriodProvider. The period lives on the
// expression object, not in its config; model.Period falls back to its
// default when this returns zero.
func (e *Expression) MetricPeriod() time.Duration { return e.opts.Period }

// Label returns the metric's rendering label.
func (e *Expression) Label() string { return e.opts.Label }

// Color returns the metric's rendering color.
func (e *Expression) Color() string { return e.opts.Color }

func (e *Expression) String() string { return e.opts.Expression }
