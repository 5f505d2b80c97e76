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

import "time"

// A Metric denotes one measurable quantity: either a direct statistic query
// against a named measurement stream or a value derived by an expression over
// other metrics. Which of the two it is can be told from its Config.
//
// Metric implementations are immutable by contract. Key relies on that
// immutability to memoize the canonical identity per instance; a Metric that
// mutates after construction voids the memoized result.
type Metric interface {
	// ToConfig returns the resolved, render-agnostic description of the
	// metric's identity-relevant parameters. It must be a pure accessor:
	// repeated calls return equivalent configurations.
	ToConfig() *Config
}

// PeriodProvider is implemented by expression-producing metrics that declare
// an aggregation period of their own, outside their Config. A zero return
// value means no period was declared.
type PeriodProvider interface {
	MetricPeriod() time.Duration
}

// Config describes a metric as a union of two mutually exclusive shapes.
// Exactly one of Stat and Expression is populated for a well-formed metric.
// The union is deliberately open to violation at the type level; Dispatch is
// the single place where violations are detected and reported.
type Config struct {
	// Stat is set if the metric queries a measurement stream directly.
	Stat *StatConfig

	// Expression is set if the metric is computed from other metrics.
	Expression *ExpressionConfig
}

// A Dimension qualifies a measurement stream with a name/value pair.
type Dimension struct {
	Name  string
	Value string
}

// StatConfig describes a direct statistic query. The zero value of Statistic,
// Period, Region, and Account means "unset"; unset optional fields contribute
// nothing to the metric's identity.
type StatConfig struct {
	Namespace  string
	MetricName string

	// Dimensions in caller-declared order. The order is preserved, never
	// sorted, and participates in identity.
	Dimensions []Dimension

	Statistic string
	Period    time.Duration
	Region    string
	Account   string
}

// ExpressionConfig describes a metric derived by evaluating a formula over
// other metrics.
type ExpressionConfig struct {
	// Expression is the formula text.
	Expression string

	// UsingMetrics maps the identifiers appearing in the formula to the
	// metrics they stand for. Keys are unique; iteration order is
	// irrelevant, identity computation imposes a lexicographic order.
	UsingMetrics map[string]Metric

	SearchRegion  string
	SearchAccount string
}
