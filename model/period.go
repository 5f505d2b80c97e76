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

// DefaultPeriod is the aggregation window assumed for expression metrics
// that do not declare one of their own.
const DefaultPeriod = 5 * time.Minute

// Period returns the effective aggregation window of the metric.
//
// For a stat metric it is the configured period, returned verbatim. For an
// expression metric it is the period declared on the expression object itself
// (via PeriodProvider), or DefaultPeriod when none was declared. The metrics
// an expression references are normalized to a single shared period before
// the expression is evaluated, so the resolver never needs to recurse into
// UsingMetrics.
func Period(m Metric) (time.Duration, error) {
	return Dispatch(m, Handlers[time.Duration]{
		Stat: func(s *StatConfig, _ *Config) (time.Duration, error) {
			return s.Period, nil
		},
		Expression: func(_ *ExpressionConfig, _ *Config) (time.Duration, error) {
			if p, ok := m.(PeriodProvider); ok && p.MetricPeriod() != 0 {
				return p.MetricPeriod(), nil
			}
			return DefaultPeriod, nil
		},
	})
}
