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
	"fmt"
	"strings"
	"time"

	"github.com/querykit/metricident/model"
)

// StatOpts bundles the options for creating a Stat metric. Namespace and
// MetricName are mandatory; all other fields can safely be left at their zero
// value. Label and Color only affect how the metric is displayed and never
// participate in its identity.
type StatOpts struct {
	// Namespace names the measurement stream's grouping, e.g. "AWS/EC2".
	Namespace string

	// MetricName names the measurement stream within the namespace.
	MetricName string

	// Dimensions qualify the stream. Their order is preserved and is part
	// of the metric's identity.
	Dimensions []model.Dimension

	// Statistic to aggregate with, e.g. "Average" or "p99".
	Statistic string

	// Period is the aggregation window.
	Period time.Duration

	// Region and Account scope the query to another region or account.
	Region  string
	Account string

	// Label and Color are rendering hints.
	Label string
	Color string
}

// A Stat is a metric backed by a direct statistic query against a named
// measurement stream. Stats are immutable; derive variants with With. The
// embedded KeyCache memoizes the canonical identity per instance.
type Stat struct {
	model.KeyCache

	opts StatOpts
}

// NewStat creates a Stat based on the provided StatOpts. The dimension slice
// is copied, so the caller may reuse or mutate it afterwards.
func NewStat(opts StatOpts) *Stat {
	opts.Dimensions = append([]model.Dimension(nil), opts.Dimensions...)
	return &Stat{opts: opts}
}

// ToConfig implements model.Metric.
func (s *Stat) ToConfig() *model.Config {
	return &model.Config{
		Stat: &model.StatConfig{
			Namespace:  s.opts.Namespace,
			MetricName: s.opts.MetricName,
			Dimensions: append([]model.Dimension(nil), s.opts.Dimensions...),
			Statistic:  s.opts.Statistic,
			Period:     s.opts.Period,
			Region:     s.opts.Region,
			Account:    s.opts.Account,
		},
	}
}

// Label returns the metric's rendering label.
func (s *Stat) Label() string { return s.opts.Label }

// Color returns the metric's rendering color.
func (s *Stat) Color() string { return s.opts.Color }

func (s *Stat) String() string {
	if len(s.opts.Dimensions) == 0 {
		return fmt.Sprintf("%s:%s", s.opts.Namespace, s.opts.MetricName)
	}
	dims := make([]string, 0, len(s.opts.Dimensions))
	for _, d := range s.opts.Dimensions {
		dims = append(dims, fmt.Sprintf("%s=%q", d.Name, d.Value))
	}
	return fmt.Sprintf("%s:%s{%s}", s.opts.Namespace, s.opts.MetricName, strings.Join(dims, ", "))
}

// StatChanges selects the fields With replaces. A nil field keeps the
// receiver's current value.
type StatChanges struct {
	Statistic *string
	Period    *time.Duration
	Region    *string
	Account   *string
	Label     *string
	Color     *string
}

// With derives a Stat with some options replaced. When every requested change
// matches the receiver's current value, the receiver itself is returned, so
// no-op derivations keep sharing one memoized identity.
func (s *Stat) With(c StatChanges) *Stat {
	opts := s.opts
	if c.Statistic != nil {
		opts.Statistic = *c.Statistic
	}
	if c.Period != nil {
		opts.Period = *c.Period
	}
	if c.Region != nil {
		opts.Region = *c.Region
	}
	if c.Account != nil {
		opts.Account = *c.Account
	}
	if c.Label != nil {
		opts.Label = *c.Label
	}
	if c.Color != nil {
		opts.Color = *c.Color
	}

	if opts.Statistic == s.opts.Statistic &&
		opts.Period == s.opts.Period &&
		opts.Region == s.opts.Region &&
		opts.Account == s.opts.Account &&
		opts.Label == s.opts.Label &&
		opts.Color == s.opts.Color {
		return s
	}
	return &Stat{opts: opts}
}
