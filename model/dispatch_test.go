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

import (
	"errors"
	"testing"
	"time"
)

// fakeMetric returns whatever Config it was built with, including malformed
// unions, so tests can drive every Dispatch branch. It embeds KeyCache so
// identity memoization is exercised the way owned metric types exercise it.
type fakeMetric struct {
	KeyCache

	cfg    *Config
	period time.Duration
}

func (f *fakeMetric) ToConfig() *Config { return f.cfg }

func (f *fakeMetric) MetricPeriod() time.Duration { return f.period }

func stat(s StatConfig) *fakeMetric {
	return &fakeMetric{cfg: &Config{Stat: &s}}
}

func expression(e ExpressionConfig, period time.Duration) *fakeMetric {
	return &fakeMetric{cfg: &Config{Expression: &e}, period: period}
}

func TestDispatchSelectsHandler(t *testing.T) {
	var scenarios = []struct {
		name string
		in   Metric
		out  string
	}{
		{
			name: "stat",
			in:   stat(StatConfig{Namespace: "host", MetricName: "load"}),
			out:  "stat:load",
		},
		{
			name: "expression",
			in:   expression(ExpressionConfig{Expression: "a + b"}, 0),
			out:  "expr:a + b",
		},
	}

	for _, scenario := range scenarios {
		got, err := Dispatch(scenario.in, Handlers[string]{
			Stat: func(s *StatConfig, cfg *Config) (string, error) {
				if cfg.Stat != s {
					t.Errorf("%s: handler did not receive the full config's stat variant", scenario.name)
				}
				return "stat:" + s.MetricName, nil
			},
			Expression: func(e *ExpressionConfig, cfg *Config) (string, error) {
				if cfg.Expression != e {
					t.Errorf("%s: handler did not receive the full config's expression variant", scenario.name)
				}
				return "expr:" + e.Expression, nil
			},
		})
		if err != nil {
			t.Errorf("%s: unexpected error %v", scenario.name, err)
		}
		if got != scenario.out {
			t.Errorf("%s: expected %q, got %q", scenario.name, scenario.out, got)
		}
	}
}

func TestDispatchMalformedUnion(t *testing.T) {
	var scenarios = []struct {
		name string
		cfg  *Config
		err  error
	}{
		{
			name: "both populated",
			cfg: &Config{
				Stat:       &StatConfig{Namespace: "host", MetricName: "load"},
				Expression: &ExpressionConfig{Expression: "a + b"},
			},
			err: ErrConflictingRepresentation,
		},
		{
			name: "neither populated",
			cfg:  &Config{},
			err:  ErrMissingRepresentation,
		},
	}

	for _, scenario := range scenarios {
		m := &fakeMetric{cfg: scenario.cfg}
		_, err := Dispatch(m, Handlers[int]{
			Stat: func(*StatConfig, *Config) (int, error) {
				t.Errorf("%s: stat handler must not run", scenario.name)
				return 0, nil
			},
			Expression: func(*ExpressionConfig, *Config) (int, error) {
				t.Errorf("%s: expression handler must not run", scenario.name)
				return 0, nil
			},
		})
		if !errors.Is(err, scenario.err) {
			t.Errorf("%s: expected %v, got %v", scenario.name, scenario.err, err)
		}
	}
}

func TestDispatchPassesHandlerErrorVerbatim(t *testing.T) {
	handlerErr := errors.New("handler failed")
	m := stat(StatConfig{Namespace: "host", MetricName: "load"})

	_, err := Dispatch(m, Handlers[int]{
		Stat: func(*StatConfig, *Config) (int, error) {
			return 0, handlerErr
		},
		Expression: func(*ExpressionConfig, *Config) (int, error) {
			return 0, nil
		},
	})
	if err != handlerErr {
		t.Errorf("expected the handler's error unwrapped, got %v", err)
	}
}
