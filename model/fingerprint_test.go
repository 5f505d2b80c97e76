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

func mustFingerprint(t testing.TB, m Metric) uint64 {
	t.Helper()
	fp, err := Fingerprint(m)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	return fp
}

func TestFingerprintDeterministic(t *testing.T) {
	build := func() Metric {
		return stat(StatConfig{
			Namespace:  "AWS/EC2",
			MetricName: "CPUUtilization",
			Dimensions: []Dimension{{Name: "InstanceId", Value: "i-123"}},
			Period:     300 * time.Second,
		})
	}
	a, b := build(), build()

	if mustFingerprint(t, a) != mustFingerprint(t, a) {
		t.Error("repeated fingerprints of one instance differ")
	}
	if mustFingerprint(t, a) != mustFingerprint(t, b) {
		t.Error("structurally identical instances fingerprint apart")
	}
}

// Two distinct stats whose field values embed the key separator collapse to
// the same string key; the fingerprint must still tell them apart.
func TestFingerprintResistsSeparatorCollision(t *testing.T) {
	a := stat(StatConfig{Namespace: "app|web", MetricName: "latency"})
	b := stat(StatConfig{Namespace: "app", MetricName: "web|latency"})

	ka, kb := mustKey(t, a), mustKey(t, b)
	if ka != kb {
		t.Fatalf("precondition failed: keys should collide, got %q and %q", ka, kb)
	}
	if mustFingerprint(t, a) == mustFingerprint(t, b) {
		t.Error("fingerprints collided along with the string keys")
	}
}

func TestFingerprintCoversSubMetrics(t *testing.T) {
	build := func(name string) Metric {
		inner := stat(StatConfig{Namespace: "app", MetricName: name})
		return expression(ExpressionConfig{
			Expression:   "RATE(m)",
			UsingMetrics: map[string]Metric{"m": inner},
		}, 0)
	}

	if mustFingerprint(t, build("requests")) == mustFingerprint(t, build("errors")) {
		t.Error("changing a sub-metric must change the fingerprint")
	}
}

func TestFingerprintMalformedAndCyclic(t *testing.T) {
	both := &fakeMetric{cfg: &Config{
		Stat:       &StatConfig{Namespace: "app", MetricName: "x"},
		Expression: &ExpressionConfig{Expression: "x"},
	}}
	if _, err := Fingerprint(both); !errors.Is(err, ErrConflictingRepresentation) {
		t.Errorf("expected ErrConflictingRepresentation, got %v", err)
	}

	cyclic := &fakeMetric{}
	cyclic.cfg = &Config{Expression: &ExpressionConfig{
		Expression:   "m + 1",
		UsingMetrics: map[string]Metric{"m": cyclic},
	}}
	if _, err := Fingerprint(cyclic); !errors.Is(err, ErrCyclicReference) {
		t.Errorf("expected ErrCyclicReference, got %v", err)
	}

	using := map[string]Metric{}
	valueCyclic := mapMetric{using: using}
	using["m"] = valueCyclic
	if _, err := Fingerprint(valueCyclic); !errors.Is(err, ErrCyclicReference) {
		t.Errorf("expected ErrCyclicReference for a non-comparable cycle, got %v", err)
	}
}

func TestFingerprintString(t *testing.T) {
	if got := FingerprintString(42); got != "00000000000000000042" {
		t.Errorf("expected zero-padded width 20, got %q", got)
	}
}

func BenchmarkFingerprint(b *testing.B) {
	m := stat(StatConfig{
		Namespace:  "AWS/EC2",
		MetricName: "CPUUtilization",
		Dimensions: []Dimension{{Name: "InstanceId", Value: "i-123"}},
		Statistic:  "Average",
		Period:     300 * time.Second,
	})
	for i := 0; i < b.N; i++ {
		if _, err := Fingerprint(m); err != nil {
			b.Fatal(err)
		}
	}
}
