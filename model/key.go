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
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// keySeparator joins the canonical parts of an identity key. A field value
// containing the separator can make two distinct metrics share a key; use
// Fingerprint where that matters.
const keySeparator = "|"

// maxNesting bounds expression recursion. Legitimate expression trees are
// shallow; a chain deeper than this is a cycle that escaped exact detection,
// which can only happen through metrics of non-comparable dynamic types
// since those cannot be tracked in the visited set.
const maxNesting = 100

// A KeyCache is single-assignment storage for a metric's memoized canonical
// key. Metric implementations that embed it have their key computed once per
// instance: the first fully computed value is published atomically and kept
// for the life of the instance, which is sound only because metrics are
// immutable after construction. Implementations without it are recomputed on
// every call; identity computation must not pin metrics it does not own.
type KeyCache struct {
	key atomic.Pointer[string]
}

func (c *KeyCache) metricKeyCache() *KeyCache { return c }

type keyCached interface {
	metricKeyCache() *KeyCache
}

// Key returns a stable canonical identity for the metric. Two metrics receive
// equal keys iff they denote the same measurable quantity under the same
// aggregation parameters; purely cosmetic properties such as display labels
// or colors never reach the Config and so never influence the key.
//
// Metrics that embed KeyCache memoize the result per instance; all others
// are computed on every call.
func Key(m Metric) (string, error) {
	return keyFor(m, make(map[Metric]bool), 0)
}

func keyFor(m Metric, visiting map[Metric]bool, depth int) (string, error) {
	var cache *KeyCache
	if kc, ok := m.(keyCached); ok {
		cache = kc.metricKeyCache()
		if p := cache.key.Load(); p != nil {
			return *p, nil
		}
	}

	if depth > maxNesting {
		return "", ErrCyclicReference
	}
	if reflect.TypeOf(m).Comparable() {
		if visiting[m] {
			return "", ErrCyclicReference
		}
		visiting[m] = true
		defer delete(visiting, m)
	}

	parts, err := keyParts(m, visiting, depth)
	if err != nil {
		return "", err
	}
	k := strings.Join(parts, keySeparator)
	if cache != nil {
		// Keep the first published value; a racing writer computed the
		// identical string anyway.
		cache.key.CompareAndSwap(nil, &k)
		return *cache.key.Load(), nil
	}
	return k, nil
}

// keyParts flattens a metric into its ordered canonical parts. It inspects
// the Config union directly rather than going through Dispatch because it
// must recurse into the metrics an expression references, which the
// single-level dispatcher does not support. The mutual-exclusivity checks
// mirror Dispatch exactly.
func keyParts(m Metric, visiting map[Metric]bool, depth int) ([]string, error) {
	cfg := m.ToConfig()
	switch {
	case cfg.Stat != nil && cfg.Expression != nil:
		return nil, ErrConflictingRepresentation
	case cfg.Stat != nil:
		return statParts(cfg.Stat), nil
	case cfg.Expression != nil:
		return expressionParts(cfg.Expression, visiting, depth)
	default:
		return nil, ErrMissingRepresentation
	}
}

func statParts(s *StatConfig) []string {
	parts := make([]string, 0, 6+2*len(s.Dimensions))
	parts = append(parts, s.Namespace, s.MetricName)
	for _, d := range s.Dimensions {
		parts = append(parts, d.Name, d.Value)
	}
	if s.Statistic != "" {
		parts = append(parts, s.Statistic)
	}
	if s.Period != 0 {
		parts = append(parts, strconv.FormatInt(int64(s.Period/time.Second), 10))
	}
	if s.Region != "" {
		parts = append(parts, s.Region)
	}
	if s.Account != "" {
		parts = append(parts, s.Account)
	}
	return parts
}

func expressionParts(e *ExpressionConfig, visiting map[Metric]bool, depth int) ([]string, error) {
	ids := make([]string, 0, len(e.UsingMetrics))
	for id := range e.UsingMetrics {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := []string{e.Expression}
	for _, id := range ids {
		sub, err := keyFor(e.UsingMetrics[id], visiting, depth+1)
		if err != nil {
			return nil, err
		}
		parts = append(parts, id, sub)
	}
	if e.SearchRegion != "" {
		parts = append(parts, e.SearchRegion)
	}
	if e.SearchAccount != "" {
		parts = append(parts, e.SearchAccount)
	}
	return parts, nil
}
