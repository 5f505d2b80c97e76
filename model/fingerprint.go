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
	"fmt"
	"reflect"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// separatorByte delimits hashed fields. 0xff never occurs in valid UTF-8, so
// no legal field value can smuggle in a separator.
var separatorByte = []byte{0xff}

// Fingerprint returns a 64-bit hash of the metric's canonical identity. It
// covers exactly the fields Key covers, but each field is delimited with a
// byte that cannot appear in its value, so metrics whose string keys collide
// through embedded separator characters still hash apart.
func Fingerprint(m Metric) (uint64, error) {
	h := xxhash.New()
	if err := hashMetric(h, m, make(map[Metric]bool), 0); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

func hashMetric(h *xxhash.Digest, m Metric, visiting map[Metric]bool, depth int) error {
	if depth > maxNesting {
		return ErrCyclicReference
	}
	if reflect.TypeOf(m).Comparable() {
		if visiting[m] {
			return ErrCyclicReference
		}
		visiting[m] = true
		defer delete(visiting, m)
	}

	cfg := m.ToConfig()
	switch {
	case cfg.Stat != nil && cfg.Expression != nil:
		return ErrConflictingRepresentation
	case cfg.Stat != nil:
		for _, part := range statParts(cfg.Stat) {
			hashPart(h, part)
		}
		return nil
	case cfg.Expression != nil:
		return hashExpression(h, cfg.Expression, visiting, depth)
	default:
		return ErrMissingRepresentation
	}
}

func hashExpression(h *xxhash.Digest, e *ExpressionConfig, visiting map[Metric]bool, depth int) error {
	ids := make([]string, 0, len(e.UsingMetrics))
	for id := range e.UsingMetrics {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	hashPart(h, e.Expression)
	for _, id := range ids {
		hashPart(h, id)
		if err := hashMetric(h, e.UsingMetrics[id], visiting, depth+1); err != nil {
			return err
		}
		// Terminate the nested metric so its fields cannot blend into
		// whatever follows.
		h.Write(separatorByte)
	}
	if e.SearchRegion != "" {
		hashPart(h, e.SearchRegion)
	}
	if e.SearchAccount != "" {
		hashPart(h, e.SearchAccount)
	}
	return nil
}

func hashPart(h *xxhash.Digest, part string) {
	h.WriteString(part)
	h.Write(separatorByte)
}

// FingerprintString renders a fingerprint as a fixed-width decimal, suitable
// for cache keys and diagnostics that need a sortable textual form.
func FingerprintString(fp uint64) string {
	return fmt.Sprintf("%020d", fp)
}
