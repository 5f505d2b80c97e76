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

// Package decoding turns declarative JSON metric definitions into live
// metric values.
//
// A definition document has the shape
//
//	{
//	  "metrics": [
//	    {"id": "cpu", "namespace": "AWS/EC2", "metricName": "CPUUtilization",
//	     "dimensions": [{"name": "InstanceId", "value": "i-123"}],
//	     "stat": "Average", "period": "5m"},
//	    {"id": "burst", "expression": "cpu > 90", "using": {"cpu": "cpu"},
//	     "period": "1m"}
//	  ]
//	}
//
// Each entry populates either the stat fields or the expression fields,
// never both. Expression entries refer to earlier entries by id through
// "using"; forward references are rejected so reference cycles cannot be
// declared.
package decoding

import (
	"fmt"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"
	common "github.com/prometheus/common/model"

	"github.com/querykit/metricident/metric"
	"github.com/querykit/metricident/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type document struct {
	Metrics []definition `json:"metrics"`
}

type definition struct {
	ID string `json:"id"`

	// Stat shape.
	Namespace  string      `json:"namespace,omitempty"`
	MetricName string      `json:"metricName,omitempty"`
	Dimensions []dimension `json:"dimensions,omitempty"`
	Stat       string      `json:"stat,omitempty"`
	Region     string      `json:"region,omitempty"`
	Account    string      `json:"account,omitempty"`

	// Expression shape. Using maps formula identifiers to the ids of
	// previously defined entries.
	Expression    string            `json:"expression,omitempty"`
	Using         map[string]string `json:"using,omitempty"`
	SearchRegion  string            `json:"searchRegion,omitempty"`
	SearchAccount string            `json:"searchAccount,omitempty"`

	// Shared.
	Period string `json:"period,omitempty"`
	Label  string `json:"label,omitempty"`
	Color  string `json:"color,omitempty"`
}

// isStat and isExpression cover every shape-specific field, so a definition
// mixing fields from both shapes is rejected as conflicting rather than
// having the stray fields silently dropped.
func (d *definition) isStat() bool {
	return d.Namespace != "" || d.MetricName != "" || len(d.Dimensions) > 0 ||
		d.Stat != "" || d.Region != "" || d.Account != ""
}

func (d *definition) isExpression() bool {
	return d.Expression != "" || len(d.Using) > 0 ||
		d.SearchRegion != "" || d.SearchAccount != ""
}

type dimension struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Decode reads a definition document and returns the declared metrics by id.
func Decode(r io.Reader) (map[string]model.Metric, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding definition document: %w", err)
	}

	metrics := make(map[string]model.Metric, len(doc.Metrics))
	for i := range doc.Metrics {
		def := &doc.Metrics[i]
		if def.ID == "" {
			return nil, fmt.Errorf("definition %d has no id", i)
		}
		if _, ok := metrics[def.ID]; ok {
			return nil, fmt.Errorf("duplicate definition id %q", def.ID)
		}

		m, err := buildMetric(def, metrics)
		if err != nil {
			return nil, fmt.Errorf("definition %q: %w", def.ID, err)
		}
		metrics[def.ID] = m
	}
	return metrics, nil
}

func buildMetric(def *definition, defined map[string]model.Metric) (model.Metric, error) {
	switch {
	case def.isStat() && def.isExpression():
		return nil, model.ErrConflictingRepresentation
	case def.isStat():
		return buildStat(def)
	case def.isExpression():
		return buildExpression(def, defined)
	default:
		return nil, model.ErrMissingRepresentation
	}
}

func buildStat(def *definition) (model.Metric, error) {
	if def.Namespace == "" || def.MetricName == "" {
		return nil, fmt.Errorf("stat definition requires namespace and metricName")
	}
	period, err := parsePeriod(def.Period)
	if err != nil {
		return nil, err
	}
	dims := make([]model.Dimension, 0, len(def.Dimensions))
	for _, d := range def.Dimensions {
		dims = append(dims, model.Dimension{Name: d.Name, Value: d.Value})
	}
	return metric.NewStat(metric.StatOpts{
		Namespace:  def.Namespace,
		MetricName: def.MetricName,
		Dimensions: dims,
		Statistic:  def.Stat,
		Period:     period,
		Region:     def.Region,
		Account:    def.Account,
		Label:      def.Label,
		Color:      def.Color,
	}), nil
}

func buildExpression(def *definition, defined map[string]model.Metric) (model.Metric, error) {
	if def.Expression == "" {
		return nil, fmt.Errorf("expression definition requires expression text")
	}
	period, err := parsePeriod(def.Period)
	if err != nil {
		return nil, err
	}
	using := make(map[string]model.Metric, len(def.Using))
	for local, ref := range def.Using {
		m, ok := defined[ref]
		if !ok {
			return nil, fmt.Errorf("unknown metric reference %q", ref)
		}
		using[local] = m
	}
	return metric.NewExpression(metric.ExpressionOpts{
		Expression:    def.Expression,
		UsingMetrics:  using,
		Period:        period,
		SearchRegion:  def.SearchRegion,
		SearchAccount: def.SearchAccount,
		Label:         def.Label,
		Color:         def.Color,
	}), nil
}

// parsePeriod accepts the usual human-readable duration forms, e.g. "5m" or
// "90s". An empty string means no period was declared.
func parsePeriod(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := common.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid period %q: %w", s, err)
	}
	return time.Duration(d), nil
}
