package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"fogstudy/domain/table"
)

// ColumnSummary captures per-column quality metrics for a loaded table.
// Recomputed on demand, never persisted.
// INVARIANTS:
// - Valid + Null == source row count
// - Validity and Cardinality in [0.0, 1.0]
type ColumnSummary struct {
	Column      string      `json:"column"`
	Dtype       table.Dtype `json:"dtype"`
	Valid       int         `json:"valid"`
	Null        int         `json:"null"`
	Validity    float64     `json:"validity"`
	Unique      int         `json:"unique"`
	Cardinality float64     `json:"cardinality"`
	Size        int         `json:"size"` // approximate bytes
}

// Description holds percentile-based descriptive statistics for one column
// or one group partition. StdDev is NaN when fewer than two valid values
// exist; callers render it, they do not treat it as an error.
type Description struct {
	Column      string    `json:"column"`
	Count       int       `json:"count"`
	Mean        float64   `json:"mean"`
	StdDev      float64   `json:"std"`
	Min         float64   `json:"min"`
	Percentiles []float64 `json:"percentiles"` // requested probabilities, non-decreasing
	Quantiles   []float64 `json:"quantiles"`   // values at Percentiles, same order
	Max         float64   `json:"max"`
}

// MarshalJSON emits null for NaN statistics, which encoding/json rejects
func (d Description) MarshalJSON() ([]byte, error) {
	quantiles := make([]*float64, len(d.Quantiles))
	for i, q := range d.Quantiles {
		quantiles[i] = nullable(q)
	}
	return json.Marshal(struct {
		Column      string     `json:"column"`
		Count       int        `json:"count"`
		Mean        *float64   `json:"mean"`
		StdDev      *float64   `json:"std"`
		Min         *float64   `json:"min"`
		Percentiles []float64  `json:"percentiles"`
		Quantiles   []*float64 `json:"quantiles"`
		Max         *float64   `json:"max"`
	}{
		Column:      d.Column,
		Count:       d.Count,
		Mean:        nullable(d.Mean),
		StdDev:      nullable(d.StdDev),
		Min:         nullable(d.Min),
		Percentiles: d.Percentiles,
		Quantiles:   quantiles,
		Max:         nullable(d.Max),
	})
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// Compact renders the abbreviated "mean ± std" form, both at 1 decimal
func (d Description) Compact() string {
	return fmt.Sprintf("%.1f ± %.1f", round1(d.Mean), round1(d.StdDev))
}

// Quantile returns the value at probability p, if it was requested
func (d Description) Quantile(p float64) (float64, bool) {
	for i, prob := range d.Percentiles {
		if prob == p {
			return d.Quantiles[i], true
		}
	}
	return math.NaN(), false
}

// GroupedDescription holds per-partition descriptions keyed by the distinct
// values of the grouping column. Partitions cover every row exactly once.
type GroupedDescription struct {
	Column  string                 `json:"column"`
	GroupBy string                 `json:"group_by"`
	Groups  map[string]Description `json:"groups"`
}

// GroupKeys returns the group keys in sorted order for stable output
func (g GroupedDescription) GroupKeys() []string {
	keys := make([]string, 0, len(g.Groups))
	for key := range g.Groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Comparison is the result of the Anderson-Darling k-sample test for
// equality of distributions. Statistic is symmetric in the samples.
type Comparison struct {
	Statistic         float64   `json:"statistic"`
	CriticalValues    []float64 `json:"critical_values"`
	SignificanceLevel float64   `json:"significance_level"` // clamped to [0.001, 0.25]
}

// Significant reports whether the samples differ at the given alpha
func (c Comparison) Significant(alpha float64) bool {
	return c.SignificanceLevel < alpha
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
