package analysis

import (
	"fmt"
	"math"
	"sort"

	"fogstudy/domain/core"
	"fogstudy/domain/stats"
	"fogstudy/domain/table"

	mstats "github.com/montanaflynn/stats"
)

// DefaultPercentiles mirrors the notebook convention for describe output
var DefaultPercentiles = []float64{0.05, 0.25, 0.5, 0.75, 0.95}

// Describer computes percentile-based descriptive statistics
type Describer struct {
	Percentiles []float64
}

// NewDescriber creates a describer with the default percentile set
func NewDescriber() *Describer {
	return &Describer{Percentiles: DefaultPercentiles}
}

// Describe computes descriptive statistics for one numeric column. Missing
// values are dropped first; a column with fewer than two valid values gets
// StdDev = NaN rather than an error.
func (d *Describer) Describe(t *table.Table, column string) (stats.Description, error) {
	if err := d.validate(); err != nil {
		return stats.Description{}, err
	}
	if t.RowCount() == 0 {
		return stats.Description{}, core.ErrEmptyTable
	}
	vals, err := t.NumericValid(column)
	if err != nil {
		return stats.Description{}, err
	}
	return d.describeValues(column, vals), nil
}

// DescribeAll computes descriptive statistics for every numeric column
func (d *Describer) DescribeAll(t *table.Table) ([]stats.Description, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if t.RowCount() == 0 {
		return nil, core.ErrEmptyTable
	}
	var out []stats.Description
	for _, col := range t.Columns() {
		if col.Dtype() != table.Numeric {
			continue
		}
		vals, err := t.NumericValid(col.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, d.describeValues(col.Name(), vals))
	}
	return out, nil
}

// DescribeAllGroups describes every numeric column per partition of the
// grouping column. The grouping column itself is skipped even when numeric.
func (d *Describer) DescribeAllGroups(t *table.Table, groupBy string) ([]stats.GroupedDescription, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if t.RowCount() == 0 {
		return nil, core.ErrEmptyTable
	}
	if _, err := t.Column(groupBy); err != nil {
		return nil, err
	}

	var out []stats.GroupedDescription
	for _, col := range t.Columns() {
		if col.Dtype() != table.Numeric || col.Name() == groupBy {
			continue
		}
		grouped, err := d.DescribeGroups(t, col.Name(), groupBy)
		if err != nil {
			return nil, err
		}
		out = append(out, grouped)
	}
	return out, nil
}

// DescribeGroups partitions rows by the grouping column's distinct values
// and describes the target column independently per partition. Rows whose
// group value is missing form their own partition under the empty key, so
// the partitions cover every row exactly once.
func (d *Describer) DescribeGroups(t *table.Table, column, groupBy string) (stats.GroupedDescription, error) {
	if err := d.validate(); err != nil {
		return stats.GroupedDescription{}, err
	}
	if t.RowCount() == 0 {
		return stats.GroupedDescription{}, core.ErrEmptyTable
	}
	groupCol, err := t.Column(groupBy)
	if err != nil {
		return stats.GroupedDescription{}, err
	}
	vals, err := t.Numeric(column)
	if err != nil {
		return stats.GroupedDescription{}, err
	}

	partitions := make(map[string][]float64)
	for i := 0; i < t.RowCount(); i++ {
		key := groupCol.Render(i)
		if !math.IsNaN(vals[i]) {
			partitions[key] = append(partitions[key], vals[i])
		} else if _, seen := partitions[key]; !seen {
			partitions[key] = nil
		}
	}

	groups := make(map[string]stats.Description, len(partitions))
	for key, sample := range partitions {
		groups[key] = d.describeValues(column, sample)
	}
	return stats.GroupedDescription{Column: column, GroupBy: groupBy, Groups: groups}, nil
}

// DescribeDistinctCounts counts the distinct valid values every column
// takes within each partition of the grouping column, then describes each
// column's distribution of those per-partition counts. This is the
// per-subject summary view: group by subject, count distinct, describe.
func (d *Describer) DescribeDistinctCounts(t *table.Table, groupBy string) ([]stats.Description, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if t.RowCount() == 0 {
		return nil, core.ErrEmptyTable
	}
	groupCol, err := t.Column(groupBy)
	if err != nil {
		return nil, err
	}

	var keys []string
	partitions := make(map[string][]int)
	for i := 0; i < t.RowCount(); i++ {
		key := groupCol.Render(i)
		if _, seen := partitions[key]; !seen {
			keys = append(keys, key)
		}
		partitions[key] = append(partitions[key], i)
	}
	sort.Strings(keys)

	var out []stats.Description
	for _, col := range t.Columns() {
		if col.Name() == groupBy {
			continue
		}
		counts := make([]float64, len(keys))
		for k, key := range keys {
			distinct := make(map[string]struct{})
			for _, i := range partitions[key] {
				if col.IsMissing(i) {
					continue
				}
				distinct[col.Render(i)] = struct{}{}
			}
			counts[k] = float64(len(distinct))
		}
		out = append(out, d.describeValues(col.Name(), counts))
	}
	return out, nil
}

func (d *Describer) validate() error {
	prev := 0.0
	for _, p := range d.Percentiles {
		if p < 0 || p > 1 {
			return fmt.Errorf("percentile %v outside [0,1]", p)
		}
		if p < prev {
			return fmt.Errorf("percentiles must be non-decreasing, got %v after %v", p, prev)
		}
		prev = p
	}
	return nil
}

// describeValues computes the statistics over already-valid values
func (d *Describer) describeValues(column string, vals []float64) stats.Description {
	desc := stats.Description{
		Column:      column,
		Count:       len(vals),
		Percentiles: append([]float64{}, d.Percentiles...),
	}

	if len(vals) == 0 {
		desc.Mean = math.NaN()
		desc.StdDev = math.NaN()
		desc.Min = math.NaN()
		desc.Max = math.NaN()
		desc.Quantiles = nanSlice(len(d.Percentiles))
		return desc
	}

	desc.Mean, _ = mstats.Mean(vals)
	desc.Min, _ = mstats.Min(vals)
	desc.Max, _ = mstats.Max(vals)

	// Sample (n-1) standard deviation; undefined below two observations
	if len(vals) < 2 {
		desc.StdDev = math.NaN()
	} else {
		desc.StdDev, _ = mstats.StandardDeviationSample(vals)
	}

	sorted := append([]float64{}, vals...)
	sort.Float64s(sorted)
	desc.Quantiles = make([]float64, len(d.Percentiles))
	for i, p := range d.Percentiles {
		desc.Quantiles[i] = quantile(sorted, p)
	}
	return desc
}

// quantile computes the value at probability p by linear interpolation
// between order statistics: h = (n-1)p, result = x[floor(h)] interpolated
// toward x[floor(h)+1]. sorted must be ascending and non-empty.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
