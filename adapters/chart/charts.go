// Package chart builds declarative chart specifications from tables and
// summaries. Specs carry data only (series, bins, five-number summaries);
// an external renderer turns them into pixels.
package chart

import (
	"math"
	"sort"

	"fogstudy/domain/core"
	"fogstudy/domain/stats"
	"fogstudy/domain/table"

	mstats "github.com/montanaflynn/stats"
)

// Kind identifies the chart family a spec renders as
type Kind string

const (
	KindBar       Kind = "bar"
	KindHistogram Kind = "histogram"
	KindBox       Kind = "box"
	KindCount     Kind = "count"
)

// Spec is a renderer-agnostic chart description
type Spec struct {
	Kind   Kind   `json:"kind"`
	Title  string `json:"title"`
	XLabel string `json:"x_label"`
	YLabel string `json:"y_label"`
	Style  Style  `json:"style"`

	// Bar and count charts
	Labels []string  `json:"labels,omitempty"`
	Values []float64 `json:"values,omitempty"`

	// Histogram
	Bins []Bin `json:"bins,omitempty"`

	// Box plots, one entry per group
	Boxes []BoxStats `json:"boxes,omitempty"`
}

// Bin is one histogram bucket over [Lo, Hi)
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// BoxStats is the five-number summary behind one box
type BoxStats struct {
	Label  string  `json:"label"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Count builds a count plot: observations per distinct value of a column
func Count(t *table.Table, column string, style Style) (Spec, error) {
	col, err := t.Column(column)
	if err != nil {
		return Spec{}, err
	}

	counts := make(map[string]int)
	for i := 0; i < t.RowCount(); i++ {
		if col.IsMissing(i) {
			continue
		}
		counts[col.Render(i)]++
	}

	labels := sortedKeys(counts)
	values := make([]float64, len(labels))
	for i, label := range labels {
		values[i] = float64(counts[label])
	}

	return Spec{
		Kind:   KindCount,
		Title:  column,
		XLabel: column,
		YLabel: "Count",
		Style:  style,
		Labels: labels,
		Values: values,
	}, nil
}

// Bar builds a bar plot of the mean of y per distinct value of x
func Bar(t *table.Table, x, y string, style Style) (Spec, error) {
	xCol, err := t.Column(x)
	if err != nil {
		return Spec{}, err
	}
	yVals, err := t.Numeric(y)
	if err != nil {
		return Spec{}, err
	}

	groups := make(map[string][]float64)
	for i := 0; i < t.RowCount(); i++ {
		if xCol.IsMissing(i) || math.IsNaN(yVals[i]) {
			continue
		}
		key := xCol.Render(i)
		groups[key] = append(groups[key], yVals[i])
	}

	labels := sortedKeysSlices(groups)
	values := make([]float64, len(labels))
	for i, label := range labels {
		mean, _ := mstats.Mean(groups[label])
		values[i] = mean
	}

	return Spec{
		Kind:   KindBar,
		Title:  y + " by " + x,
		XLabel: x,
		YLabel: y,
		Style:  style,
		Labels: labels,
		Values: values,
	}, nil
}

// Histogram builds a histogram over a numeric column. binCount <= 0 uses
// Sturges' rule.
func Histogram(t *table.Table, column string, binCount int, style Style) (Spec, error) {
	vals, err := t.NumericValid(column)
	if err != nil {
		return Spec{}, err
	}
	if len(vals) == 0 {
		return Spec{}, core.NewInsufficientDataError(1, 0)
	}

	if binCount <= 0 {
		binCount = sturges(len(vals))
	}

	lo, _ := mstats.Min(vals)
	hi, _ := mstats.Max(vals)
	width := (hi - lo) / float64(binCount)
	bins := make([]Bin, binCount)
	for i := range bins {
		bins[i] = Bin{Lo: lo + float64(i)*width, Hi: lo + float64(i+1)*width}
	}
	for _, v := range vals {
		idx := binCount - 1
		if width > 0 {
			idx = int((v - lo) / width)
			if idx >= binCount { // hi lands in the last bucket
				idx = binCount - 1
			}
		}
		bins[idx].Count++
	}

	return Spec{
		Kind:   KindHistogram,
		Title:  column,
		XLabel: column,
		YLabel: "Count",
		Style:  style,
		Bins:   bins,
	}, nil
}

// Box builds box plots of a numeric column, one box per distinct value of
// groupBy, or a single box when groupBy is empty.
func Box(t *table.Table, column, groupBy string, style Style) (Spec, error) {
	title := column
	groups := make(map[string][]float64)

	if groupBy == "" {
		vals, err := t.NumericValid(column)
		if err != nil {
			return Spec{}, err
		}
		groups[column] = vals
	} else {
		title = column + " by " + groupBy
		groupCol, err := t.Column(groupBy)
		if err != nil {
			return Spec{}, err
		}
		vals, err := t.Numeric(column)
		if err != nil {
			return Spec{}, err
		}
		for i := 0; i < t.RowCount(); i++ {
			if groupCol.IsMissing(i) || math.IsNaN(vals[i]) {
				continue
			}
			key := groupCol.Render(i)
			groups[key] = append(groups[key], vals[i])
		}
	}

	boxes := make([]BoxStats, 0, len(groups))
	for _, label := range sortedKeysSlices(groups) {
		box, err := fiveNumber(label, groups[label])
		if err != nil {
			return Spec{}, err
		}
		boxes = append(boxes, box)
	}

	return Spec{
		Kind:   KindBox,
		Title:  title,
		XLabel: groupBy,
		YLabel: column,
		Style:  style,
		Boxes:  boxes,
	}, nil
}

// DtypeCounts builds the dtype panel of the dataset overview figure:
// columns per dtype.
func DtypeCounts(summaries []stats.ColumnSummary, style Style) Spec {
	counts := make(map[string]int)
	for _, s := range summaries {
		counts[string(s.Dtype)]++
	}

	labels := sortedKeys(counts)
	values := make([]float64, len(labels))
	for i, label := range labels {
		values[i] = float64(counts[label])
	}

	return Spec{
		Kind:   KindCount,
		Title:  "Dtypes",
		XLabel: "Dtype",
		YLabel: "Columns",
		Style:  style,
		Labels: labels,
		Values: values,
	}
}

// SummaryBars turns column summaries into the validity/cardinality bar
// charts of the dataset overview figure. metric selects the field;
// normalized picks the ratio form over the raw count.
func SummaryBars(summaries []stats.ColumnSummary, metric string, normalized bool, style Style) Spec {
	labels := make([]string, len(summaries))
	values := make([]float64, len(summaries))
	for i, s := range summaries {
		labels[i] = s.Column
		switch metric {
		case "cardinality":
			if normalized {
				values[i] = s.Cardinality
			} else {
				values[i] = float64(s.Unique)
			}
		case "size":
			values[i] = float64(s.Size)
		default: // validity
			if normalized {
				values[i] = s.Validity
			} else {
				values[i] = float64(s.Valid)
			}
		}
	}

	title := map[string]string{"cardinality": "Cardinality", "size": "Size"}[metric]
	if title == "" {
		title = "Validity"
	}

	return Spec{
		Kind:   KindBar,
		Title:  title,
		XLabel: "Column",
		YLabel: title,
		Style:  style,
		Labels: labels,
		Values: values,
	}
}

func fiveNumber(label string, vals []float64) (BoxStats, error) {
	if len(vals) == 0 {
		return BoxStats{Label: label,
			Min: math.NaN(), Q1: math.NaN(), Median: math.NaN(), Q3: math.NaN(), Max: math.NaN()}, nil
	}
	sorted := append([]float64{}, vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	return BoxStats{
		Label:  label,
		Min:    sorted[0],
		Q1:     interpolated(sorted, 0.25),
		Median: interpolated(sorted, 0.5),
		Q3:     interpolated(sorted, 0.75),
		Max:    sorted[n-1],
	}, nil
}

// interpolated mirrors the describe percentile convention: h = (n-1)p
func interpolated(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// sturges computes the classic bin count ceil(log2(n)) + 1
func sturges(n int) int {
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeysSlices(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
