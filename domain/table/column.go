package table

import (
	"math"
	"strconv"
	"time"
)

// Dtype classifies the values a column holds
type Dtype string

const (
	Numeric     Dtype = "numeric"
	Categorical Dtype = "categorical"
	Temporal    Dtype = "temporal"
)

// Column is a named, homogeneous sequence of values aligned by row index.
// Missing values are NaN (numeric), "" (categorical) or the zero time
// (temporal). Columns are immutable once attached to a Table.
type Column struct {
	name  string
	dtype Dtype
	nums  []float64
	strs  []string
	times []time.Time
}

// NewNumericColumn creates a numeric column. NaN marks a missing value.
func NewNumericColumn(name string, values []float64) *Column {
	return &Column{name: name, dtype: Numeric, nums: values}
}

// NewCategoricalColumn creates a categorical column. "" marks a missing value.
func NewCategoricalColumn(name string, values []string) *Column {
	return &Column{name: name, dtype: Categorical, strs: values}
}

// NewTemporalColumn creates a temporal column. The zero time marks a missing value.
func NewTemporalColumn(name string, values []time.Time) *Column {
	return &Column{name: name, dtype: Temporal, times: values}
}

// Name returns the column name
func (c *Column) Name() string { return c.name }

// Dtype returns the column's value type
func (c *Column) Dtype() Dtype { return c.dtype }

// Len returns the number of rows
func (c *Column) Len() int {
	switch c.dtype {
	case Numeric:
		return len(c.nums)
	case Temporal:
		return len(c.times)
	default:
		return len(c.strs)
	}
}

// IsMissing reports whether the value at row i is missing
func (c *Column) IsMissing(i int) bool {
	switch c.dtype {
	case Numeric:
		return math.IsNaN(c.nums[i])
	case Temporal:
		return c.times[i].IsZero()
	default:
		return c.strs[i] == ""
	}
}

// Float returns the numeric value at row i. Non-numeric columns yield NaN.
func (c *Column) Float(i int) float64 {
	if c.dtype != Numeric {
		return math.NaN()
	}
	return c.nums[i]
}

// Time returns the temporal value at row i. Non-temporal columns yield the zero time.
func (c *Column) Time(i int) time.Time {
	if c.dtype != Temporal {
		return time.Time{}
	}
	return c.times[i]
}

// Render returns the value at row i as a string, the form used for
// group keys and filter comparisons. Missing values render as "".
func (c *Column) Render(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	switch c.dtype {
	case Numeric:
		return strconv.FormatFloat(c.nums[i], 'g', -1, 64)
	case Temporal:
		return c.times[i].Format(time.RFC3339)
	default:
		return c.strs[i]
	}
}

// ValidCount returns the number of non-missing values
func (c *Column) ValidCount() int {
	valid := 0
	for i := 0; i < c.Len(); i++ {
		if !c.IsMissing(i) {
			valid++
		}
	}
	return valid
}

// UniqueCount returns the number of distinct non-missing values
func (c *Column) UniqueCount() int {
	seen := make(map[string]struct{}, c.Len())
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			continue
		}
		seen[c.Render(i)] = struct{}{}
	}
	return len(seen)
}

// ApproxSize estimates the in-memory byte size of the column's values
func (c *Column) ApproxSize() int {
	switch c.dtype {
	case Numeric:
		return 8 * len(c.nums)
	case Temporal:
		return 24 * len(c.times)
	default:
		size := 0
		for _, s := range c.strs {
			size += 16 + len(s) // string header plus payload
		}
		return size
	}
}

// take builds a new column from the given row indices
func (c *Column) take(rows []int) *Column {
	switch c.dtype {
	case Numeric:
		vals := make([]float64, len(rows))
		for k, i := range rows {
			vals[k] = c.nums[i]
		}
		return NewNumericColumn(c.name, vals)
	case Temporal:
		vals := make([]time.Time, len(rows))
		for k, i := range rows {
			vals[k] = c.times[i]
		}
		return NewTemporalColumn(c.name, vals)
	default:
		vals := make([]string, len(rows))
		for k, i := range rows {
			vals[k] = c.strs[i]
		}
		return NewCategoricalColumn(c.name, vals)
	}
}
