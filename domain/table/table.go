package table

import (
	"fmt"
	"math"
	"math/rand"

	"fogstudy/domain/core"
)

// Table is an ordered collection of named columns aligned by row index.
// It is the unit of data passed between loading, analysis and presentation,
// loaded once and treated as immutable thereafter: every operation that
// changes shape returns a new Table.
type Table struct {
	name  string
	cols  []*Column
	index map[string]int
	rows  int
}

// New creates a table from aligned columns
func New(name string, cols ...*Column) (*Table, error) {
	t := &Table{name: name, index: make(map[string]int, len(cols))}
	for _, col := range cols {
		if _, dup := t.index[col.Name()]; dup {
			return nil, fmt.Errorf("duplicate column %q in table %q", col.Name(), name)
		}
		if len(t.cols) > 0 && col.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, table %q has %d: %w",
				col.Name(), col.Len(), name, t.rows, core.ErrLengthMismatch)
		}
		t.rows = col.Len()
		t.index[col.Name()] = len(t.cols)
		t.cols = append(t.cols, col)
	}
	return t, nil
}

// MustNew creates a table and panics on invalid input. Test helper.
func MustNew(name string, cols ...*Column) *Table {
	t, err := New(name, cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the table name
func (t *Table) Name() string { return t.name }

// Rename returns a table sharing this table's columns under a new name
func (t *Table) Rename(name string) *Table {
	out := *t
	out.name = name
	return &out
}

// RowCount returns the number of rows
func (t *Table) RowCount() int { return t.rows }

// ColumnCount returns the number of columns
func (t *Table) ColumnCount() int { return len(t.cols) }

// Names returns column names in declaration order
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, col := range t.cols {
		names[i] = col.Name()
	}
	return names
}

// Columns returns the columns in declaration order
func (t *Table) Columns() []*Column { return t.cols }

// Column returns the named column
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, core.NewMissingColumnError(name)
	}
	return t.cols[i], nil
}

// HasColumn reports whether the table has the named column
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Numeric returns a copy of the named column's values, NaN for missing
func (t *Table) Numeric(name string) ([]float64, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if col.Dtype() != Numeric {
		return nil, core.NewNotNumericError(name)
	}
	vals := make([]float64, col.Len())
	copy(vals, col.nums)
	return vals, nil
}

// NumericValid returns the named column's non-missing values, order preserved
func (t *Table) NumericValid(name string) ([]float64, error) {
	vals, err := t.Numeric(name)
	if err != nil {
		return nil, err
	}
	valid := vals[:0]
	for _, v := range vals {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	return valid, nil
}

// Head returns the first n rows
func (t *Table) Head(n int) *Table {
	if n > t.rows {
		n = t.rows
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return t.subset(rows)
}

// Sample returns n rows drawn without replacement using the given seed
func (t *Table) Sample(n int, seed int64) *Table {
	if n > t.rows {
		n = t.rows
	}
	rng := rand.New(rand.NewSource(seed))
	rows := rng.Perm(t.rows)[:n]
	return t.subset(rows)
}

// Filter returns the rows where the named column renders equal to value
func (t *Table) Filter(column, value string) (*Table, error) {
	col, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	var rows []int
	for i := 0; i < t.rows; i++ {
		if col.Render(i) == value {
			rows = append(rows, i)
		}
	}
	return t.subset(rows), nil
}

// Select returns a table with only the named columns, in the given order
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return New(t.name, cols...)
}

// subset builds a new table from the given row indices
func (t *Table) subset(rows []int) *Table {
	cols := make([]*Column, len(t.cols))
	for i, col := range t.cols {
		cols[i] = col.take(rows)
	}
	out, _ := New(t.name, cols...)
	return out
}
