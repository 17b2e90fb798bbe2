package table

import (
	"math"

	"fogstudy/domain/core"
)

// Derivation functions append computed columns at load time. Each dataset
// variant is just a table with an optional derived column, not a distinct
// type of its own.

// WithDurationColumn returns a table extended with a numeric column named
// name holding end - start per row. Numeric inputs subtract directly;
// temporal inputs yield seconds. A missing operand yields a missing result.
func WithDurationColumn(t *Table, start, end, name string) (*Table, error) {
	startCol, err := t.Column(start)
	if err != nil {
		return nil, err
	}
	endCol, err := t.Column(end)
	if err != nil {
		return nil, err
	}
	if startCol.Dtype() != endCol.Dtype() {
		return nil, core.NewNotNumericError(name)
	}

	durations := make([]float64, t.RowCount())
	for i := 0; i < t.RowCount(); i++ {
		if startCol.IsMissing(i) || endCol.IsMissing(i) {
			durations[i] = math.NaN()
			continue
		}
		switch startCol.Dtype() {
		case Numeric:
			durations[i] = endCol.Float(i) - startCol.Float(i)
		case Temporal:
			durations[i] = endCol.Time(i).Sub(startCol.Time(i)).Seconds()
		default:
			return nil, core.NewNotNumericError(start)
		}
	}

	cols := append(append([]*Column{}, t.cols...), NewNumericColumn(name, durations))
	return New(t.name, cols...)
}

// Melt reshapes wide to long: for each row, the idVars repeat once per value
// variable, varName holds the originating column name and valueName its
// value. All valueVars must be numeric.
func Melt(t *Table, idVars, valueVars []string, varName, valueName string) (*Table, error) {
	ids := make([]*Column, len(idVars))
	for i, name := range idVars {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		ids[i] = col
	}
	values := make([]*Column, len(valueVars))
	for i, name := range valueVars {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if col.Dtype() != Numeric {
			return nil, core.NewNotNumericError(name)
		}
		values[i] = col
	}

	long := t.RowCount() * len(valueVars)
	rows := make([]int, 0, long)
	instruments := make([]string, 0, long)
	scores := make([]float64, 0, long)
	for _, value := range values {
		for i := 0; i < t.RowCount(); i++ {
			rows = append(rows, i)
			instruments = append(instruments, value.Name())
			scores = append(scores, value.Float(i))
		}
	}

	cols := make([]*Column, 0, len(ids)+2)
	for _, id := range ids {
		cols = append(cols, id.take(rows))
	}
	cols = append(cols, NewCategoricalColumn(varName, instruments))
	cols = append(cols, NewNumericColumn(valueName, scores))
	return New(t.name, cols...)
}
