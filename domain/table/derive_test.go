package table

import (
	"math"
	"testing"
	"time"

	"fogstudy/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDurationColumn_Numeric(t *testing.T) {
	tbl := MustNew("events",
		NewNumericColumn("Init", []float64{1.0, 3.0, 5.0}),
		NewNumericColumn("Completion", []float64{2.5, 6.0, math.NaN()}),
	)

	derived, err := WithDurationColumn(tbl, "Init", "Completion", "Duration")
	require.NoError(t, err)

	assert.Equal(t, []string{"Init", "Completion", "Duration"}, derived.Names())
	durations, err := derived.Numeric("Duration")
	require.NoError(t, err)
	assert.InDelta(t, 1.5, durations[0], 1e-12)
	assert.InDelta(t, 3.0, durations[1], 1e-12)
	assert.True(t, math.IsNaN(durations[2]))

	// Source table untouched
	assert.Equal(t, 2, tbl.ColumnCount())
}

func TestWithDurationColumn_Temporal(t *testing.T) {
	begin := time.Date(2023, 5, 4, 10, 0, 0, 0, time.UTC)
	tbl := MustNew("tasks",
		NewTemporalColumn("Begin", []time.Time{begin}),
		NewTemporalColumn("End", []time.Time{begin.Add(90 * time.Second)}),
	)

	derived, err := WithDurationColumn(tbl, "Begin", "End", "Duration")
	require.NoError(t, err)

	durations, err := derived.Numeric("Duration")
	require.NoError(t, err)
	assert.InDelta(t, 90.0, durations[0], 1e-9)
}

func TestWithDurationColumn_MissingOperandColumn(t *testing.T) {
	tbl := MustNew("tasks", NewNumericColumn("Begin", []float64{1}))

	_, err := WithDurationColumn(tbl, "Begin", "End", "Duration")
	assert.ErrorIs(t, err, core.ErrMissingColumn)
}

func TestMelt_WideToLong(t *testing.T) {
	tbl := MustNew("subjects",
		NewCategoricalColumn("Subject", []string{"02ab23", "4dc2f8"}),
		NewCategoricalColumn("Sex", []string{"F", "M"}),
		NewNumericColumn("UPDRSIII_Off", []float64{41, 28}),
		NewNumericColumn("UPDRSIII_On", []float64{32, 21}),
	)

	long, err := Melt(tbl,
		[]string{"Subject", "Sex"},
		[]string{"UPDRSIII_Off", "UPDRSIII_On"},
		"Instrument", "Score")
	require.NoError(t, err)

	assert.Equal(t, 4, long.RowCount())
	assert.Equal(t, []string{"Subject", "Sex", "Instrument", "Score"}, long.Names())

	off, err := long.Filter("Instrument", "UPDRSIII_Off")
	require.NoError(t, err)
	scores, err := off.Numeric("Score")
	require.NoError(t, err)
	assert.Equal(t, []float64{41, 28}, scores)

	subjects, err := long.Column("Subject")
	require.NoError(t, err)
	assert.Equal(t, "02ab23", subjects.Render(0))
	assert.Equal(t, "02ab23", subjects.Render(2))
}

func TestMelt_RejectsNonNumericValueVars(t *testing.T) {
	tbl := MustNew("subjects",
		NewCategoricalColumn("Subject", []string{"a"}),
		NewCategoricalColumn("Visit", []string{"1"}),
	)

	_, err := Melt(tbl, []string{"Subject"}, []string{"Visit"}, "Instrument", "Score")
	assert.ErrorIs(t, err, core.ErrNotNumeric)
}
