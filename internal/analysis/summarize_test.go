package analysis

import (
	"math"
	"testing"

	"fogstudy/domain/core"
	"fogstudy/domain/stats"
	"fogstudy/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metadataFixture(t *testing.T) *table.Table {
	t.Helper()
	return table.MustNew("tasks",
		table.NewCategoricalColumn("Subject", []string{"02ab23", "02ab23", "4dc2f8", "af82b2", ""}),
		table.NewNumericColumn("Duration", []float64{12.5, 13.1, math.NaN(), 40.2, 12.5}),
		table.NewCategoricalColumn("Medication", []string{"on", "off", "on", "on", "off"}),
	)
}

func TestSummarize_AccountsForEveryRow(t *testing.T) {
	tbl := metadataFixture(t)

	summaries, err := NewSummarizer().Summarize(tbl)
	require.NoError(t, err)
	require.Len(t, summaries, tbl.ColumnCount())

	for _, s := range summaries {
		assert.Equal(t, tbl.RowCount(), s.Valid+s.Null, "column %s", s.Column)
		assert.GreaterOrEqual(t, s.Validity, 0.0, "column %s", s.Column)
		assert.LessOrEqual(t, s.Validity, 1.0, "column %s", s.Column)
		assert.GreaterOrEqual(t, s.Cardinality, 0.0, "column %s", s.Column)
		assert.LessOrEqual(t, s.Cardinality, 1.0, "column %s", s.Column)
	}
}

func TestSummarize_ColumnMetrics(t *testing.T) {
	tbl := metadataFixture(t)

	summaries, err := NewSummarizer().Summarize(tbl)
	require.NoError(t, err)

	subject := summaries[0]
	assert.Equal(t, "Subject", subject.Column)
	assert.Equal(t, table.Categorical, subject.Dtype)
	assert.Equal(t, 4, subject.Valid)
	assert.Equal(t, 1, subject.Null)
	assert.InDelta(t, 0.8, subject.Validity, 1e-12)
	assert.Equal(t, 3, subject.Unique)
	assert.InDelta(t, 0.6, subject.Cardinality, 1e-12)

	duration := summaries[1]
	assert.Equal(t, 4, duration.Valid)
	assert.Equal(t, 3, duration.Unique) // 12.5 appears twice
	assert.Equal(t, 8*tbl.RowCount(), duration.Size)
}

func TestSummarize_DeterministicOrderAndIdempotent(t *testing.T) {
	tbl := metadataFixture(t)
	s := &Summarizer{Workers: 2}

	first, err := s.Summarize(tbl)
	require.NoError(t, err)
	second, err := s.Summarize(tbl)
	require.NoError(t, err)

	assert.Equal(t, tbl.Names(), summaryColumns(first))
	assert.Equal(t, first, second)
}

func TestSummarize_EmptyTable(t *testing.T) {
	empty := table.MustNew("empty",
		table.NewNumericColumn("x", nil),
	)

	_, err := NewSummarizer().Summarize(empty)
	assert.ErrorIs(t, err, core.ErrEmptyTable)
}

func summaryColumns(summaries []stats.ColumnSummary) []string {
	names := make([]string, len(summaries))
	for i, s := range summaries {
		names[i] = s.Column
	}
	return names
}
