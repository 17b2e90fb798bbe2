package analysis

import (
	"math"
	"testing"

	"fogstudy/domain/core"
	"fogstudy/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoresFixture(t *testing.T) *table.Table {
	t.Helper()
	return table.MustNew("subjects",
		table.NewCategoricalColumn("Sex", []string{"F", "M", "F", "M", "F", "M"}),
		table.NewNumericColumn("Age", []float64{61, 58, 72, 65, 69, 74}),
		table.NewNumericColumn("Score", []float64{10, 20, 30, 40, 50, 60}),
	)
}

func TestDescribe_KnownValues(t *testing.T) {
	tbl := scoresFixture(t)

	desc, err := NewDescriber().Describe(tbl, "Score")
	require.NoError(t, err)

	assert.Equal(t, 6, desc.Count)
	assert.InDelta(t, 35.0, desc.Mean, 1e-9)
	assert.InDelta(t, 10.0, desc.Min, 1e-9)
	assert.InDelta(t, 60.0, desc.Max, 1e-9)

	// Linear interpolation between order statistics: h = (n-1)p
	median, ok := desc.Quantile(0.5)
	require.True(t, ok)
	assert.InDelta(t, 35.0, median, 1e-9)
	q25, _ := desc.Quantile(0.25)
	assert.InDelta(t, 22.5, q25, 1e-9)
}

func TestDescribe_PercentileMonotonicity(t *testing.T) {
	tbl := scoresFixture(t)

	for _, column := range []string{"Age", "Score"} {
		desc, err := NewDescriber().Describe(tbl, column)
		require.NoError(t, err)
		for i := 1; i < len(desc.Quantiles); i++ {
			assert.GreaterOrEqual(t, desc.Quantiles[i], desc.Quantiles[i-1],
				"column %s quantile %v", column, desc.Percentiles[i])
		}
		assert.GreaterOrEqual(t, desc.Quantiles[0], desc.Min)
		assert.LessOrEqual(t, desc.Quantiles[len(desc.Quantiles)-1], desc.Max)
	}
}

func TestDescribe_FewValidValuesPropagatesNaN(t *testing.T) {
	tbl := table.MustNew("sparse",
		table.NewNumericColumn("x", []float64{7, math.NaN(), math.NaN()}),
	)

	desc, err := NewDescriber().Describe(tbl, "x")
	require.NoError(t, err)

	assert.Equal(t, 1, desc.Count)
	assert.InDelta(t, 7.0, desc.Mean, 1e-9)
	assert.True(t, math.IsNaN(desc.StdDev))
}

func TestDescribe_MissingColumn(t *testing.T) {
	tbl := scoresFixture(t)

	_, err := NewDescriber().Describe(tbl, "UPDRSIII_On")
	assert.ErrorIs(t, err, core.ErrMissingColumn)
}

func TestDescribe_NonNumericColumn(t *testing.T) {
	tbl := scoresFixture(t)

	_, err := NewDescriber().Describe(tbl, "Sex")
	assert.ErrorIs(t, err, core.ErrNotNumeric)
}

func TestDescribeAll_CoversNumericColumnsOnly(t *testing.T) {
	tbl := scoresFixture(t)

	descs, err := NewDescriber().DescribeAll(tbl)
	require.NoError(t, err)
	require.Len(t, descs, 2)
	assert.Equal(t, "Age", descs[0].Column)
	assert.Equal(t, "Score", descs[1].Column)
}

func TestDescribeGroups_PartitionsCoverEveryRowOnce(t *testing.T) {
	tbl := scoresFixture(t)

	grouped, err := NewDescriber().DescribeGroups(tbl, "Score", "Sex")
	require.NoError(t, err)

	total := 0
	for _, desc := range grouped.Groups {
		total += desc.Count
	}
	assert.Equal(t, tbl.RowCount(), total)
	assert.ElementsMatch(t, []string{"F", "M"}, grouped.GroupKeys())
}

func TestDescribeGroups_PerGroupStatistics(t *testing.T) {
	tbl := scoresFixture(t)

	grouped, err := NewDescriber().DescribeGroups(tbl, "Score", "Sex")
	require.NoError(t, err)

	female := grouped.Groups["F"]
	assert.Equal(t, 3, female.Count)
	assert.InDelta(t, 30.0, female.Mean, 1e-9) // 10, 30, 50

	male := grouped.Groups["M"]
	assert.Equal(t, 3, male.Count)
	assert.InDelta(t, 40.0, male.Mean, 1e-9) // 20, 40, 60
}

func TestDescribeAllGroups_EveryNumericColumnPerPartition(t *testing.T) {
	tbl := scoresFixture(t)

	grouped, err := NewDescriber().DescribeAllGroups(tbl, "Sex")
	require.NoError(t, err)

	require.Len(t, grouped, 2)
	assert.Equal(t, "Age", grouped[0].Column)
	assert.Equal(t, "Score", grouped[1].Column)
	for _, g := range grouped {
		assert.Equal(t, "Sex", g.GroupBy)
		assert.Equal(t, []string{"F", "M"}, g.GroupKeys())
	}

	// F scores 10, 30, 50; M scores 20, 40, 60.
	assert.InDelta(t, 30.0, grouped[1].Groups["F"].Mean, 1e-9)
	assert.InDelta(t, 40.0, grouped[1].Groups["M"].Mean, 1e-9)
}

func TestDescribeAllGroups_SkipsNumericGroupColumn(t *testing.T) {
	tbl := table.MustNew("visits",
		table.NewNumericColumn("Visit", []float64{1, 1, 2, 2}),
		table.NewNumericColumn("Score", []float64{5, 7, 9, 11}),
	)

	grouped, err := NewDescriber().DescribeAllGroups(tbl, "Visit")
	require.NoError(t, err)

	require.Len(t, grouped, 1)
	assert.Equal(t, "Score", grouped[0].Column)
}

func TestDescribeAllGroups_MissingGroupColumn(t *testing.T) {
	_, err := NewDescriber().DescribeAllGroups(scoresFixture(t), "Nope")
	assert.ErrorIs(t, err, core.ErrMissingColumn)
}

func TestDescribeDistinctCounts_PerGroupNunique(t *testing.T) {
	tbl := table.MustNew("tasks",
		table.NewCategoricalColumn("Subject", []string{"a1", "a1", "a1", "b2", "b2"}),
		table.NewCategoricalColumn("Task", []string{"walk", "turn", "walk", "walk", ""}),
		table.NewNumericColumn("Duration", []float64{10, 12, 10, 9, 11}),
	)

	descriptions, err := NewDescriber().DescribeDistinctCounts(tbl, "Subject")
	require.NoError(t, err)
	require.Len(t, descriptions, 2)

	// a1 performs 2 distinct tasks, b2 performs 1 (missing values excluded).
	task := descriptions[0]
	assert.Equal(t, "Task", task.Column)
	assert.Equal(t, 2, task.Count)
	assert.InDelta(t, 1.5, task.Mean, 1e-9)
	assert.InDelta(t, 1.0, task.Min, 1e-9)
	assert.InDelta(t, 2.0, task.Max, 1e-9)

	// a1 has durations {10, 12}, b2 has {9, 11}.
	duration := descriptions[1]
	assert.Equal(t, "Duration", duration.Column)
	assert.InDelta(t, 2.0, duration.Mean, 1e-9)
}

func TestDescribeDistinctCounts_MissingGroupColumn(t *testing.T) {
	_, err := NewDescriber().DescribeDistinctCounts(scoresFixture(t), "Nope")
	assert.ErrorIs(t, err, core.ErrMissingColumn)
}

func TestDescribe_CompactFormat(t *testing.T) {
	tbl := table.MustNew("visits",
		table.NewNumericColumn("Duration", []float64{9.97, 10.02, 10.01}),
	)

	desc, err := NewDescriber().Describe(tbl, "Duration")
	require.NoError(t, err)
	assert.Equal(t, "10.0 ± 0.0", desc.Compact())
}

func TestDescribe_RejectsDecreasingPercentiles(t *testing.T) {
	d := &Describer{Percentiles: []float64{0.5, 0.25}}
	_, err := d.Describe(scoresFixture(t), "Score")
	assert.Error(t, err)
}

func TestDescribe_EmptyTable(t *testing.T) {
	empty := table.MustNew("empty", table.NewNumericColumn("x", nil))
	_, err := NewDescriber().Describe(empty, "x")
	assert.ErrorIs(t, err, core.ErrEmptyTable)
}
