package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fogstudy/domain/table"
	"fogstudy/internal/study"
)

func fixtureStudy(t *testing.T) *study.Study {
	t.Helper()

	subjects := table.MustNew("subjects",
		table.NewCategoricalColumn("Subject", []string{"a1", "b2"}),
		table.NewNumericColumn("Visit", []float64{1, 2}),
		table.NewCategoricalColumn("Sex", []string{"F", "M"}),
		table.NewNumericColumn("YearsSinceDx", []float64{4, 9}),
		table.NewNumericColumn("UPDRSIII_Off", []float64{30, 44}),
		table.NewNumericColumn("UPDRSIII_On", []float64{22, 37}),
	)
	events := table.MustNew("events",
		table.NewCategoricalColumn("Id", []string{"e1", "e2", "e3"}),
		table.NewNumericColumn("Init", []float64{10, 65, 80}),
		table.NewNumericColumn("Completion", []float64{14, 77, 95}),
	)

	s, err := study.FromTables(map[string]*table.Table{
		study.Subjects: subjects,
		study.Events:   events,
	})
	require.NoError(t, err)
	return s
}

func TestGenerateCoversEveryDataset(t *testing.T) {
	s := fixtureStudy(t)

	r, err := NewGenerator().Generate(s)
	require.NoError(t, err)

	assert.Equal(t, s.Names(), r.SectionNames())
	assert.Equal(t, s.ID, r.StudyID)
	assert.NotEmpty(t, r.ID.String())
}

func TestSectionRowAndColumnCounts(t *testing.T) {
	s := fixtureStudy(t)

	r, err := NewGenerator().Generate(s)
	require.NoError(t, err)

	for _, section := range r.Sections {
		dataset, err := s.Dataset(section.Name)
		require.NoError(t, err)
		assert.Equal(t, dataset.RowCount(), section.Rows)
		assert.Equal(t, dataset.ColumnCount(), section.Columns)
		assert.Len(t, section.Summaries, dataset.ColumnCount())
	}
}

func TestMarkdownRendersSectionsAndTables(t *testing.T) {
	s := fixtureStudy(t)

	r, err := NewGenerator().Generate(s)
	require.NoError(t, err)

	md := r.Markdown()
	assert.True(t, strings.HasPrefix(md, "# Study Report"))
	assert.Contains(t, md, "## subjects")
	assert.Contains(t, md, "## events")
	assert.Contains(t, md, "## updrs")
	assert.Contains(t, md, "| Column | Dtype |")
	// Event durations: 4, 12, 15 -> mean 10.3.
	assert.Contains(t, md, "10.3 ±")
}

func TestHTMLContainsRenderedHeadings(t *testing.T) {
	s := fixtureStudy(t)

	r, err := NewGenerator().Generate(s)
	require.NoError(t, err)

	html := string(r.HTML())
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "subjects")
	assert.Contains(t, html, "<table")
}

func TestWriteWorkbook(t *testing.T) {
	s := fixtureStudy(t)

	r, err := NewGenerator().Generate(s)
	require.NoError(t, err)

	dir := t.TempDir()
	path, err := r.WriteWorkbook(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Equal(t, s.Names(), sheets)

	header, err := f.GetCellValue("subjects", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Column", header)

	first, err := f.GetCellValue("subjects", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Subject", first)
}
