// Package report renders study-wide quality and descriptive summaries as
// markdown, HTML and Excel workbooks.
package report

import (
	"fmt"
	"log"
	"strings"
	"time"

	"fogstudy/domain/core"
	"fogstudy/domain/stats"
	"fogstudy/domain/table"
	"fogstudy/internal/analysis"
	"fogstudy/internal/study"
)

// DatasetSection holds everything the report renders for one dataset.
type DatasetSection struct {
	Name         string                `json:"name"`
	Rows         int                   `json:"rows"`
	Columns      int                   `json:"columns"`
	Summaries    []stats.ColumnSummary `json:"summaries"`
	Descriptions []stats.Description   `json:"descriptions"`
}

// Report is a rendered snapshot of a study.
type Report struct {
	ID          core.ReportID    `json:"id"`
	StudyID     core.StudyID     `json:"study_id"`
	GeneratedAt core.Timestamp   `json:"generated_at"`
	Sections    []DatasetSection `json:"sections"`
}

// Generator assembles reports from a study.
type Generator struct {
	summarizer *analysis.Summarizer
	describer  *analysis.Describer
}

// NewGenerator creates a generator with default analysis settings.
func NewGenerator() *Generator {
	return &Generator{
		summarizer: analysis.NewSummarizer(),
		describer:  analysis.NewDescriber(),
	}
}

// Generate builds a report section for every dataset in the study.
func (g *Generator) Generate(s *study.Study) (*Report, error) {
	start := time.Now()

	r := &Report{
		ID:          core.NewReportID(),
		StudyID:     s.ID,
		GeneratedAt: core.Now(),
	}

	for _, name := range s.Names() {
		t, err := s.Dataset(name)
		if err != nil {
			return nil, err
		}
		section, err := g.section(t)
		if err != nil {
			return nil, fmt.Errorf("report section %s: %w", name, err)
		}
		r.Sections = append(r.Sections, section)
	}

	log.Printf("[Report] Generated %d sections in %v", len(r.Sections), time.Since(start))
	return r, nil
}

func (g *Generator) section(t *table.Table) (DatasetSection, error) {
	section := DatasetSection{
		Name:    t.Name(),
		Rows:    t.RowCount(),
		Columns: t.ColumnCount(),
	}

	summaries, err := g.summarizer.Summarize(t)
	if err != nil {
		if core.IsAnalysisInputError(err) {
			// Empty tables still get a header-only section.
			return section, nil
		}
		return section, err
	}
	section.Summaries = summaries

	descriptions, err := g.describer.DescribeAll(t)
	if err != nil {
		return section, err
	}
	section.Descriptions = descriptions

	return section, nil
}

// Markdown renders the report as a markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Study Report\n\n")
	fmt.Fprintf(&b, "Generated %s\n\n", r.GeneratedAt.Time().Format(time.RFC3339))

	for _, section := range r.Sections {
		fmt.Fprintf(&b, "## %s\n\n", section.Name)
		fmt.Fprintf(&b, "%d rows, %d columns\n\n", section.Rows, section.Columns)

		if len(section.Summaries) > 0 {
			b.WriteString("| Column | Dtype | Valid | Null | Validity | Unique | Cardinality | Size |\n")
			b.WriteString("|---|---|---|---|---|---|---|---|\n")
			for _, s := range section.Summaries {
				fmt.Fprintf(&b, "| %s | %s | %d | %d | %.3f | %d | %.3f | %d |\n",
					s.Column, s.Dtype, s.Valid, s.Null, s.Validity, s.Unique, s.Cardinality, s.Size)
			}
			b.WriteString("\n")
		}

		if len(section.Descriptions) > 0 {
			b.WriteString("| Column | Summary |\n")
			b.WriteString("|---|---|\n")
			for _, d := range section.Descriptions {
				fmt.Fprintf(&b, "| %s | %s |\n", d.Column, d.Compact())
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// SectionNames returns section names in render order.
func (r *Report) SectionNames() []string {
	names := make([]string, len(r.Sections))
	for i, s := range r.Sections {
		names[i] = s.Name
	}
	return names
}
