package analysis

import (
	"fogstudy/domain/core"
	"fogstudy/domain/stats"
	"fogstudy/domain/table"

	"golang.org/x/sync/errgroup"
)

// Summarizer computes per-column quality metrics for a table
type Summarizer struct {
	// Workers caps concurrent column summaries. <= 0 means one goroutine
	// per column; columns share no state so order of completion is free,
	// output order is always table declaration order.
	Workers int
}

// NewSummarizer creates a summarizer with default concurrency
func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// Summarize computes valid/null/validity/unique/cardinality/size for every
// column. Repeated calls on the same table yield identical output.
func (s *Summarizer) Summarize(t *table.Table) ([]stats.ColumnSummary, error) {
	if t.RowCount() == 0 {
		return nil, core.ErrEmptyTable
	}

	cols := t.Columns()
	summaries := make([]stats.ColumnSummary, len(cols))

	var g errgroup.Group
	if s.Workers > 0 {
		g.SetLimit(s.Workers)
	}
	for i, col := range cols {
		g.Go(func() error {
			summaries[i] = summarizeColumn(col, t.RowCount())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func summarizeColumn(col *table.Column, rows int) stats.ColumnSummary {
	valid := col.ValidCount()
	unique := col.UniqueCount()
	return stats.ColumnSummary{
		Column:      col.Name(),
		Dtype:       col.Dtype(),
		Valid:       valid,
		Null:        rows - valid,
		Validity:    float64(valid) / float64(rows),
		Unique:      unique,
		Cardinality: float64(unique) / float64(rows),
		Size:        col.ApproxSize(),
	}
}
