package ui

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fogstudy/adapters/chart"
	"fogstudy/domain/core"
	"fogstudy/domain/table"
	"fogstudy/internal/analysis"
)

type datasetInfo struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

func (a *App) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	infos := make([]datasetInfo, 0, len(a.study.Names()))
	for _, name := range a.study.Names() {
		t, err := a.study.Dataset(name)
		if err != nil {
			a.writeError(w, err)
			return
		}
		infos = append(infos, datasetInfo{Name: name, Rows: t.RowCount(), Columns: t.ColumnCount()})
	}
	a.writeJSON(w, http.StatusOK, infos)
}

type tableRows struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// handleRows previews rows: the first n by default, or a seeded random
// draw with sample=true. The seed is fixed per server so repeated requests
// return the same draw.
func (a *App) handleRows(w http.ResponseWriter, r *http.Request) {
	t, err := a.study.Dataset(chi.URLParam(r, "name"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	n := 5
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err = strconv.Atoi(raw)
		if err != nil || n < 1 {
			a.writeBadRequest(w, "n must be a positive integer")
			return
		}
	}

	view := t.Head(n)
	if r.URL.Query().Get("sample") == "true" {
		view = t.Sample(n, a.sampleSeed)
	}

	rows := make([][]string, view.RowCount())
	for i := range rows {
		row := make([]string, view.ColumnCount())
		for j, col := range view.Columns() {
			row[j] = col.Render(i)
		}
		rows[i] = row
	}
	a.writeJSON(w, http.StatusOK, tableRows{Columns: view.Names(), Rows: rows})
}

func (a *App) handleSummary(w http.ResponseWriter, r *http.Request) {
	t, err := a.study.Dataset(chi.URLParam(r, "name"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	summaries, err := a.summarizer.Summarize(t)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, summaries)
}

func (a *App) handleDescribe(w http.ResponseWriter, r *http.Request) {
	t, err := a.study.Dataset(chi.URLParam(r, "name"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	column := r.URL.Query().Get("column")
	groupBy := r.URL.Query().Get("group_by")
	verbose := r.URL.Query().Get("verbose") != "false"

	switch {
	case column == "" && groupBy != "":
		grouped, err := a.describer.DescribeAllGroups(t, groupBy)
		if err != nil {
			a.writeError(w, err)
			return
		}
		if verbose {
			a.writeJSON(w, http.StatusOK, grouped)
			return
		}
		compact := make(map[string]map[string]string, len(grouped))
		for _, g := range grouped {
			byGroup := make(map[string]string, len(g.Groups))
			for key, d := range g.Groups {
				byGroup[key] = d.Compact()
			}
			compact[g.Column] = byGroup
		}
		a.writeJSON(w, http.StatusOK, compact)

	case column == "":
		descriptions, err := a.describer.DescribeAll(t)
		if err != nil {
			a.writeError(w, err)
			return
		}
		if verbose {
			a.writeJSON(w, http.StatusOK, descriptions)
			return
		}
		compact := make(map[string]string, len(descriptions))
		for _, d := range descriptions {
			compact[d.Column] = d.Compact()
		}
		a.writeJSON(w, http.StatusOK, compact)

	case groupBy != "":
		grouped, err := a.describer.DescribeGroups(t, column, groupBy)
		if err != nil {
			a.writeError(w, err)
			return
		}
		if verbose {
			a.writeJSON(w, http.StatusOK, grouped)
			return
		}
		compact := make(map[string]string, len(grouped.Groups))
		for key, d := range grouped.Groups {
			compact[key] = d.Compact()
		}
		a.writeJSON(w, http.StatusOK, compact)

	default:
		description, err := a.describer.Describe(t, column)
		if err != nil {
			a.writeError(w, err)
			return
		}
		if verbose {
			a.writeJSON(w, http.StatusOK, description)
			return
		}
		a.writeJSON(w, http.StatusOK, map[string]string{description.Column: description.Compact()})
	}
}

// handleDistinct serves the per-group distinct-count summary: how many
// distinct values each column takes per partition, described column-wise.
func (a *App) handleDistinct(w http.ResponseWriter, r *http.Request) {
	t, err := a.study.Dataset(chi.URLParam(r, "name"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	groupBy := r.URL.Query().Get("group_by")
	if groupBy == "" {
		a.writeBadRequest(w, "group_by query parameter is required")
		return
	}

	descriptions, err := a.describer.DescribeDistinctCounts(t, groupBy)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, descriptions)
}

func (a *App) handleCompare(w http.ResponseWriter, r *http.Request) {
	t, err := a.study.Dataset(chi.URLParam(r, "name"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	column := r.URL.Query().Get("column")
	groupBy := r.URL.Query().Get("group_by")
	if column == "" || groupBy == "" {
		a.writeBadRequest(w, "column and group_by query parameters are required")
		return
	}

	groups, err := groupedValues(t, column, groupBy)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if len(groups) != 2 {
		a.writeBadRequest(w, fmt.Sprintf("group_by %s yields %d groups, need exactly 2", groupBy, len(groups)))
		return
	}

	comparison, err := analysis.Compare(groups[0], groups[1])
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, comparison)
}

func (a *App) handleChart(w http.ResponseWriter, r *http.Request) {
	t, err := a.study.Dataset(chi.URLParam(r, "name"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	q := r.URL.Query()
	var spec chart.Spec

	switch kind := chi.URLParam(r, "kind"); kind {
	case "count":
		spec, err = chart.Count(t, q.Get("column"), a.style)
	case "bar":
		spec, err = chart.Bar(t, q.Get("x"), q.Get("y"), a.style)
	case "histogram":
		bins := 0
		if raw := q.Get("bins"); raw != "" {
			bins, err = strconv.Atoi(raw)
			if err != nil {
				a.writeBadRequest(w, "bins must be an integer")
				return
			}
		}
		spec, err = chart.Histogram(t, q.Get("column"), bins, a.style)
	case "box":
		spec, err = chart.Box(t, q.Get("column"), q.Get("group_by"), a.style)
	case "summary":
		summaries, serr := a.summarizer.Summarize(t)
		if serr != nil {
			a.writeError(w, serr)
			return
		}
		normalized := q.Get("normalized") == "true"
		spec = chart.SummaryBars(summaries, q.Get("metric"), normalized, a.style)
	case "dtypes":
		summaries, serr := a.summarizer.Summarize(t)
		if serr != nil {
			a.writeError(w, serr)
			return
		}
		spec = chart.DtypeCounts(summaries, a.style)
	default:
		a.writeBadRequest(w, fmt.Sprintf("unknown chart kind %q", kind))
		return
	}

	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, spec)
}

func (a *App) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	rep, err := a.generator.Generate(a.study)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, rep)
}

func (a *App) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	rep, err := a.generator.Generate(a.study)
	if err != nil {
		a.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(rep.HTML()); err != nil {
		log.Printf("[UI] Failed to write report: %v", err)
	}
}

// groupedValues partitions a numeric column by the rendered group key,
// dropping missing values. Group order follows first appearance.
func groupedValues(t *table.Table, column, groupBy string) ([][]float64, error) {
	vals, err := t.Numeric(column)
	if err != nil {
		return nil, err
	}
	groupCol, err := t.Column(groupBy)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var groups [][]float64
	for i, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		key := groupCol.Render(i)
		gi, ok := index[key]
		if !ok {
			gi = len(groups)
			index[key] = gi
			groups = append(groups, nil)
		}
		groups[gi] = append(groups[gi], v)
	}
	return groups, nil
}

func (a *App) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[UI] Failed to encode response: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsAnalysisInputError(err):
		status = http.StatusBadRequest
	case core.IsNotFoundError(err):
		status = http.StatusNotFound
	}
	a.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (a *App) writeBadRequest(w http.ResponseWriter, message string) {
	a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": message})
}
