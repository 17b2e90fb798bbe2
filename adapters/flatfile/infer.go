package flatfile

import (
	"math"
	"strconv"
	"time"

	"fogstudy/domain/table"
)

// temporalLayouts are tried in order when sniffing date columns
var temporalLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// inferColumn types a raw column by inspecting its non-empty cells: all
// parseable numbers make it Numeric, all parseable dates Temporal,
// anything else Categorical. A column with no values at all stays
// Categorical.
func inferColumn(name string, cells []string) *table.Column {
	sawValue := false
	numeric := true
	temporal := true
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		sawValue = true
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			numeric = false
		}
		if parseTemporal(cell) == nil {
			temporal = false
		}
		if !numeric && !temporal {
			break
		}
	}

	switch {
	case sawValue && numeric:
		vals := make([]float64, len(cells))
		for i, cell := range cells {
			if cell == "" {
				vals[i] = math.NaN()
				continue
			}
			vals[i], _ = strconv.ParseFloat(cell, 64)
		}
		return table.NewNumericColumn(name, vals)
	case sawValue && temporal:
		vals := make([]time.Time, len(cells))
		for i, cell := range cells {
			if cell == "" {
				continue
			}
			if ts := parseTemporal(cell); ts != nil {
				vals[i] = *ts
			}
		}
		return table.NewTemporalColumn(name, vals)
	default:
		return table.NewCategoricalColumn(name, cells)
	}
}

func parseTemporal(cell string) *time.Time {
	for _, layout := range temporalLayouts {
		if ts, err := time.Parse(layout, cell); err == nil {
			return &ts
		}
	}
	return nil
}
