package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

var summaryHeader = []string{"Column", "Dtype", "Valid", "Null", "Validity", "Unique", "Cardinality", "Size"}

// WriteWorkbook writes the report as an Excel workbook with one sheet per
// dataset and returns the file path.
func (r *Report) WriteWorkbook(outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, section := range r.Sections {
		sheet := sheetName(section.Name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return "", fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return "", fmt.Errorf("add sheet %s: %w", sheet, err)
			}
		}
		if err := writeSection(f, sheet, section); err != nil {
			return "", err
		}
	}

	path := filepath.Join(outputDir, fmt.Sprintf("study_report_%s.xlsx", r.ID.String()))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

func writeSection(f *excelize.File, sheet string, section DatasetSection) error {
	for col, title := range summaryHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}

	for row, s := range section.Summaries {
		values := []interface{}{
			s.Column, string(s.Dtype), s.Valid, s.Null, s.Validity, s.Unique, s.Cardinality, s.Size,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	// Descriptive stats below the summary block.
	base := len(section.Summaries) + 3
	for i, d := range section.Descriptions {
		nameCell, err := excelize.CoordinatesToCellName(1, base+i)
		if err != nil {
			return err
		}
		valueCell, err := excelize.CoordinatesToCellName(2, base+i)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, nameCell, d.Column); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, valueCell, d.Compact()); err != nil {
			return err
		}
	}

	return nil
}

// sheetName trims dataset names to Excel's 31-character sheet name limit.
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
