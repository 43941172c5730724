// Package report renders screening results as an XLSX workbook.
package report

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/docsift/docsift/internal/screen"
)

const (
	sheetCandidates = "Screening"
	sheetSummary    = "Summary"
)

// Writer produces screening report workbooks.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a report writer.
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// WriteXLSX writes one row per candidate plus a summary sheet to path.
func (w *Writer) WriteXLSX(candidates []screen.Candidate, sum screen.Summary, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetCandidates); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("create wrap style: %w", err)
	}

	headers := []string{"Candidate", "Email", "Similarity Score", "Decision", "Reasoning", "Resume"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetCandidates, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := f.SetCellStyle(sheetCandidates, "A1", "F1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	widths := map[string]float64{"A": 24, "B": 28, "C": 16, "D": 14, "E": 80, "F": 40}
	for col, width := range widths {
		if err := f.SetColWidth(sheetCandidates, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	for i, c := range candidates {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheetCandidates, cell, v)
		}
		write(1, c.Name)
		write(2, c.Email)
		write(3, fmt.Sprintf("%.1f", c.SimilarityScore))
		write(4, string(c.Decision))
		write(5, c.Reasoning)
		write(6, c.ResumePath)

		reasonCell, _ := excelize.CoordinatesToCellName(5, row)
		_ = f.SetCellStyle(sheetCandidates, reasonCell, reasonCell, wrapStyle)
	}

	if err := w.writeSummary(f, sum); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	w.logger.Info("report written", "path", path, "candidates", len(candidates))
	return nil
}

func (w *Writer) writeSummary(f *excelize.File, sum screen.Summary) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	rows := []struct {
		label string
		value int
	}{
		{"Total candidates", sum.Total()},
		{"Shortlisted", sum.Shortlisted},
		{"Maybe", sum.Maybe},
		{"Rejected", sum.Rejected},
	}
	for i, r := range rows {
		labelCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := f.SetCellValue(sheetSummary, labelCell, r.label); err != nil {
			return err
		}
		if err := f.SetCellValue(sheetSummary, valueCell, r.value); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheetSummary, "A", "A", 22)
}
