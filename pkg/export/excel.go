package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
	"github.com/xuri/excelize/v2"
)

const (
	sheetActive  = "Active Access"
	sheetRemoved = "Removed Access"
	sheetSummary = "Summary"
)

// removedStatuses are row statuses that belong on the removed/exit
// sheet of the comprehensive access review workbook.
var removedStatuses = map[string]bool{
	"EXIT":          true,
	"EXITED":        true,
	"DEPROVISIONED": true,
	"SUSPENDED":     true,
}

// encodeExcel builds the multi-sheet access review workbook: an
// active row set, a removed/exit row set, and a summary sheet with
// the aggregate statistics, insights and recommendations.
func encodeExcel(result *domain.ReportResult, columns []domain.ReportColumn) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetActive)
	if _, err := f.NewSheet(sheetRemoved); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	active, removed := splitByStatus(result.Data)
	if err := writeRowSheet(f, sheetActive, columns, active); err != nil {
		return nil, err
	}
	if err := writeRowSheet(f, sheetRemoved, columns, removed); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, result, len(active), len(removed)); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// splitByStatus partitions rows on the status field. Rows without a
// status stay on the active sheet.
func splitByStatus(rows []domain.Row) (active, removed []domain.Row) {
	for _, row := range rows {
		status, _ := row["status"].(string)
		if removedStatuses[strings.ToUpper(status)] {
			removed = append(removed, row)
		} else {
			active = append(active, row)
		}
	}
	return active, removed
}

func writeRowSheet(f *excelize.File, sheet string, columns []domain.ReportColumn, rows []domain.Row) error {
	for i, c := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, columnLabel(c)); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for r, row := range rows {
		for i, c := range columns {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, cellValue(row[c.Key])); err != nil {
				return fmt.Errorf("write cell: %w", err)
			}
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, result *domain.ReportResult, activeCount, removedCount int) error {
	lines := [][2]any{
		{"Generated At", result.Summary.GeneratedAt.UTC().Format("2006-01-02 15:04:05")},
		{"Total Records", result.Summary.TotalRecords},
		{"Active Rows", activeCount},
		{"Removed Rows", removedCount},
	}
	for _, w := range result.Warnings {
		lines = append(lines, [2]any{"Warning", w})
	}
	for _, ins := range result.Insights {
		lines = append(lines, [2]any{"Insight", ins})
	}
	for _, rec := range result.Recommendations {
		lines = append(lines, [2]any{"Recommendation", rec})
	}

	for r, line := range lines {
		keyCell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return fmt.Errorf("summary cell: %w", err)
		}
		valCell, err := excelize.CoordinatesToCellName(2, r+1)
		if err != nil {
			return fmt.Errorf("summary cell: %w", err)
		}
		if err := f.SetCellValue(sheetSummary, keyCell, line[0]); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		if err := f.SetCellValue(sheetSummary, valCell, line[1]); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}
