package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"bikeshare/internal/kpi"
	"bikeshare/internal/views"
	"bikeshare/pkg/contracts/domain"
)

// KPISheet is the name of the workbook sheet holding the KPI widgets
const KPISheet = "KPIs"

// WriteView streams the named view to w as CSV
func WriteView(w io.Writer, name string, v *domain.Views) error {
	table, err := views.Lookup(v, name)
	if err != nil {
		return err
	}
	return Encode(w, WriteOptions{
		Headers: table.Columns,
		Records: formatRecords(table.Rows),
	})
}

// WriteWorkbook writes an XLSX workbook with the KPI widgets on the first
// sheet followed by one sheet per view
func WriteWorkbook(w io.Writer, v *domain.Views, k domain.KPIs) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", KPISheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#34AE91"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	rows := [][]any{{"Section", "Widget", "Value"}}
	for _, wd := range kpi.Widgets(k) {
		rows = append(rows, []any{wd.Section, wd.Label, wd.Value})
	}
	if err := writeSheet(f, KPISheet, rows, header); err != nil {
		return err
	}
	if err := f.SetColWidth(KPISheet, "B", "B", 36); err != nil {
		return fmt.Errorf("failed to size KPI sheet: %w", err)
	}

	for _, table := range views.Tables(v) {
		if _, err := f.NewSheet(table.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", table.Name, err)
		}
		rows := make([][]any, 0, len(table.Rows)+1)
		head := make([]any, len(table.Columns))
		for i, c := range table.Columns {
			head[i] = c
		}
		rows = append(rows, head)
		for _, r := range table.Rows {
			cells := make([]any, len(r))
			for i, c := range r {
				cells[i] = workbookCell(c)
			}
			rows = append(rows, cells)
		}
		if err := writeSheet(f, table.Name, rows, header); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeSheet writes rows starting at A1 and styles the first row
func writeSheet(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) > 0 {
		if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
			return fmt.Errorf("failed to style %s header: %w", sheet, err)
		}
	}
	return nil
}
