// Package export writes parsed sales tables to Excel workbooks.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ironsheep/salesbot-ocr/internal/report"
)

// Sheet names.
const (
	RecordsSheet = "Records"
	SummarySheet = "Summary"
)

// moneyFormat is the built-in "#,##0.00" number format.
const moneyFormat = 4

// Workbook builds a workbook with the raw records of table on one sheet and
// the target comparison s on another. date is written above the summary.
func Workbook(table *report.Table, s report.Summary, date string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", RecordsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: moneyFormat})
	if err != nil {
		return nil, err
	}

	if err := writeRecords(f, table, headerStyle, moneyStyle); err != nil {
		return nil, fmt.Errorf("records sheet: %w", err)
	}
	if err := writeSummary(f, s, date, headerStyle, moneyStyle); err != nil {
		return nil, fmt.Errorf("summary sheet: %w", err)
	}
	return f, nil
}

func writeRecords(f *excelize.File, table *report.Table, headerStyle, moneyStyle int) error {
	l := &table.Layout
	headers := []any{"department"}
	for _, c := range l.Columns {
		headers = append(headers, c)
	}
	headers = append(headers, "sales")
	if err := f.SetSheetRow(RecordsSheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetRowStyle(RecordsSheet, 1, 1, headerStyle); err != nil {
		return err
	}

	salesCol := len(headers)
	for i, r := range table.Records {
		row := []any{r.Department}
		for _, v := range r.Fields {
			row = append(row, v)
		}
		row = append(row, r.Sales.InexactFloat64())

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(RecordsSheet, cell, &row); err != nil {
			return err
		}
		sales, _ := excelize.CoordinatesToCellName(salesCol, i+2)
		if err := f.SetCellStyle(RecordsSheet, sales, sales, moneyStyle); err != nil {
			return err
		}
	}

	last, _ := excelize.ColumnNumberToName(salesCol)
	return f.SetColWidth(RecordsSheet, "A", last, 14)
}

func writeSummary(f *excelize.File, s report.Summary, date string, headerStyle, moneyStyle int) error {
	if err := f.SetCellValue(SummarySheet, "A1", "date"); err != nil {
		return err
	}
	if err := f.SetCellValue(SummarySheet, "B1", date); err != nil {
		return err
	}
	if err := f.SetCellValue(SummarySheet, "C1", "layout"); err != nil {
		return err
	}
	if err := f.SetCellValue(SummarySheet, "D1", s.Layout); err != nil {
		return err
	}

	headers := []any{"group", "department", "target", "actual", "diff"}
	if err := f.SetSheetRow(SummarySheet, "A2", &headers); err != nil {
		return err
	}
	if err := f.SetRowStyle(SummarySheet, 2, 2, headerStyle); err != nil {
		return err
	}

	row := 3
	put := func(group, code string, line report.Line) error {
		values := []any{group, code, line.Target.InexactFloat64(), line.Actual.InexactFloat64(), line.Diff.InexactFloat64()}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SummarySheet, cell, &values); err != nil {
			return err
		}
		from, _ := excelize.CoordinatesToCellName(3, row)
		to, _ := excelize.CoordinatesToCellName(5, row)
		row++
		return f.SetCellStyle(SummarySheet, from, to, moneyStyle)
	}

	for _, g := range s.Groups {
		for _, line := range g.Lines {
			if err := put(g.Name, line.Code, line); err != nil {
				return err
			}
		}
		if g.Total != nil {
			if err := put(g.Name, "total", *g.Total); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(SummarySheet, "A", "B", 14); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "C", "E", 16)
}

// WriteFile builds the workbook and saves it to path.
func WriteFile(path string, table *report.Table, s report.Summary, date string) error {
	f, err := Workbook(table, s, date)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
