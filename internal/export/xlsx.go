// Package export writes period reports to XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"tally/internal/services"
)

const (
	SummarySheet = "Summary"
	DetailSheet  = "Detail"
)

var (
	summaryHeader = []any{"Category", "Total", "Percent"}
	detailHeader  = []any{"Date", "Description", "Type", "Category", "Normal", "Amount"}
)

// WriteXLSX renders rep as a workbook with a Summary and a Detail sheet.
func WriteXLSX(w io.Writer, rep services.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(DetailSheet); err != nil {
		return fmt.Errorf("create detail sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#2E86C1"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("create money style: %w", err)
	}

	if err := writeSummary(f, rep, headerStyle, moneyStyle); err != nil {
		return err
	}
	if err := writeDetail(f, rep, headerStyle); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, rep services.Report, headerStyle, moneyStyle int) error {
	sw, err := f.NewStreamWriter(SummarySheet)
	if err != nil {
		return fmt.Errorf("summary stream: %w", err)
	}
	if err := sw.SetColWidth(1, 3, 16); err != nil {
		return err
	}

	title := fmt.Sprintf("%s (%s)", rep.Period.Kind.Label(), rep.Range)
	if err := sw.SetRow("A1", []any{title}); err != nil {
		return err
	}
	if err := sw.SetRow("A2", styled(summaryHeader, headerStyle)); err != nil {
		return err
	}

	row := 3
	for _, c := range rep.Summary {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := sw.SetRow(cell, []any{
			string(c.Category),
			excelize.Cell{Value: c.Total.InexactFloat64(), StyleID: moneyStyle},
			round2(c.Percent),
		}); err != nil {
			return err
		}
		row++
	}
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := sw.SetRow(cell, []any{
		"Total",
		excelize.Cell{Value: rep.Summary.Total().InexactFloat64(), StyleID: moneyStyle},
	}); err != nil {
		return err
	}
	return sw.Flush()
}

func writeDetail(f *excelize.File, rep services.Report, headerStyle int) error {
	sw, err := f.NewStreamWriter(DetailSheet)
	if err != nil {
		return fmt.Errorf("detail stream: %w", err)
	}
	if err := sw.SetColWidth(2, 2, 32); err != nil {
		return err
	}
	if err := sw.SetRow("A1", styled(detailHeader, headerStyle)); err != nil {
		return err
	}
	for i, d := range rep.Detail {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, []any{d.Date, d.Description, d.Type, string(d.Category), d.Normal, d.Amount}); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func styled(values []any, style int) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = excelize.Cell{Value: v, StyleID: style}
	}
	return out
}

func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}
