// Package export renders requirement reports as xlsx workbooks.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kitworks/kitops-backend/internal/operations/requirements"
)

var summaryHeaders = []string{
	"Material", "Category", "Unit", "Required", "Available", "Shortage", "Kits",
}

// MaterialSummaryWorkbook renders the material summary rows as a styled
// single-sheet workbook
func MaterialSummaryWorkbook(rows []requirements.Row, sheetName string) ([]byte, error) {
	if sheetName == "" {
		sheetName = "Material Summary"
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range summaryHeaders {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		values := []string{
			row.Name,
			row.Category,
			row.Unit,
			row.Required.String(),
			row.Available.String(),
			row.Shortage.String(),
			strings.Join(row.Kits, ", "),
		}
		for colIdx, value := range values {
			cell := fmt.Sprintf("%s%d", string(rune('A'+colIdx)), rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range summaryHeaders {
		col := string(rune('A' + i))
		f.SetColWidth(sheetName, col, col, 18)
	}

	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
