package services

import (
	"bytes"
	"fmt"

	"pstn-call-report/internal/models"

	"github.com/xuri/excelize/v2"
)

// ExcelService renders built reports into xlsx attachments
type ExcelService struct{}

// NewExcelService creates a new excel service
func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// RenderReport writes the report rows into a single-sheet workbook,
// applying the row style flags and advisory column widths, and returns
// the file bytes. Nothing is left on disk.
func (s *ExcelService) RenderReport(report *models.Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("invalid report data")
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Sheet1"

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bold style: %w", err)
	}

	for i, row := range report.Rows {
		for j, cell := range row.Cells {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve cell reference: %w", err)
			}
			if err := f.SetCellValue(sheet, ref, cell); err != nil {
				return nil, fmt.Errorf("failed to set cell %s: %w", ref, err)
			}
			if row.Style.Bold {
				style := boldStyle
				if row.Style.Centered {
					style = headerStyle
				}
				if err := f.SetCellStyle(sheet, ref, ref, style); err != nil {
					return nil, fmt.Errorf("failed to style cell %s: %w", ref, err)
				}
			}
		}
	}

	for j, width := range report.ColumnWidths {
		col, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve column name: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, float64(width)); err != nil {
			return nil, fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
