package transcode

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mmynk/rollbook/internal/models"
)

// SheetName is the worksheet that holds exported attendance.
const SheetName = "Attendance"

// ExportXLSX writes the same layout as ExportCSV into a workbook.
func ExportXLSX(w io.Writer, groups []models.Group, dates []string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	header := Header(dates)
	if err := setRow(f, 1, header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range Rows(groups, dates) {
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
