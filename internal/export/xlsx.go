package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"github.com/zh-address-parser/app/models"
)

// SheetName tên sheet kết quả
const SheetName = "results"

// WriteXLSX ghi kết quả ra workbook một sheet, header in đậm
func WriteXLSX(out io.Writer, results []models.AddressResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("lỗi đặt tên sheet: %w", err)
	}

	if err := setRow(f, 1, columns); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("lỗi tạo style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("lỗi set style header: %w", err)
	}

	for i := range results {
		if err := setRow(f, i+2, resultToRow(&results[i])); err != nil {
			return err
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("lỗi ghi xlsx: %w", err)
	}
	return nil
}

// setRow ghi các ô dạng text, giữ nguyên số 0 đầu của mã và số điện thoại
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
		return fmt.Errorf("lỗi ghi dòng %d: %w", row, err)
	}
	return nil
}
