// Package export ghi kết quả parse địa chỉ ra CSV/XLSX và đọc danh sách địa chỉ đầu vào.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/zh-address-parser/app/models"
)

// BOM UTF-8 để Excel trên Windows đọc đúng tiếng Trung
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns header của file xuất
var columns = []string{
	"raw",
	"province",
	"province_code",
	"city",
	"city_code",
	"area",
	"area_code",
	"street",
	"street_code",
	"name",
	"phone",
	"postal_code",
	"detail",
	"status",
	"resolved_levels",
	"error",
}

// Columns trả về bản sao header
func Columns() []string {
	return append([]string(nil), columns...)
}

// Writer bọc csv.Writer để xuất kết quả parse
type Writer struct {
	csv *csv.Writer
}

// NewWriter tạo Writer ghi CSV vào w
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader ghi dòng header
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteResults ghi một lô kết quả
func (w *Writer) WriteResults(results []models.AddressResult) error {
	for i := range results {
		if err := w.csv.Write(resultToRow(&results[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flush buffer của csv.Writer
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error trả về lỗi của csv.Writer
func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteCSV ghi BOM, header và toàn bộ kết quả
func WriteCSV(out io.Writer, results []models.AddressResult) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteResults(results); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func resultToRow(r *models.AddressResult) []string {
	return []string{
		r.Raw,
		r.Province,
		r.ProvinceCode,
		r.City,
		r.CityCode,
		r.Area,
		r.AreaCode,
		r.Street,
		r.StreetCode,
		r.Name,
		r.Phone,
		r.PostalCode,
		r.Detail,
		r.Status,
		strconv.Itoa(r.ResolvedLevels),
		r.Error,
	}
}
