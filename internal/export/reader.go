package export

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Định dạng file đầu vào/đầu ra
const (
	FormatText   = "text"
	FormatCSV    = "csv"
	FormatXLSX   = "xlsx"
	FormatNDJSON = "ndjson"
)

// ReadAddresses đọc danh sách địa chỉ: text một dòng một địa chỉ,
// CSV/XLSX lấy cột đầu tiên. Dòng trống bị bỏ qua.
func ReadAddresses(r io.Reader, format string) ([]string, error) {
	switch format {
	case FormatText, "":
		return readLines(r)
	case FormatCSV:
		return readCSV(r)
	case FormatXLSX:
		return readXLSX(r)
	default:
		return nil, fmt.Errorf("định dạng không hỗ trợ: %s", format)
	}
}

func readLines(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, string(BOM))
			first = false
		}
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("lỗi đọc file: %w", err)
	}
	return out, nil
}

func readCSV(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(BOM)); err == nil && bytes.Equal(head, BOM) {
		_, _ = br.Discard(len(BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("lỗi đọc csv: %w", err)
	}
	return firstColumn(records), nil
}

func readXLSX(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("lỗi mở xlsx: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("lỗi đọc sheet: %w", err)
	}
	return firstColumn(rows), nil
}

func firstColumn(rows [][]string) []string {
	var out []string
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		v := strings.TrimSpace(row[0])
		// Bỏ dòng header nếu có
		if i == 0 && (v == "raw" || v == "address") {
			continue
		}
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
