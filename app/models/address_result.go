package models

import "github.com/zh-address-parser/internal/parser"

// AddressResult kết quả parse một địa chỉ kèm địa chỉ gốc và trạng thái
type AddressResult struct {
	Raw                string `json:"raw" bson:"raw"` // Địa chỉ gốc
	parser.ParseResult `bson:",inline"`
	Status             string `json:"status" bson:"status"`                   // Trạng thái xử lý
	ResolvedLevels     int    `json:"resolved_levels" bson:"resolved_levels"` // Số cấp hành chính resolve được
	GazetteerVersion   string `json:"gazetteer_version,omitempty" bson:"gazetteer_version,omitempty"`
	Error              string `json:"error,omitempty" bson:"error,omitempty"`
}

// Status constants
const (
	StatusMatched   = "matched"   // đủ bốn cấp
	StatusPartial   = "partial"   // một đến ba cấp
	StatusUnmatched = "unmatched" // không cấp nào
	StatusFailed    = "failed"    // lỗi tra cứu
)

// NewAddressResult tạo AddressResult và tính trạng thái từ số cấp đã resolve
func NewAddressResult(raw string, result parser.ParseResult, gazetteerVersion string) *AddressResult {
	levels := 0
	for _, code := range []string{result.ProvinceCode, result.CityCode, result.AreaCode, result.StreetCode} {
		if code != "" {
			levels++
		}
	}

	status := StatusPartial
	switch levels {
	case 0:
		status = StatusUnmatched
	case len(parser.Levels):
		status = StatusMatched
	}

	return &AddressResult{
		Raw:              raw,
		ParseResult:      result,
		Status:           status,
		ResolvedLevels:   levels,
		GazetteerVersion: gazetteerVersion,
	}
}

// NewFailedResult kết quả cho địa chỉ parse lỗi
func NewFailedResult(raw string, err error) *AddressResult {
	return &AddressResult{Raw: raw, Status: StatusFailed, Error: err.Error()}
}

// IsValidStatus kiểm tra status có hợp lệ không
func (ar *AddressResult) IsValidStatus() bool {
	switch ar.Status {
	case StatusMatched, StatusPartial, StatusUnmatched, StatusFailed:
		return true
	}
	return false
}
