package requests

import (
	"github.com/zh-address-parser/app/models"
	"github.com/zh-address-parser/internal/parser"
)

// ParseAddressRequest request parse địa chỉ đơn lẻ
type ParseAddressRequest struct {
	Address string       `json:"address" binding:"required"` // Địa chỉ cần parse
	Options ParseOptions `json:"options,omitempty"`          // Tùy chọn parse
}

// ParseOptions tùy chọn parse. Các cờ trích xuất mặc định bật khi bỏ trống.
type ParseOptions struct {
	ExtractName       *bool    `json:"extract_name,omitempty"`
	ExtractPhone      *bool    `json:"extract_phone,omitempty"`
	ExtractPostalCode *bool    `json:"extract_postal_code,omitempty"`
	TextFilter        []string `json:"text_filter,omitempty"`                                      // Nhãn bổ sung cần loại bỏ
	NameMaxLength     int      `json:"name_max_length,omitempty" binding:"omitempty,min=1,max=16"` // Độ dài tên tối đa
	UseCache          *bool    `json:"use_cache,omitempty"`                                        // Có sử dụng cache không
}

// ParserOptions chuyển sang parser.Options, extraKeywords nối thêm vào TextFilter
func (o ParseOptions) ParserOptions(extraKeywords ...string) parser.Options {
	filter := make([]string, 0, len(extraKeywords)+len(o.TextFilter))
	filter = append(filter, extraKeywords...)
	filter = append(filter, o.TextFilter...)
	return parser.Options{
		ExtractName:       boolOr(o.ExtractName, true),
		ExtractPhone:      boolOr(o.ExtractPhone, true),
		ExtractPostalCode: boolOr(o.ExtractPostalCode, true),
		TextFilter:        filter,
		NameMaxLength:     o.NameMaxLength,
	}
}

// CacheEnabled có dùng cache kết quả không
func (o ParseOptions) CacheEnabled() bool {
	return boolOr(o.UseCache, true)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// BatchParseRequest request parse hàng loạt địa chỉ
type BatchParseRequest struct {
	Addresses []string     `json:"addresses" binding:"required,min=1,max=20000"` // Danh sách địa chỉ (tối đa 20k)
	Options   ParseOptions `json:"options,omitempty"`                            // Tùy chọn parse
}

// SeedGazetteerRequest request seed gazetteer. Cần Source (đường dẫn phía server) hoặc Data.
type SeedGazetteerRequest struct {
	GazetteerVersion string             `json:"gazetteer_version,omitempty"` // Rỗng thì dùng digest của dữ liệu
	Source           string             `json:"source,omitempty"`            // File hoặc thư mục
	Encoding         string             `json:"encoding,omitempty"`          // utf-8 | gbk
	Data             []models.AdminUnit `json:"data,omitempty"`              // Dữ liệu gazetteer
	Force            bool               `json:"force,omitempty"`             // Seed dù validation có cảnh báo
}

// InvalidateCacheRequest request invalidate cache kết quả
type InvalidateCacheRequest struct {
	GazetteerVersion string `json:"gazetteer_version,omitempty"` // Giữ lại entry của phiên bản này
	All              bool   `json:"all,omitempty"`               // Xóa toàn bộ
}
