package parser

import "strings"

// ParseResult kết quả parse cuối cùng, chuỗi rỗng khi không resolve được
type ParseResult struct {
	Province     string `json:"province"`
	ProvinceCode string `json:"provinceCode"`
	City         string `json:"city"`
	CityCode     string `json:"cityCode"`
	Area         string `json:"area"`
	AreaCode     string `json:"areaCode"`
	Street       string `json:"street"`
	StreetCode   string `json:"streetCode"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	PostalCode   string `json:"postalCode"`
	Detail       string `json:"detail"`
}

// Assemble ghép state thành ParseResult, detail nối liền không dấu cách
func Assemble(state ParseState) ParseResult {
	return ParseResult{
		Province:     state.Province.Name,
		ProvinceCode: state.Province.Code,
		City:         state.City.Name,
		CityCode:     state.City.Code,
		Area:         state.District.Name,
		AreaCode:     state.District.Code,
		Street:       state.Street.Name,
		StreetCode:   state.Street.Code,
		Name:         state.Name,
		Phone:        state.Phone,
		PostalCode:   state.PostalCode,
		Detail:       strings.Join(state.Detail, ""),
	}
}
