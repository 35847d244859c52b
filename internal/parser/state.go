package parser

// Region cặp (code, name) của một cấp đã resolve
type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ParseState trạng thái của một lượt parse. Các phương thức With* trả về bản sao mới,
// không sửa trạng thái gốc.
type ParseState struct {
	Province   Region
	City       Region
	District   Region
	Street     Region
	Phone      string
	PostalCode string
	Name       string
	Detail     []string
}

// Get lấy region theo level
func (s ParseState) Get(level Level) Region {
	switch level {
	case LevelProvince:
		return s.Province
	case LevelCity:
		return s.City
	case LevelDistrict:
		return s.District
	case LevelStreet:
		return s.Street
	}
	return Region{}
}

// With trả về state mới với region của level được gán
func (s ParseState) With(level Level, r Region) ParseState {
	switch level {
	case LevelProvince:
		s.Province = r
	case LevelCity:
		s.City = r
	case LevelDistrict:
		s.District = r
	case LevelStreet:
		s.Street = r
	}
	return s
}

// Resolved level đã có code
func (s ParseState) Resolved(level Level) bool {
	return s.Get(level).Code != ""
}

// Complete cả bốn cấp đều đã resolve
func (s ParseState) Complete() bool {
	for _, l := range Levels {
		if !s.Resolved(l) {
			return false
		}
	}
	return true
}

// WithDetail thêm fragment vào cuối detail
func (s ParseState) WithDetail(fragment string) ParseState {
	detail := make([]string, len(s.Detail), len(s.Detail)+1)
	copy(detail, s.Detail)
	s.Detail = append(detail, fragment)
	return s
}

// WithName gán name và detail còn lại sau khi tách tên
func (s ParseState) WithName(name string, detail []string) ParseState {
	s.Name = name
	s.Detail = detail
	return s
}
