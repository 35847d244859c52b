package parser

import (
	"context"
	"fmt"
)

// Level cấp hành chính: 1=tỉnh, 2=thành phố, 3=quận/huyện, 4=đường phố/thị trấn
type Level int

const (
	LevelProvince Level = 1
	LevelCity     Level = 2
	LevelDistrict Level = 3
	LevelStreet   Level = 4
)

// Levels thứ tự resolve từ trên xuống
var Levels = []Level{LevelProvince, LevelCity, LevelDistrict, LevelStreet}

func (l Level) String() string {
	switch l {
	case LevelProvince:
		return "province"
	case LevelCity:
		return "city"
	case LevelDistrict:
		return "district"
	case LevelStreet:
		return "street"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Valid kiểm tra level nằm trong 1..4
func (l Level) Valid() bool {
	return l >= LevelProvince && l <= LevelStreet
}

// AddressRecord một bản ghi trong nguồn tra cứu hành chính
type AddressRecord struct {
	Code       string `json:"code" db:"code"`
	Name       string `json:"name" db:"name"`
	Level      Level  `json:"level" db:"level"`
	ParentCode string `json:"parent_code" db:"parent_code"`
}

// Lookup nguồn tra cứu đơn vị hành chính.
//
// FindByPrefix với parentCode rỗng tìm trên toàn bộ level. FindByCode trả về nil, nil khi
// không tồn tại. Thứ tự kết quả không quan trọng.
type Lookup interface {
	FindByPrefix(ctx context.Context, level Level, parentCode, prefix string) ([]AddressRecord, error)
	FindByCode(ctx context.Context, level Level, code string) (*AddressRecord, error)
}
