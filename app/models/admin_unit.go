package models

import (
	"time"

	"github.com/zh-address-parser/internal/parser"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminUnit đại diện cho đơn vị hành chính (tỉnh, thành phố, quận/huyện, đường phố/thị trấn)
type AdminUnit struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-" db:"-"`
	Code             string             `bson:"code" json:"code" db:"code"`                            // Mã hành chính
	ParentCode       string             `bson:"parent_code" json:"parent_code" db:"parent_code"`       // Mã đơn vị cha, rỗng với cấp tỉnh
	Level            int                `bson:"level" json:"level" db:"level"`                         // 1=tỉnh, 2=thành phố, 3=quận/huyện, 4=đường phố
	Name             string             `bson:"name" json:"name" db:"name"`                            // Tên chữ Hán
	Pinyin           string             `bson:"pinyin" json:"pinyin" db:"pinyin"`                      // zhejiangsheng
	PinyinInitials   string             `bson:"pinyin_initials" json:"pinyin_initials" db:"pinyin_initials"`
	NormalizedName   string             `bson:"normalized_name" json:"normalized_name" db:"normalized_name"` // Tên phiên âm ASCII
	Prefixes         []string           `bson:"prefixes,omitempty" json:"prefixes,omitempty" db:"-"`
	GazetteerVersion string             `bson:"gazetteer_version" json:"gazetteer_version" db:"gazetteer_version"` // blake3 của dữ liệu nguồn
	CreatedAt        time.Time          `bson:"created_at" json:"created_at" db:"-"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at" db:"-"`
}

// IsValidLevel kiểm tra level có hợp lệ không
func (au *AdminUnit) IsValidLevel() bool {
	return parser.Level(au.Level).Valid()
}

// Record chuyển về bản ghi dùng cho parser
func (au *AdminUnit) Record() parser.AddressRecord {
	return parser.AddressRecord{
		Code:       au.Code,
		Name:       au.Name,
		Level:      parser.Level(au.Level),
		ParentCode: au.ParentCode,
	}
}
