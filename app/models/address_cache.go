package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddressCache bản ghi cache kết quả parse trong MongoDB
type AddressCache struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RawFingerprint   string             `bson:"raw_fingerprint" json:"raw_fingerprint"`     // Fingerprint của cache key
	CacheKey         string             `bson:"cache_key" json:"cache_key"`                 // Key gốc, dùng khi warm up L1
	RawAddress       string             `bson:"raw_address" json:"raw_address"`             // Địa chỉ gốc
	ParsedResult     AddressResult      `bson:"parsed_result" json:"parsed_result"`         // Kết quả parse
	GazetteerVersion string             `bson:"gazetteer_version" json:"gazetteer_version"` // Phiên bản gazetteer
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	LastAccessed     time.Time          `bson:"last_accessed" json:"last_accessed"`
	AccessCount      int                `bson:"access_count" json:"access_count"`
}

// NewAddressCache tạo mới một AddressCache
func NewAddressCache(fingerprint string, result AddressResult) *AddressCache {
	now := time.Now()
	return &AddressCache{
		RawFingerprint:   fingerprint,
		RawAddress:       result.Raw,
		ParsedResult:     result,
		GazetteerVersion: result.GazetteerVersion,
		CreatedAt:        now,
		LastAccessed:     now,
		AccessCount:      1,
	}
}

// UpdateAccess cập nhật thông tin truy cập
func (ac *AddressCache) UpdateAccess() {
	ac.LastAccessed = time.Now()
	ac.AccessCount++
}

// IsExpired kiểm tra cache có hết hạn không (dựa trên thời gian tạo)
func (ac *AddressCache) IsExpired(ttl time.Duration) bool {
	return ttl > 0 && time.Since(ac.CreatedAt) > ttl
}

// IsValidGazetteerVersion kiểm tra phiên bản gazetteer có khớp không
func (ac *AddressCache) IsValidGazetteerVersion(currentVersion string) bool {
	return ac.GazetteerVersion == currentVersion
}
