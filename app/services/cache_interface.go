package services

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/zh-address-parser/app/models"
	"github.com/zh-address-parser/internal/parser"
)

// CacheStats thống kê cache
type CacheStats struct {
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

// ICacheService interface định nghĩa các method cần thiết cho cache kết quả parse
type ICacheService interface {
	// Get lấy kết quả từ cache
	Get(ctx context.Context, key string) (*models.AddressResult, bool, error)

	// Set lưu kết quả vào cache
	Set(ctx context.Context, key string, result *models.AddressResult) error

	// Delete xóa key khỏi cache
	Delete(ctx context.Context, key string) error

	// Clear xóa tất cả cache
	Clear(ctx context.Context) error

	// InvalidateByGazetteerVersion xóa các entry không thuộc phiên bản gazetteerVersion
	InvalidateByGazetteerVersion(ctx context.Context, gazetteerVersion string) error

	GetStats(ctx context.Context) (*CacheStats, error)

	Exists(ctx context.Context, key string) (bool, error)

	// GetTTL lấy TTL còn lại của key
	GetTTL(ctx context.Context, key string) (time.Duration, error)

	Close() error
}

// BuildCacheKey key cache gồm phiên bản gazetteer, địa chỉ và các tùy chọn ảnh hưởng tới kết quả
func BuildCacheKey(address string, opts parser.Options, gazetteerVersion string) string {
	filter := append([]string(nil), opts.TextFilter...)
	sort.Strings(filter)

	var b strings.Builder
	b.WriteString(gazetteerVersion)
	b.WriteByte('|')
	b.WriteString(strings.TrimSpace(address))
	b.WriteByte('|')
	for _, flag := range []bool{opts.ExtractName, opts.ExtractPhone, opts.ExtractPostalCode} {
		b.WriteString(strconv.FormatBool(flag))
		b.WriteByte(',')
	}
	b.WriteString(strconv.Itoa(opts.NameMaxLength))
	b.WriteByte('|')
	b.WriteString(strings.Join(filter, "\x1f"))
	return Fingerprint(b.String())
}

// Fingerprint sinh fingerprint sha256 cho key
func Fingerprint(key string) string {
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("sha256:%x", hash)
}

func hitRate(hits, misses int64) float64 {
	if total := hits + misses; total > 0 {
		return float64(hits) / float64(total)
	}
	return 0
}
