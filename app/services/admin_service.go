package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zh-address-parser/app/models"
	"github.com/zh-address-parser/internal/gazetteer"
	"github.com/zh-address-parser/internal/metrics"
	"github.com/zh-address-parser/internal/parser"
	"go.uber.org/zap"
)

// ErrValidationFailed dữ liệu gazetteer có cảnh báo và không seed cưỡng bức
var ErrValidationFailed = errors.New("dữ liệu gazetteer không qua validation")

// AdminService service quản lý gazetteer và cache
type AdminService struct {
	store       gazetteer.Store
	lookupCache *gazetteer.CachedLookup // nil khi tắt memo tra cứu
	cache       ICacheService           // nil khi tắt cache kết quả
	version     *GazetteerVersion
	logger      *zap.Logger
	startTime   time.Time
}

// SeedResult kết quả seed gazetteer
type SeedResult struct {
	UnitsProcessed   int                   `json:"units_processed"`
	GazetteerVersion string                `json:"gazetteer_version"`
	ProcessingTimeMs int64                 `json:"processing_time_ms"`
	Validation       *gazetteer.Validation `json:"validation"`
}

// SystemStats thống kê hệ thống
type SystemStats struct {
	Gazetteer       *gazetteer.Stats `json:"gazetteer"`
	Cache           *CacheStats      `json:"cache"`
	LookupCacheSize int              `json:"lookup_cache_size"`
	Uptime          time.Duration    `json:"uptime"`
}

// NewAdminService tạo mới AdminService
func NewAdminService(store gazetteer.Store, lookupCache *gazetteer.CachedLookup, cache ICacheService, version *GazetteerVersion, logger *zap.Logger) *AdminService {
	return &AdminService{
		store:       store,
		lookupCache: lookupCache,
		cache:       cache,
		version:     version,
		logger:      logger,
		startTime:   time.Now(),
	}
}

// LoadSource nạp dữ liệu gazetteer từ file hoặc thư mục phía server
func (as *AdminService) LoadSource(path, encoding string) (*gazetteer.Dataset, error) {
	ds, err := gazetteer.LoadPath(path, gazetteer.LoadOptions{Encoding: encoding})
	if err != nil {
		return nil, fmt.Errorf("lỗi nạp nguồn gazetteer: %w", err)
	}
	return ds, nil
}

// ValidateGazetteerData chuẩn hóa và validate dữ liệu gazetteer, không ghi gì
func (as *AdminService) ValidateGazetteerData(data []models.AdminUnit) *gazetteer.Validation {
	return gazetteer.Validate(gazetteer.Enrich(data))
}

// SeedGazetteer thay toàn bộ dữ liệu trong store. gazetteerVersion rỗng thì dùng digest của dữ liệu.
// Sau khi seed, memo tra cứu bị xóa và cache kết quả của phiên bản cũ bị invalidate.
func (as *AdminService) SeedGazetteer(ctx context.Context, gazetteerVersion string, data []models.AdminUnit, force bool) (*SeedResult, error) {
	startTime := time.Now()

	if gazetteerVersion == "" {
		digest, err := gazetteer.DigestUnits(data)
		if err != nil {
			return nil, err
		}
		gazetteerVersion = digest
	}

	validation := as.ValidateGazetteerData(data)
	result := &SeedResult{GazetteerVersion: gazetteerVersion, Validation: validation}
	if !validation.Passed && !force {
		return result, fmt.Errorf("%w: %d cảnh báo", ErrValidationFailed, len(validation.Warnings))
	}

	if err := as.store.Replace(ctx, data, gazetteerVersion); err != nil {
		return nil, fmt.Errorf("lỗi ghi gazetteer: %w", err)
	}
	as.version.Set(gazetteerVersion)

	if as.lookupCache != nil {
		as.lookupCache.Purge()
	}
	if err := as.InvalidateCache(ctx, gazetteerVersion, false); err != nil {
		as.logger.Warn("Lỗi invalidate cache sau khi seed", zap.Error(err))
	}
	if _, err := as.RefreshMetrics(ctx); err != nil {
		as.logger.Warn("Lỗi cập nhật metrics gazetteer", zap.Error(err))
	}

	result.UnitsProcessed = len(data)
	result.ProcessingTimeMs = time.Since(startTime).Milliseconds()

	as.logger.Info("Seed gazetteer thành công",
		zap.String("version", gazetteerVersion),
		zap.Int("units", len(data)),
		zap.Int("warnings", len(validation.Warnings)),
		zap.Int64("duration_ms", result.ProcessingTimeMs))
	return result, nil
}

// InvalidateCache xóa cache kết quả: all xóa toàn bộ, ngược lại giữ entry của gazetteerVersion
// (rỗng là phiên bản hiện tại)
func (as *AdminService) InvalidateCache(ctx context.Context, gazetteerVersion string, all bool) error {
	if as.cache == nil {
		return nil
	}
	if all {
		return as.cache.Clear(ctx)
	}
	if gazetteerVersion == "" {
		gazetteerVersion = as.version.Get()
	}
	return as.cache.InvalidateByGazetteerVersion(ctx, gazetteerVersion)
}

// RefreshMetrics đọc thống kê store và cập nhật gauge số đơn vị theo cấp
func (as *AdminService) RefreshMetrics(ctx context.Context) (*gazetteer.Stats, error) {
	stats, err := as.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("lỗi lấy thống kê gazetteer: %w", err)
	}
	for _, level := range parser.Levels {
		metrics.GazetteerUnits.WithLabelValues(level.String()).Set(float64(stats.ByLevel[level.String()]))
	}
	return stats, nil
}

// GetSystemStats lấy thống kê gazetteer và cache
func (as *AdminService) GetSystemStats(ctx context.Context) (*SystemStats, error) {
	gazStats, err := as.RefreshMetrics(ctx)
	if err != nil {
		return nil, err
	}

	stats := &SystemStats{
		Gazetteer: gazStats,
		Cache:     &CacheStats{},
		Uptime:    time.Since(as.startTime),
	}
	if as.lookupCache != nil {
		stats.LookupCacheSize = as.lookupCache.Len()
	}
	if as.cache != nil {
		cacheStats, err := as.cache.GetStats(ctx)
		if err != nil {
			as.logger.Warn("Lỗi lấy cache stats", zap.Error(err))
		} else {
			stats.Cache = cacheStats
		}
	}
	return stats, nil
}

// Ping kiểm tra store còn phục vụ được
func (as *AdminService) Ping(ctx context.Context) error {
	_, err := as.store.Stats(ctx)
	return err
}
