package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zh-address-parser/app/requests"
	"github.com/zh-address-parser/app/responses"
	"github.com/zh-address-parser/app/services"
	"go.uber.org/zap"
)

// AdminController controller xử lý các request admin
type AdminController struct {
	adminService   *services.AdminService
	addressService *services.AddressService
	logger         *zap.Logger
}

// NewAdminController tạo mới AdminController
func NewAdminController(adminService *services.AdminService, addressService *services.AddressService, logger *zap.Logger) *AdminController {
	return &AdminController{
		adminService:   adminService,
		addressService: addressService,
		logger:         logger,
	}
}

// SeedGazetteer seed dữ liệu gazetteer từ Data hoặc từ Source phía server
func (ac *AdminController) SeedGazetteer(c *gin.Context) {
	var req requests.SeedGazetteerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error(), nil)
		return
	}

	data := req.Data
	version := req.GazetteerVersion
	if req.Source != "" {
		ds, err := ac.adminService.LoadSource(req.Source, req.Encoding)
		if err != nil {
			respondError(c, http.StatusBadRequest, "SOURCE_ERROR", err.Error(), nil)
			return
		}
		data = ds.Units
		if version == "" {
			version = ds.Version
		}
	}
	if len(data) == 0 {
		respondError(c, http.StatusBadRequest, "MISSING_DATA", "Cần source hoặc data", nil)
		return
	}

	if c.Query("dry_run") == "true" {
		validation := ac.adminService.ValidateGazetteerData(data)
		c.JSON(http.StatusOK, responses.SeedGazetteerResponse{
			ValidationPassed:   validation.Passed,
			Warnings:           validation.Warnings,
			EstimatedBuildTime: validation.EstimatedBuildTime,
			UnitsProcessed:     len(data),
			DryRun:             true,
			Message:            "Validation hoàn thành",
		})
		return
	}

	result, err := ac.adminService.SeedGazetteer(c.Request.Context(), version, data, req.Force)
	if errors.Is(err, services.ErrValidationFailed) {
		respondError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), result.Validation.Warnings)
		return
	}
	if err != nil {
		ac.logger.Error("Lỗi seed gazetteer", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "SEED_ERROR", "Lỗi seed gazetteer: "+err.Error(), nil)
		return
	}

	c.JSON(http.StatusOK, responses.SeedGazetteerResponse{
		ValidationPassed:   result.Validation.Passed,
		Warnings:           result.Validation.Warnings,
		EstimatedBuildTime: result.Validation.EstimatedBuildTime,
		UnitsProcessed:     result.UnitsProcessed,
		GazetteerVersion:   result.GazetteerVersion,
		ProcessingTimeMs:   result.ProcessingTimeMs,
		DryRun:             false,
		Message:            "Seed gazetteer thành công",
	})
}

// InvalidateCache invalidate cache kết quả. Body rỗng giữ lại phiên bản hiện tại.
func (ac *AdminController) InvalidateCache(c *gin.Context) {
	var req requests.InvalidateCacheRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error(), nil)
			return
		}
	}
	if v := c.Query("gazetteer_version"); v != "" {
		req.GazetteerVersion = v
	}

	startTime := time.Now()
	if err := ac.adminService.InvalidateCache(c.Request.Context(), req.GazetteerVersion, req.All); err != nil {
		ac.logger.Error("Lỗi invalidate cache", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "INVALIDATE_ERROR", "Lỗi invalidate cache: "+err.Error(), nil)
		return
	}

	keep := req.GazetteerVersion
	if keep == "" {
		keep = ac.addressService.GazetteerVersion()
	}
	ac.logger.Info("Invalidate cache thành công", zap.String("keep_version", keep), zap.Bool("all", req.All))

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success: true,
		Message: "Invalidate cache thành công",
		Data: map[string]interface{}{
			"gazetteer_version":  keep,
			"all":                req.All,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// GetStats lấy thống kê hệ thống
func (ac *AdminController) GetStats(c *gin.Context) {
	stats, err := ac.adminService.GetSystemStats(c.Request.Context())
	if err != nil {
		ac.logger.Error("Lỗi lấy stats", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "STATS_ERROR", "Lỗi lấy stats: "+err.Error(), nil)
		return
	}

	c.JSON(http.StatusOK, responses.AdminStatsResponse{
		GazetteerDriver:  stats.Gazetteer.Driver,
		GazetteerVersion: ac.addressService.GazetteerVersion(),
		GazetteerUnits:   stats.Gazetteer.Total,
		UnitsByLevel:     stats.Gazetteer.ByLevel,
		LookupCacheSize:  stats.LookupCacheSize,
		CacheHitRate:     stats.Cache.HitRate,
		CacheHits:        stats.Cache.TotalHits,
		CacheMisses:      stats.Cache.TotalMiss,
		TotalCached:      stats.Cache.TotalItems,
		TotalProcessed:   ac.addressService.TotalProcessed(),
		ActiveJobs:       ac.addressService.ActiveJobs(),
		UptimeSeconds:    int64(stats.Uptime.Seconds()),
		LastUpdated:      time.Now().Format(time.RFC3339),
	})
}
