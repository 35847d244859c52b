package responses

import (
	"github.com/zh-address-parser/app/models"
)

// ParseAddressResponse response parse địa chỉ đơn lẻ
type ParseAddressResponse struct {
	GazetteerVersion string               `json:"gazetteer_version"`  // Phiên bản gazetteer
	Result           models.AddressResult `json:"result"`             // Kết quả parse
	ProcessingTimeMs int64                `json:"processing_time_ms"` // Thời gian xử lý (ms)
	CacheHit         bool                 `json:"cache_hit"`          // Có hit cache không
}

// BatchParseResponse response parse hàng loạt địa chỉ
type BatchParseResponse struct {
	JobID            string `json:"job_id"`            // ID của job
	EstimatedSeconds int    `json:"estimated_seconds"` // Thời gian ước tính (giây)
	TotalAddresses   int    `json:"total_addresses"`   // Tổng số địa chỉ
	Message          string `json:"message"`           // Thông báo
}

// JobStatusResponse response trạng thái job
type JobStatusResponse struct {
	JobID              string         `json:"job_id"`              // ID của job
	Status             string         `json:"status"`              // Trạng thái job
	Progress           float64        `json:"progress"`            // Tiến độ (0.0 - 1.0)
	Processed          int            `json:"processed"`           // Số địa chỉ đã xử lý
	Total              int            `json:"total"`               // Tổng số địa chỉ
	EstimatedRemaining int            `json:"estimated_remaining"` // Thời gian còn lại ước tính (giây)
	Summary            map[string]int `json:"summary,omitempty"`   // Số kết quả theo status
	Message            string         `json:"message"`             // Thông báo
	CreatedAt          string         `json:"created_at"`
	UpdatedAt          string         `json:"updated_at"`
}

// JobStatus constants
const (
	JobStatusPending = "pending"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// SeedGazetteerResponse response seed gazetteer
type SeedGazetteerResponse struct {
	ValidationPassed   bool     `json:"validation_passed"`              // Validation có pass không
	Warnings           []string `json:"warnings,omitempty"`             // Cảnh báo
	EstimatedBuildTime string   `json:"estimated_build_time,omitempty"` // Thời gian build ước tính
	UnitsProcessed     int      `json:"units_processed,omitempty"`      // Số units đã xử lý
	GazetteerVersion   string   `json:"gazetteer_version,omitempty"`    // Phiên bản sau khi seed
	ProcessingTimeMs   int64    `json:"processing_time_ms,omitempty"`   // Thời gian xử lý (ms)
	DryRun             bool     `json:"dry_run"`                        // Có phải dry run không
	Message            string   `json:"message"`                        // Thông báo
}

// AdminStatsResponse response thống kê admin
type AdminStatsResponse struct {
	GazetteerDriver  string           `json:"gazetteer_driver"`
	GazetteerVersion string           `json:"gazetteer_version"`
	GazetteerUnits   int64            `json:"gazetteer_units"`
	UnitsByLevel     map[string]int64 `json:"units_by_level"`
	LookupCacheSize  int              `json:"lookup_cache_size"` // Số entry memo tra cứu
	CacheHitRate     float64          `json:"cache_hit_rate"`    // Tỷ lệ hit cache kết quả
	CacheHits        int64            `json:"cache_hits"`
	CacheMisses      int64            `json:"cache_misses"`
	TotalCached      int64            `json:"total_cached"`
	TotalProcessed   int64            `json:"total_processed"` // Tổng số địa chỉ đã parse
	ActiveJobs       int              `json:"active_jobs"`
	UptimeSeconds    int64            `json:"uptime_seconds"`
	LastUpdated      string           `json:"last_updated"`
}

// ErrorResponse response lỗi
type ErrorResponse struct {
	Error     string      `json:"error"`                // Mã lỗi
	Message   string      `json:"message"`              // Thông báo lỗi
	Details   interface{} `json:"details,omitempty"`    // Chi tiết lỗi
	Timestamp string      `json:"timestamp"`            // Thời gian xảy ra lỗi
	RequestID string      `json:"request_id,omitempty"` // ID của request
}

// SuccessResponse response thành công
type SuccessResponse struct {
	Success   bool        `json:"success"`        // Có thành công không
	Message   string      `json:"message"`        // Thông báo
	Data      interface{} `json:"data,omitempty"` // Dữ liệu
	Timestamp string      `json:"timestamp"`      // Thời gian
}

// HealthCheckResponse response kiểm tra sức khỏe
type HealthCheckResponse struct {
	Status    string            `json:"status"`    // Trạng thái sức khỏe
	Timestamp string            `json:"timestamp"` // Thời gian kiểm tra
	Uptime    string            `json:"uptime"`    // Thời gian hoạt động
	Version   string            `json:"version"`   // Phiên bản gazetteer
	Services  map[string]string `json:"services"`  // Trạng thái các service
}
