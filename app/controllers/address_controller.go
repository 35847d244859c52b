package controllers

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zh-address-parser/app/middleware"
	"github.com/zh-address-parser/app/requests"
	"github.com/zh-address-parser/app/responses"
	"github.com/zh-address-parser/app/services"
	"github.com/zh-address-parser/internal/export"
	"go.uber.org/zap"
)

// Pinger kiểm tra backend còn phục vụ được
type Pinger interface {
	Ping(ctx context.Context) error
}

// AddressController controller xử lý các request liên quan đến địa chỉ
type AddressController struct {
	addressService *services.AddressService
	pinger         Pinger
	logger         *zap.Logger
}

// NewAddressController tạo mới AddressController
func NewAddressController(addressService *services.AddressService, pinger Pinger, logger *zap.Logger) *AddressController {
	return &AddressController{
		addressService: addressService,
		pinger:         pinger,
		logger:         logger,
	}
}

// respondError trả về ErrorResponse chuẩn
func respondError(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, responses.ErrorResponse{
		Error:     code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: middleware.GetRequestID(c),
	})
}

// ParseAddress parse địa chỉ đơn lẻ
func (ac *AddressController) ParseAddress(c *gin.Context) {
	var req requests.ParseAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error(), nil)
		return
	}

	startTime := time.Now()
	result, cacheHit, err := ac.addressService.ParseAddress(c.Request.Context(), req.Address, req.Options)
	if err != nil {
		ac.logger.Error("Lỗi parse địa chỉ", zap.Error(err), zap.String("request_id", middleware.GetRequestID(c)))
		respondError(c, http.StatusInternalServerError, "PARSE_ERROR", "Lỗi parse địa chỉ: "+err.Error(), nil)
		return
	}

	c.JSON(http.StatusOK, responses.ParseAddressResponse{
		GazetteerVersion: ac.addressService.GazetteerVersion(),
		Result:           *result,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
		CacheHit:         cacheHit,
	})
}

// BatchParse parse hàng loạt địa chỉ
func (ac *AddressController) BatchParse(c *gin.Context) {
	var req requests.BatchParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error(), nil)
		return
	}

	jobID, err := ac.addressService.StartBatchJob(req.Addresses, req.Options)
	if errors.Is(err, services.ErrTooManyAddresses) {
		respondError(c, http.StatusBadRequest, "TOO_MANY_ADDRESSES", err.Error(), nil)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "JOB_ERROR", "Lỗi tạo job: "+err.Error(), nil)
		return
	}

	c.JSON(http.StatusAccepted, responses.BatchParseResponse{
		JobID:            jobID,
		EstimatedSeconds: ac.addressService.EstimateBatchProcessingTime(len(req.Addresses)),
		TotalAddresses:   len(req.Addresses),
		Message:          "Job đã được tạo và đang xử lý",
	})
}

// GetJobStatus lấy trạng thái job
func (ac *AddressController) GetJobStatus(c *gin.Context) {
	jobID := c.Param("jobID")

	status, err := ac.addressService.GetJobStatus(jobID)
	if err != nil {
		respondError(c, http.StatusNotFound, "JOB_NOT_FOUND", "Không tìm thấy job: "+err.Error(), nil)
		return
	}

	c.JSON(http.StatusOK, responses.JobStatusResponse{
		JobID:              jobID,
		Status:             status.Status,
		Progress:           status.Progress,
		Processed:          status.Processed,
		Total:              status.Total,
		EstimatedRemaining: status.EstimatedRemaining,
		Summary:            status.Summary,
		Message:            status.Message,
		CreatedAt:          status.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          status.UpdatedAt.Format(time.RFC3339),
	})
}

// jobResultsError map lỗi lấy kết quả sang HTTP response
func jobResultsError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrJobNotReady) {
		respondError(c, http.StatusConflict, "JOB_NOT_READY", "Job chưa hoàn thành", nil)
		return
	}
	respondError(c, http.StatusNotFound, "JOB_NOT_FOUND", "Không tìm thấy job: "+err.Error(), nil)
}

// GetJobResults lấy kết quả job, hỗ trợ NDJSON + gzip streaming
func (ac *AddressController) GetJobResults(c *gin.Context) {
	jobID := c.Param("jobID")

	if c.Query("format") == export.FormatNDJSON {
		ac.streamNDJSONResults(c, jobID, c.Query("gzip") == "1")
		return
	}

	results, err := ac.addressService.GetJobResults(jobID)
	if err != nil {
		jobResultsError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "Lấy kết quả thành công",
		Data:      results,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// ExportJobResults tải kết quả job dưới dạng CSV hoặc XLSX
func (ac *AddressController) ExportJobResults(c *gin.Context) {
	jobID := c.Param("jobID")
	format := c.DefaultQuery("format", export.FormatCSV)
	if format != export.FormatCSV && format != export.FormatXLSX {
		respondError(c, http.StatusBadRequest, "INVALID_FORMAT", "Format phải là csv hoặc xlsx", nil)
		return
	}

	results, err := ac.addressService.GetJobResults(jobID)
	if err != nil {
		jobResultsError(c, err)
		return
	}

	filename := fmt.Sprintf("addresses_%s.%s", jobID, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))

	if format == export.FormatXLSX {
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Status(http.StatusOK)
		err = export.WriteXLSX(c.Writer, results)
	} else {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		err = export.WriteCSV(c.Writer, results)
	}
	if err != nil {
		ac.logger.Error("Lỗi export kết quả", zap.Error(err), zap.String("job_id", jobID))
	}
}

// HealthCheck kiểm tra sức khỏe service
func (ac *AddressController) HealthCheck(c *gin.Context) {
	status := "healthy"
	store := "healthy"
	if ac.pinger != nil {
		if err := ac.pinger.Ping(c.Request.Context()); err != nil {
			status = "degraded"
			store = "unhealthy: " + err.Error()
		}
	}

	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    status,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(ac.addressService.GetStartTime()).String(),
		Version:   ac.addressService.GazetteerVersion(),
		Services: map[string]string{
			"address_parser": "healthy",
			"gazetteer":      store,
		},
	})
}

// Ready trả 503 khi gazetteer chưa sẵn sàng
func (ac *AddressController) Ready(c *gin.Context) {
	if ac.pinger != nil {
		if err := ac.pinger.Ping(c.Request.Context()); err != nil {
			respondError(c, http.StatusServiceUnavailable, "NOT_READY", "Gazetteer chưa sẵn sàng: "+err.Error(), nil)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Live luôn trả 200 khi process còn chạy
func (ac *AddressController) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// streamNDJSONResults stream kết quả theo format NDJSON với hỗ trợ gzip
func (ac *AddressController) streamNDJSONResults(c *gin.Context, jobID string, gzipEnabled bool) {
	resultChannel, err := ac.addressService.GetJobResultsStream(c.Request.Context(), jobID)
	if err != nil {
		jobResultsError(c, err)
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	var writer gin.ResponseWriter = c.Writer
	if gzipEnabled {
		c.Header("Content-Encoding", "gzip")
		gzWriter := gzip.NewWriter(c.Writer)
		defer gzWriter.Close()
		writer = &gzipResponseWriter{
			ResponseWriter: c.Writer,
			gzWriter:       gzWriter,
		}
	}
	c.Status(http.StatusOK)

	encoder := json.NewEncoder(writer)
	for result := range resultChannel {
		if err := encoder.Encode(result); err != nil {
			ac.logger.Error("Lỗi encode NDJSON", zap.Error(err))
			break
		}
		writer.Flush()
	}
}

// gzipResponseWriter wrapper cho gzip writer
type gzipResponseWriter struct {
	gin.ResponseWriter
	gzWriter *gzip.Writer
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	return w.gzWriter.Write(data)
}

func (w *gzipResponseWriter) WriteString(s string) (int, error) {
	return w.gzWriter.Write([]byte(s))
}

func (w *gzipResponseWriter) Flush() {
	w.gzWriter.Flush()
	w.ResponseWriter.Flush()
}
