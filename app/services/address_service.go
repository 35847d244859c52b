package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zh-address-parser/app/models"
	"github.com/zh-address-parser/app/requests"
	"github.com/zh-address-parser/app/responses"
	"github.com/zh-address-parser/helpers/utils"
	"github.com/zh-address-parser/internal/metrics"
	"github.com/zh-address-parser/internal/parser"
	"go.uber.org/zap"
)

var (
	// ErrJobNotFound job không tồn tại hoặc đã bị dọn
	ErrJobNotFound = errors.New("job không tồn tại")
	// ErrJobNotReady job chưa xử lý xong
	ErrJobNotReady = errors.New("job chưa hoàn thành")
	// ErrTooManyAddresses batch vượt giới hạn
	ErrTooManyAddresses = errors.New("số lượng địa chỉ vượt quá giới hạn")
)

// AddressServiceConfig cấu hình AddressService
type AddressServiceConfig struct {
	ExtraKeywords []string      // Nhãn bổ sung áp dụng cho mọi request
	Workers       int           // Số worker cho batch job
	MaxAddresses  int           // Số địa chỉ tối đa mỗi batch
	JobTTL        time.Duration // Thời gian giữ job đã xong
}

// AddressService service xử lý logic parse địa chỉ
type AddressService struct {
	parser    *parser.AddressParser
	cache     ICacheService // nil khi tắt cache
	version   *GazetteerVersion
	config    AddressServiceConfig
	logger    *zap.Logger
	startTime time.Time
	processed atomic.Int64

	mu         sync.RWMutex
	jobs       map[string]*JobStatus
	jobResults map[string][]models.AddressResult
}

// JobStatus trạng thái của job
type JobStatus struct {
	JobID              string
	Status             string
	Progress           float64
	Processed          int
	Total              int
	EstimatedRemaining int
	Summary            map[string]int
	Message            string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewAddressService tạo mới AddressService
func NewAddressService(p *parser.AddressParser, cache ICacheService, version *GazetteerVersion, cfg AddressServiceConfig, logger *zap.Logger) *AddressService {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.MaxAddresses <= 0 {
		cfg.MaxAddresses = 20000
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = time.Hour
	}
	return &AddressService{
		parser:     p,
		cache:      cache,
		version:    version,
		config:     cfg,
		logger:     logger,
		startTime:  time.Now(),
		jobs:       make(map[string]*JobStatus),
		jobResults: make(map[string][]models.AddressResult),
	}
}

// GazetteerVersion phiên bản gazetteer hiện tại
func (as *AddressService) GazetteerVersion() string {
	return as.version.Get()
}

// ParseAddress parse một địa chỉ, dùng cache khi options cho phép. Trả về cờ cache hit.
func (as *AddressService) ParseAddress(ctx context.Context, rawAddress string, options requests.ParseOptions) (*models.AddressResult, bool, error) {
	opts := options.ParserOptions(as.config.ExtraKeywords...)
	version := as.version.Get()

	useCache := as.cache != nil && options.CacheEnabled()
	key := ""
	if useCache {
		key = BuildCacheKey(rawAddress, opts, version)
		cached, found, err := as.cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.ResultCacheTotal.WithLabelValues("error").Inc()
			as.logger.Warn("Lỗi đọc cache kết quả", zap.Error(err))
		case found:
			metrics.ResultCacheTotal.WithLabelValues("hit").Inc()
			as.processed.Add(1)
			return cached, true, nil
		default:
			metrics.ResultCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	result, err := as.parseOne(ctx, rawAddress, opts, version)
	if err != nil {
		return nil, false, err
	}

	if useCache {
		if err := as.cache.Set(ctx, key, result); err != nil {
			as.logger.Warn("Lỗi lưu cache kết quả", zap.Error(err))
		}
	}
	return result, false, nil
}

// parseOne chạy parser và ghi metrics
func (as *AddressService) parseOne(ctx context.Context, rawAddress string, opts parser.Options, version string) (*models.AddressResult, error) {
	start := time.Now()
	parsed, err := as.parser.ParseWithOptions(ctx, rawAddress, opts)
	metrics.ParseSeconds.Observe(time.Since(start).Seconds())
	as.processed.Add(1)
	if err != nil {
		metrics.ParseTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("lỗi parse địa chỉ: %w", err)
	}

	result := models.NewAddressResult(rawAddress, parsed, version)
	metrics.ParseTotal.WithLabelValues(result.Status).Inc()
	for level, code := range map[parser.Level]string{
		parser.LevelProvince: parsed.ProvinceCode,
		parser.LevelCity:     parsed.CityCode,
		parser.LevelDistrict: parsed.AreaCode,
		parser.LevelStreet:   parsed.StreetCode,
	} {
		if code != "" {
			metrics.LevelsResolved.WithLabelValues(level.String()).Inc()
		}
	}
	return result, nil
}

// EstimateBatchProcessingTime ước tính thời gian xử lý batch (giây), giả định ~2ms mỗi địa chỉ
func (as *AddressService) EstimateBatchProcessingTime(addressCount int) int {
	estimatedMs := addressCount * 2 / as.config.Workers
	return (estimatedMs + 999) / 1000
}

// StartBatchJob tạo job và xử lý trong background
func (as *AddressService) StartBatchJob(addresses []string, options requests.ParseOptions) (string, error) {
	if len(addresses) > as.config.MaxAddresses {
		return "", fmt.Errorf("%w (%d)", ErrTooManyAddresses, as.config.MaxAddresses)
	}

	jobID := utils.GenerateUUID()
	as.registerJob(jobID, len(addresses))
	go as.ProcessBatchJob(context.Background(), jobID, addresses, options)
	return jobID, nil
}

func (as *AddressService) registerJob(jobID string, total int) {
	now := time.Now()
	as.mu.Lock()
	as.jobs[jobID] = &JobStatus{
		JobID:     jobID,
		Status:    responses.JobStatusPending,
		Total:     total,
		Message:   "Đang chờ xử lý",
		CreatedAt: now,
		UpdatedAt: now,
	}
	as.mu.Unlock()
}

// ProcessBatchJob xử lý job batch bằng pool worker; địa chỉ lỗi được ghi nhận với status failed
func (as *AddressService) ProcessBatchJob(ctx context.Context, jobID string, addresses []string, options requests.ParseOptions) {
	as.mu.Lock()
	if _, exists := as.jobs[jobID]; !exists {
		now := time.Now()
		as.jobs[jobID] = &JobStatus{JobID: jobID, Total: len(addresses), CreatedAt: now}
	}
	job := as.jobs[jobID]
	job.Status = responses.JobStatusRunning
	job.Message = "Đang xử lý..."
	job.UpdatedAt = time.Now()
	as.mu.Unlock()

	metrics.BatchInFlight.Inc()
	defer metrics.BatchInFlight.Dec()

	as.logger.Info("Batch job started", zap.String("job_id", jobID), zap.Int("total_addresses", len(addresses)))
	start := time.Now()

	results := make([]models.AddressResult, len(addresses))
	indexes := make(chan int)
	var done atomic.Int64
	var wg sync.WaitGroup

	workers := as.config.Workers
	if workers > len(addresses) {
		workers = len(addresses)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				result, _, err := as.ParseAddress(ctx, addresses[i], options)
				if err != nil {
					result = models.NewFailedResult(addresses[i], err)
				}
				results[i] = *result
				as.updateProgress(jobID, int(done.Add(1)), start)
			}
		}()
	}

feed:
	for i := range addresses {
		select {
		case <-ctx.Done():
			break feed
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	status := responses.JobStatusDone
	message := "Hoàn thành xử lý"
	if err := ctx.Err(); err != nil {
		status = responses.JobStatusFailed
		message = "Job bị hủy: " + err.Error()
	}

	summary := make(map[string]int)
	for i := range results {
		if results[i].Status != "" {
			summary[results[i].Status]++
		}
	}

	as.mu.Lock()
	job.Status = status
	job.Message = message
	job.Summary = summary
	job.EstimatedRemaining = 0
	job.UpdatedAt = time.Now()
	if status == responses.JobStatusDone {
		as.jobResults[jobID] = results
	}
	as.mu.Unlock()

	metrics.BatchJobsTotal.WithLabelValues(status).Inc()
	as.logger.Info("Batch job completed",
		zap.String("job_id", jobID),
		zap.String("status", status),
		zap.Int("total_addresses", len(addresses)),
		zap.Duration("duration", time.Since(start)))
}

func (as *AddressService) updateProgress(jobID string, processed int, start time.Time) {
	as.mu.Lock()
	defer as.mu.Unlock()

	job, exists := as.jobs[jobID]
	if !exists || job.Total == 0 {
		return
	}
	job.Processed = processed
	job.Progress = float64(processed) / float64(job.Total)
	perItem := time.Since(start) / time.Duration(processed)
	job.EstimatedRemaining = int((perItem * time.Duration(job.Total-processed)).Seconds())
	job.UpdatedAt = time.Now()
}

// GetJobStatus lấy bản sao trạng thái job
func (as *AddressService) GetJobStatus(jobID string) (*JobStatus, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	job, exists := as.jobs[jobID]
	if !exists {
		return nil, ErrJobNotFound
	}
	snapshot := *job
	if job.Summary != nil {
		snapshot.Summary = make(map[string]int, len(job.Summary))
		for k, v := range job.Summary {
			snapshot.Summary[k] = v
		}
	}
	return &snapshot, nil
}

// GetJobResults lấy kết quả job theo thứ tự địa chỉ đầu vào
func (as *AddressService) GetJobResults(jobID string) ([]models.AddressResult, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	if _, exists := as.jobs[jobID]; !exists {
		return nil, ErrJobNotFound
	}
	results, exists := as.jobResults[jobID]
	if !exists {
		return nil, ErrJobNotReady
	}
	return results, nil
}

// GetJobResultsStream lấy kết quả job dưới dạng channel để stream, dừng khi ctx bị hủy
func (as *AddressService) GetJobResultsStream(ctx context.Context, jobID string) (<-chan models.AddressResult, error) {
	results, err := as.GetJobResults(jobID)
	if err != nil {
		return nil, err
	}

	resultChannel := make(chan models.AddressResult, 100)
	go func() {
		defer close(resultChannel)
		for _, result := range results {
			select {
			case <-ctx.Done():
				return
			case resultChannel <- result:
			}
		}
	}()
	return resultChannel, nil
}

// CleanupJobs xóa các job đã kết thúc quá JobTTL, trả về số job bị xóa
func (as *AddressService) CleanupJobs(now time.Time) int {
	as.mu.Lock()
	defer as.mu.Unlock()

	removed := 0
	for id, job := range as.jobs {
		finished := job.Status == responses.JobStatusDone || job.Status == responses.JobStatusFailed
		if finished && now.Sub(job.UpdatedAt) > as.config.JobTTL {
			delete(as.jobs, id)
			delete(as.jobResults, id)
			removed++
		}
	}
	return removed
}

// StartJobJanitor dọn job định kỳ cho tới khi ctx bị hủy
func (as *AddressService) StartJobJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := as.CleanupJobs(now); n > 0 {
					as.logger.Info("Đã dọn batch jobs", zap.Int("removed", n))
				}
			}
		}
	}()
}

// ActiveJobs số job đang chờ hoặc đang chạy
func (as *AddressService) ActiveJobs() int {
	as.mu.RLock()
	defer as.mu.RUnlock()

	n := 0
	for _, job := range as.jobs {
		if job.Status == responses.JobStatusPending || job.Status == responses.JobStatusRunning {
			n++
		}
	}
	return n
}

// TotalProcessed tổng số địa chỉ đã xử lý kể cả cache hit
func (as *AddressService) TotalProcessed() int64 {
	return as.processed.Load()
}

// GetStartTime lấy thời gian khởi động service
func (as *AddressService) GetStartTime() time.Time {
	return as.startTime
}
