package gazetteer

import (
	"context"
	"fmt"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/zh-address-parser/app/models"
	"github.com/zh-address-parser/internal/normalizer"
	"github.com/zh-address-parser/internal/parser"
	"go.uber.org/zap"
)

// MeiliConfig cấu hình cho Meilisearch
type MeiliConfig struct {
	Host          string
	APIKey        string
	IndexName     string
	Timeout       time.Duration
	MaxCandidates int
}

// MeiliStore tra cứu tiền tố bằng filter trên thuộc tính prefixes của Meilisearch
type MeiliStore struct {
	client        meilisearch.ServiceManager
	indexName     string
	maxCandidates int64
	logger        *zap.Logger
}

// NewMeiliStore tạo mới MeiliStore và kiểm tra kết nối
func NewMeiliStore(config MeiliConfig, logger *zap.Logger) (*MeiliStore, error) {
	client := meilisearch.New(config.Host, meilisearch.WithAPIKey(config.APIKey))

	if _, err := client.Health(); err != nil {
		return nil, fmt.Errorf("không thể kết nối Meilisearch: %w", err)
	}

	if config.IndexName == "" {
		config.IndexName = adminUnitsCollection
	}

	return &MeiliStore{
		client:        client,
		indexName:     config.IndexName,
		maxCandidates: candidateLimit(config.MaxCandidates),
		logger:        logger,
	}, nil
}

// candidateLimit số hit tối đa mỗi truy vấn tiền tố. Tối thiểu 2 để còn phân biệt
// được tiền tố duy nhất với tiền tố mơ hồ.
func candidateLimit(n int) int64 {
	switch {
	case n <= 0:
		return 50
	case n < 2:
		return 2
	}
	return int64(n)
}

// FilterLevelParent tạo filter theo level và parent_code
func FilterLevelParent(level parser.Level, parentCode string) string {
	if parentCode == "" {
		return fmt.Sprintf("level = %d", int(level))
	}
	return fmt.Sprintf("level = %d AND parent_code = %q", int(level), parentCode)
}

// FindByPrefix placeholder search (q rỗng) với filter prefixes = "<prefix>".
// Số kết quả bị giới hạn bởi MaxCandidates, đủ để phân biệt 0, 1 và nhiều ứng viên.
func (s *MeiliStore) FindByPrefix(_ context.Context, level parser.Level, parentCode, prefix string) ([]parser.AddressRecord, error) {
	filter := FilterLevelParent(level, parentCode) + fmt.Sprintf(" AND prefixes = %q", prefix)
	return s.search(filter, s.maxCandidates)
}

// FindByCode tìm theo (level, code)
func (s *MeiliStore) FindByCode(_ context.Context, level parser.Level, code string) (*parser.AddressRecord, error) {
	records, err := s.search(fmt.Sprintf("level = %d AND code = %q", int(level), code), 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (s *MeiliStore) search(filter string, limit int64) ([]parser.AddressRecord, error) {
	result, err := s.client.Index(s.indexName).Search("", &meilisearch.SearchRequest{
		Filter: filter,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("lỗi tìm kiếm Meilisearch với filter %s: %w", filter, err)
	}
	return parseSearchHits(result.Hits), nil
}

// parseSearchHits parse kết quả từ Meilisearch thành AddressRecord
func parseSearchHits(hits []interface{}) []parser.AddressRecord {
	records := make([]parser.AddressRecord, 0, len(hits))
	for _, hit := range hits {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}

		rec := parser.AddressRecord{}
		if code, ok := hitMap["code"].(string); ok {
			rec.Code = code
		}
		if name, ok := hitMap["name"].(string); ok {
			rec.Name = name
		}
		if parentCode, ok := hitMap["parent_code"].(string); ok {
			rec.ParentCode = parentCode
		}
		if level, ok := hitMap["level"].(float64); ok {
			rec.Level = parser.Level(int(level))
		}
		records = append(records, rec)
	}
	return records
}

// BuildIndexes cấu hình index: searchable, filterable và sortable attributes
func (s *MeiliStore) BuildIndexes() error {
	task, err := s.client.Index(s.indexName).UpdateSettings(&meilisearch.Settings{
		SearchableAttributes: []string{"name", "pinyin", "pinyin_initials", "normalized_name"},
		FilterableAttributes: []string{"code", "level", "parent_code", "prefixes", "gazetteer_version"},
		SortableAttributes:   []string{"level", "code"},
	})
	if err != nil {
		return fmt.Errorf("lỗi cấu hình index: %w", err)
	}

	s.logger.Info("Đã cấu hình index Meilisearch thành công", zap.Int64("task_uid", task.TaskUID))
	return nil
}

// Replace xóa toàn bộ documents rồi thêm lại theo batch 1000
func (s *MeiliStore) Replace(_ context.Context, units []models.AdminUnit, version string) error {
	index := s.client.Index(s.indexName)

	if err := s.BuildIndexes(); err != nil {
		return err
	}
	task, err := index.DeleteAllDocuments()
	if err != nil {
		return fmt.Errorf("lỗi xóa documents: %w", err)
	}
	s.logger.Info("Đã gửi yêu cầu xóa documents", zap.Int64("task_uid", task.TaskUID))

	documents := make([]map[string]interface{}, 0, len(units))
	for _, unit := range units {
		prefixes := unit.Prefixes
		if len(prefixes) == 0 {
			prefixes = normalizer.Prefixes(unit.Name)
		}
		documents = append(documents, map[string]interface{}{
			"id":                fmt.Sprintf("%d-%s", unit.Level, unit.Code),
			"code":              unit.Code,
			"parent_code":       unit.ParentCode,
			"level":             unit.Level,
			"name":              unit.Name,
			"pinyin":            unit.Pinyin,
			"pinyin_initials":   unit.PinyinInitials,
			"normalized_name":   unit.NormalizedName,
			"prefixes":          prefixes,
			"gazetteer_version": version,
		})
	}

	batchSize := 1000
	for i := 0; i < len(documents); i += batchSize {
		end := i + batchSize
		if end > len(documents) {
			end = len(documents)
		}

		task, err := index.AddDocuments(documents[i:end], "id")
		if err != nil {
			return fmt.Errorf("lỗi thêm documents batch %d-%d: %w", i, end, err)
		}

		s.logger.Info("Đã thêm batch documents",
			zap.Int("from", i),
			zap.Int("to", end),
			zap.Int64("task_uid", task.TaskUID))
	}

	s.logger.Info("Đã seed data thành công",
		zap.Int("total_documents", len(documents)),
		zap.String("version", version))
	return nil
}

// Stats đếm theo level bằng estimatedTotalHits
func (s *MeiliStore) Stats(_ context.Context) (*Stats, error) {
	index := s.client.Index(s.indexName)
	stats := &Stats{Driver: DriverMeilisearch, ByLevel: make(map[string]int64)}

	for _, level := range parser.Levels {
		result, err := index.Search("", &meilisearch.SearchRequest{
			Filter: FilterLevelParent(level, ""),
			Limit:  1,
		})
		if err != nil {
			return nil, fmt.Errorf("lỗi thống kê Meilisearch: %w", err)
		}
		stats.ByLevel[level.String()] = result.EstimatedTotalHits
		stats.Total += result.EstimatedTotalHits
		if stats.Version == "" && len(result.Hits) > 0 {
			if hitMap, ok := result.Hits[0].(map[string]interface{}); ok {
				stats.Version, _ = hitMap["gazetteer_version"].(string)
			}
		}
	}
	return stats, nil
}

// Close không giữ tài nguyên cần giải phóng
func (s *MeiliStore) Close() error {
	return nil
}
