package gazetteer

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/zh-address-parser/app/models"
	"github.com/zh-address-parser/internal/parser"
	"go.uber.org/zap"
)

// MemoryStore giữ toàn bộ gazetteer trong bộ nhớ, mỗi cấp một slice sắp theo tên
type MemoryStore struct {
	mu      sync.RWMutex
	byName  map[parser.Level][]parser.AddressRecord
	byCode  map[parser.Level]map[string]parser.AddressRecord
	version string
	logger  *zap.Logger
}

// NewMemoryStore tạo mới MemoryStore rỗng
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		byName: make(map[parser.Level][]parser.AddressRecord),
		byCode: make(map[parser.Level]map[string]parser.AddressRecord),
		logger: logger,
	}
}

// FindByPrefix tìm các bản ghi có tên bắt đầu bằng prefix
func (s *MemoryStore) FindByPrefix(_ context.Context, level parser.Level, parentCode, prefix string) ([]parser.AddressRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.byName[level]
	i := sort.Search(len(records), func(i int) bool {
		return records[i].Name >= prefix
	})

	var out []parser.AddressRecord
	for ; i < len(records) && strings.HasPrefix(records[i].Name, prefix); i++ {
		if parentCode != "" && records[i].ParentCode != parentCode {
			continue
		}
		out = append(out, records[i])
	}
	return out, nil
}

// FindByCode tìm bản ghi theo code, nil nếu không có
func (s *MemoryStore) FindByCode(_ context.Context, level parser.Level, code string) (*parser.AddressRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byCode[level][code]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Replace thay toàn bộ dữ liệu
func (s *MemoryStore) Replace(_ context.Context, units []models.AdminUnit, version string) error {
	byName := make(map[parser.Level][]parser.AddressRecord)
	byCode := make(map[parser.Level]map[string]parser.AddressRecord)
	for i := range units {
		rec := units[i].Record()
		byName[rec.Level] = append(byName[rec.Level], rec)
		if byCode[rec.Level] == nil {
			byCode[rec.Level] = make(map[string]parser.AddressRecord)
		}
		byCode[rec.Level][rec.Code] = rec
	}
	for level := range byName {
		records := byName[level]
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Name < records[j].Name
		})
	}

	s.mu.Lock()
	s.byName = byName
	s.byCode = byCode
	s.version = version
	s.mu.Unlock()

	s.logger.Info("Đã nạp gazetteer vào bộ nhớ",
		zap.Int("units", len(units)),
		zap.String("version", version))
	return nil
}

// Stats thống kê số bản ghi theo cấp
func (s *MemoryStore) Stats(_ context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{Driver: DriverMemory, Version: s.version, ByLevel: make(map[string]int64)}
	for level, records := range s.byName {
		stats.ByLevel[level.String()] = int64(len(records))
		stats.Total += int64(len(records))
	}
	return stats, nil
}

// Close không làm gì với MemoryStore
func (s *MemoryStore) Close() error {
	return nil
}
