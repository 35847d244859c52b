// Package gazetteer cung cấp các nguồn tra cứu đơn vị hành chính cho parser
package gazetteer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zh-address-parser/app/models"
	"github.com/zh-address-parser/internal/parser"
	"go.uber.org/zap"
)

// ErrUnsupportedDriver driver gazetteer không được hỗ trợ
var ErrUnsupportedDriver = errors.New("driver gazetteer không được hỗ trợ")

// Các driver được hỗ trợ
const (
	DriverMemory      = "memory"
	DriverSQLite      = "sqlite"
	DriverPostgres    = "postgres"
	DriverMongo       = "mongo"
	DriverMeilisearch = "meilisearch"
)

// Store nguồn tra cứu có thể nạp lại dữ liệu
type Store interface {
	parser.Lookup
	// Replace thay toàn bộ dữ liệu bằng units
	Replace(ctx context.Context, units []models.AdminUnit, version string) error
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// Stats thống kê dữ liệu trong store
type Stats struct {
	Driver  string           `json:"driver"`
	Version string           `json:"version"`
	Total   int64            `json:"total"`
	ByLevel map[string]int64 `json:"by_level"`
}

// Config cấu hình mở Store
type Config struct {
	Driver        string
	SQLitePath    string
	PostgresDSN   string
	MaxOpenConns  int
	MaxIdleConns  int
	AutoMigrate   bool
	MongoURL      string
	MongoDatabase string
	MeiliURL      string
	MeiliKey      string
	MeiliIndex    string
	MaxCandidates int
	Timeout       time.Duration
}

// Open mở Store theo driver trong cấu hình
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverMemory:
		return NewMemoryStore(logger), nil
	case DriverSQLite:
		return OpenSQLite(cfg.SQLitePath, cfg.AutoMigrate, logger)
	case DriverPostgres:
		return OpenPostgres(cfg.PostgresDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.AutoMigrate, logger)
	case DriverMongo:
		return OpenMongo(ctx, cfg.MongoURL, cfg.MongoDatabase, logger)
	case DriverMeilisearch:
		return NewMeiliStore(MeiliConfig{
			Host:          cfg.MeiliURL,
			APIKey:        cfg.MeiliKey,
			IndexName:     cfg.MeiliIndex,
			MaxCandidates: cfg.MaxCandidates,
			Timeout:       cfg.Timeout,
		}, logger)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Driver)
}

func levelKey(level int) string {
	return parser.Level(level).String()
}
