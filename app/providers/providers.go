// Package providers dựng các thành phần dùng chung cho HTTP server và addrctl.
package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zh-address-parser/app/config"
	"github.com/zh-address-parser/app/services"
	"github.com/zh-address-parser/internal/gazetteer"
	"github.com/zh-address-parser/internal/parser"
	"go.uber.org/zap"
)

// Cache drivers
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheMongo  = "mongo"
	CacheHybrid = "hybrid"
)

// Container các thành phần đã khởi tạo
type Container struct {
	Config         *config.Config
	Store          gazetteer.Store
	LookupCache    *gazetteer.CachedLookup
	Parser         *parser.AddressParser
	Version        *services.GazetteerVersion
	Cache          services.ICacheService
	AddressService *services.AddressService
	AdminService   *services.AdminService
	AuthService    *services.AuthService

	logger  *zap.Logger
	closers []func() error
}

// Options tùy chọn khi dựng Container
type Options struct {
	// WithoutCache bỏ qua cache kết quả dù cấu hình bật
	WithoutCache bool
	// SkipSource không nạp gazetteer.source khi khởi động
	SkipSource bool
}

// New mở store, dựng parser, cache và các service theo cấu hình
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*Container, error) {
	c := &Container{Config: cfg, logger: logger}

	store, err := gazetteer.Open(ctx, cfg.StoreConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("lỗi mở gazetteer store: %w", err)
	}
	c.Store = store
	c.closers = append(c.closers, store.Close)

	var lookup parser.Lookup = store
	if cfg.Gazetteer.LookupCacheSize > 0 {
		cached, err := gazetteer.NewCachedLookup(store, cfg.Gazetteer.LookupCacheSize)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.LookupCache = cached
		lookup = cached
	}

	ref, err := loadReference(cfg.Parser.ReferenceFile)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Parser = parser.NewAddressParser(lookup, ref, cfg.ParserOptions(), logger)

	stats, err := store.Stats(ctx)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("lỗi đọc thống kê gazetteer: %w", err)
	}
	c.Version = services.NewGazetteerVersion(stats.Version)

	if !opts.WithoutCache {
		if err := c.openCache(ctx); err != nil {
			c.Close()
			return nil, err
		}
	}

	c.AdminService = services.NewAdminService(store, c.LookupCache, c.Cache, c.Version, logger)
	c.AddressService = services.NewAddressService(c.Parser, c.Cache, c.Version, services.AddressServiceConfig{
		ExtraKeywords: cfg.Parser.ExtraKeywords,
		Workers:       cfg.Batch.Workers,
		MaxAddresses:  cfg.Batch.MaxAddresses,
		JobTTL:        cfg.Batch.JobTTL,
	}, logger)
	c.AuthService = services.NewAuthService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry)

	if cfg.Gazetteer.Source != "" && !opts.SkipSource {
		if err := c.seedFromSource(ctx); err != nil {
			c.Close()
			return nil, err
		}
	} else if _, err := c.AdminService.RefreshMetrics(ctx); err != nil {
		logger.Warn("Lỗi cập nhật metrics gazetteer", zap.Error(err))
	}

	logger.Info("Đã khởi tạo các thành phần",
		zap.String("gazetteer_driver", stats.Driver),
		zap.String("gazetteer_version", c.Version.Get()),
		zap.String("cache_driver", cfg.Cache.Driver))
	return c, nil
}

func loadReference(path string) (*parser.Reference, error) {
	if path == "" {
		return parser.DefaultReference()
	}
	return parser.LoadReference(path)
}

// seedFromSource nạp gazetteer.source vào store khi phiên bản khác với dữ liệu hiện có
func (c *Container) seedFromSource(ctx context.Context) error {
	ds, err := c.AdminService.LoadSource(c.Config.Gazetteer.Source, c.Config.Gazetteer.Encoding)
	if err != nil {
		return err
	}
	if ds.Version == c.Version.Get() {
		c.logger.Info("Gazetteer đã ở phiên bản mới nhất", zap.String("version", ds.Version))
		_, err := c.AdminService.RefreshMetrics(ctx)
		return err
	}
	_, err = c.AdminService.SeedGazetteer(ctx, ds.Version, ds.Units, false)
	return err
}

// openCache mở cache kết quả theo cache.driver
func (c *Container) openCache(ctx context.Context) error {
	cfg := c.Config.Cache
	switch strings.ToLower(cfg.Driver) {
	case "", CacheNone:
		return nil
	case CacheMemory:
		memory := services.NewCacheService(cfg.TTL)
		memory.StartCleanupWorker(ctx, time.Minute)
		c.Cache = memory
	case CacheRedis:
		redisCache, err := services.NewRedisCacheService(cfg.RedisURL, cfg.TTL, c.logger)
		if err != nil {
			return err
		}
		c.Cache = redisCache
		c.closers = append(c.closers, redisCache.Close)
	case CacheMongo:
		mongoCache, err := c.openMongoCache(ctx)
		if err != nil {
			return err
		}
		c.Cache = mongoCache
	case CacheHybrid:
		redisCache, err := services.NewRedisCacheService(cfg.RedisURL, cfg.TTL, c.logger)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, redisCache.Close)
		mongoCache, err := c.openMongoCache(ctx)
		if err != nil {
			return err
		}
		c.Cache = services.NewHybridCacheService(redisCache, mongoCache, c.logger)
	default:
		return fmt.Errorf("cache driver không hỗ trợ: %s", cfg.Driver)
	}
	return nil
}

func (c *Container) openMongoCache(ctx context.Context) (*services.MongoCacheService, error) {
	url := c.Config.Mongo.URL
	client, err := gazetteer.ConnectMongo(ctx, url, c.logger)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, func() error {
		return client.Disconnect(context.Background())
	})

	db := client.Database(gazetteer.MongoDatabaseName(url, c.Config.Mongo.Database))
	mongoCache, err := services.NewMongoCacheService(db, c.Config.Cache.L1Size, c.Config.Cache.TTL, c.logger)
	if err != nil {
		return nil, err
	}

	if err := mongoCache.WarmUp(ctx, c.Version.Get(), c.Config.Cache.L1Size/2); err != nil {
		c.logger.Warn("Failed to warm up cache", zap.Error(err))
	}
	return mongoCache, nil
}

// Close đóng các kết nối theo thứ tự ngược với lúc mở
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
