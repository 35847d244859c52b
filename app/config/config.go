package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/zh-address-parser/internal/gazetteer"
	"github.com/zh-address-parser/internal/parser"
)

// Config toàn bộ cấu hình ứng dụng
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Log         LogConfig         `mapstructure:"log"`
	Parser      ParserConfig      `mapstructure:"parser"`
	Gazetteer   GazetteerConfig   `mapstructure:"gazetteer"`
	SQLite      SQLiteConfig      `mapstructure:"sqlite"`
	Postgres    PostgresConfig    `mapstructure:"postgres"`
	Mongo       MongoConfig       `mapstructure:"mongo"`
	Meilisearch MeilisearchConfig `mapstructure:"meilisearch"`
	Cache       CacheConfig       `mapstructure:"cache"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Batch       BatchConfig       `mapstructure:"batch"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ParserConfig cấu hình engine parse
type ParserConfig struct {
	NameMaxLength int      `mapstructure:"name_max_length"`
	FoldWidth     bool     `mapstructure:"fold_width"`
	ExtraKeywords []string `mapstructure:"extra_keywords"` // Nhãn bổ sung áp dụng cho mọi request
	ReferenceFile string   `mapstructure:"reference_file"` // Rỗng dùng dữ liệu nhúng
}

// GazetteerConfig cấu hình nguồn tra cứu
type GazetteerConfig struct {
	Driver          string        `mapstructure:"driver"`
	Source          string        `mapstructure:"source"`   // File/thư mục nạp khi khởi động
	Encoding        string        `mapstructure:"encoding"` // utf-8 | gbk
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	LookupCacheSize int           `mapstructure:"lookup_cache_size"` // 0 tắt memo
	Timeout         time.Duration `mapstructure:"timeout"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig cấu hình kết nối PostgreSQL
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN chuỗi kết nối PostgreSQL
func (p *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Name, p.SSLMode,
	)
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

type MeilisearchConfig struct {
	URL           string `mapstructure:"url"`
	MasterKey     string `mapstructure:"master_key"`
	Index         string `mapstructure:"index"`
	MaxCandidates int    `mapstructure:"max_candidates"`
}

// CacheConfig cấu hình cache kết quả parse
type CacheConfig struct {
	Driver   string        `mapstructure:"driver"` // none | memory | redis | mongo | hybrid
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
	L1Size   int           `mapstructure:"l1_size"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	Expiry time.Duration `mapstructure:"expiry"`
}

// BatchConfig cấu hình job batch
type BatchConfig struct {
	MaxAddresses int           `mapstructure:"max_addresses"`
	Workers      int           `mapstructure:"workers"`
	JobTTL       time.Duration `mapstructure:"job_ttl"`
}

// IsProduction môi trường production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// ParserOptions cấu hình cho parser.NewAddressParser
func (c *Config) ParserOptions() parser.Config {
	return parser.Config{
		NameMaxLength: c.Parser.NameMaxLength,
		FoldWidth:     c.Parser.FoldWidth,
	}
}

// StoreConfig cấu hình cho gazetteer.Open
func (c *Config) StoreConfig() gazetteer.Config {
	return gazetteer.Config{
		Driver:        c.Gazetteer.Driver,
		SQLitePath:    c.SQLite.Path,
		PostgresDSN:   c.Postgres.DSN(),
		MaxOpenConns:  c.Postgres.MaxOpen,
		MaxIdleConns:  c.Postgres.MaxIdle,
		AutoMigrate:   c.Gazetteer.AutoMigrate,
		MongoURL:      c.Mongo.URL,
		MongoDatabase: c.Mongo.Database,
		MeiliURL:      c.Meilisearch.URL,
		MeiliKey:      c.Meilisearch.MasterKey,
		MeiliIndex:    c.Meilisearch.Index,
		MaxCandidates: c.Meilisearch.MaxCandidates,
		Timeout:       c.Gazetteer.Timeout,
	}
}

// Load đọc cấu hình từ file app.yaml và env vars (prefix ADDR_).
// Không có file cấu hình thì dùng default + env.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("ADDR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Env cũ không có prefix
	compat := map[string]string{
		"app.env":         "APP_ENV",
		"app.port":        "APP_PORT",
		"cache.redis_url": "REDIS_URL",
		"mongo.url":       "MONGO_URL",
	}
	for key, env := range compat {
		if err := v.BindEnv(key, "ADDR_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("lỗi bind env %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("lỗi đọc file cấu hình: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("lỗi decode cấu hình: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "zh-address-parser")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("log.level", "")

	v.SetDefault("parser.name_max_length", parser.DefaultNameMaxLength)
	v.SetDefault("parser.fold_width", true)
	v.SetDefault("parser.extra_keywords", []string{})
	v.SetDefault("parser.reference_file", "")

	v.SetDefault("gazetteer.driver", gazetteer.DriverSQLite)
	v.SetDefault("gazetteer.source", "")
	v.SetDefault("gazetteer.encoding", gazetteer.EncodingUTF8)
	v.SetDefault("gazetteer.auto_migrate", true)
	v.SetDefault("gazetteer.lookup_cache_size", 50000)
	v.SetDefault("gazetteer.timeout", "30s")

	v.SetDefault("sqlite.path", "gazetteer.db")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "addr")
	v.SetDefault("postgres.password", "addr_secret")
	v.SetDefault("postgres.name", "address_parser")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open", 25)
	v.SetDefault("postgres.max_idle", 10)

	v.SetDefault("mongo.url", "mongodb://localhost:27017/address_parser")
	v.SetDefault("mongo.database", "address_parser")

	v.SetDefault("meilisearch.url", "http://localhost:7700")
	v.SetDefault("meilisearch.master_key", "")
	v.SetDefault("meilisearch.index", "admin_units")
	v.SetDefault("meilisearch.max_candidates", 50)

	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.redis_url", "redis://localhost:6379")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.l1_size", 10000)

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "zh-address-parser")
	v.SetDefault("jwt.expiry", "24h")

	v.SetDefault("batch.max_addresses", 20000)
	v.SetDefault("batch.workers", 8)
	v.SetDefault("batch.job_ttl", "1h")
}
