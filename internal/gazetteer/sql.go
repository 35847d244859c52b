package gazetteer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/zh-address-parser/app/models"
	"github.com/zh-address-parser/internal/parser"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	selectArea = `SELECT code, name, level, COALESCE(parent_code, '') AS parent_code FROM area`
	insertArea = `INSERT INTO area (code, name, level, parent_code, pinyin, pinyin_initials, normalized_name, gazetteer_version)
		VALUES (:code, :name, :level, :parent_code, :pinyin, :pinyin_initials, :normalized_name, :gazetteer_version)`

	insertBatchSize = 500
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// SQLStore tra cứu trên bảng area (SQLite hoặc PostgreSQL)
type SQLStore struct {
	db     *sqlx.DB
	driver string
	logger *zap.Logger
}

// NewSQLStore tạo mới SQLStore từ kết nối có sẵn
func NewSQLStore(db *sqlx.DB, driver string, logger *zap.Logger) *SQLStore {
	return &SQLStore{db: db, driver: driver, logger: logger}
}

// OpenSQLite mở file SQLite, chạy migration nếu autoMigrate
func OpenSQLite(path string, autoMigrate bool, logger *zap.Logger) (*SQLStore, error) {
	if path == "" {
		path = "gazetteer.db"
	}
	if autoMigrate {
		if err := MigrateUp(DriverSQLite, path, logger); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("lỗi kết nối SQLite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	logger.Info("Đã kết nối SQLite gazetteer", zap.String("path", path))
	return NewSQLStore(db, DriverSQLite, logger), nil
}

// OpenPostgres kết nối PostgreSQL qua pgx
func OpenPostgres(dsn string, maxOpen, maxIdle int, autoMigrate bool, logger *zap.Logger) (*SQLStore, error) {
	if autoMigrate {
		if err := MigrateUp(DriverPostgres, dsn, logger); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("lỗi kết nối PostgreSQL: %w", err)
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}

	logger.Info("Đã kết nối PostgreSQL gazetteer")
	return NewSQLStore(db, DriverPostgres, logger), nil
}

// FindByPrefix name LIKE 'prefix%' trong level, lọc theo parent_code nếu có
func (s *SQLStore) FindByPrefix(ctx context.Context, level parser.Level, parentCode, prefix string) ([]parser.AddressRecord, error) {
	query := selectArea + ` WHERE level = ? AND name LIKE ? ESCAPE '\'`
	args := []interface{}{int(level), likeEscaper.Replace(prefix) + "%"}
	if parentCode != "" {
		query += ` AND parent_code = ?`
		args = append(args, parentCode)
	}

	var records []parser.AddressRecord
	if err := s.db.SelectContext(ctx, &records, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("lỗi truy vấn area: %w", err)
	}
	return records, nil
}

// FindByCode tìm theo (level, code)
func (s *SQLStore) FindByCode(ctx context.Context, level parser.Level, code string) (*parser.AddressRecord, error) {
	var rec parser.AddressRecord
	query := s.db.Rebind(selectArea + ` WHERE level = ? AND code = ?`)
	if err := s.db.GetContext(ctx, &rec, query, int(level), code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lỗi truy vấn area theo code: %w", err)
	}
	return &rec, nil
}

// Replace xóa và nạp lại toàn bộ bảng area trong một transaction
func (s *SQLStore) Replace(ctx context.Context, units []models.AdminUnit, version string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("lỗi mở transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM area`); err != nil {
		return fmt.Errorf("lỗi xóa bảng area: %w", err)
	}

	rows := make([]models.AdminUnit, len(units))
	copy(rows, units)
	for i := range rows {
		rows[i].GazetteerVersion = version
	}

	for i := 0; i < len(rows); i += insertBatchSize {
		end := i + insertBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		if _, err := tx.NamedExecContext(ctx, insertArea, rows[i:end]); err != nil {
			return fmt.Errorf("lỗi insert area batch %d-%d: %w", i, end, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("lỗi commit transaction: %w", err)
	}

	s.logger.Info("Đã nạp gazetteer vào SQL",
		zap.String("driver", s.driver),
		zap.Int("units", len(units)),
		zap.String("version", version))
	return nil
}

// Stats đếm bản ghi theo cấp
func (s *SQLStore) Stats(ctx context.Context) (*Stats, error) {
	var counts []struct {
		Level int   `db:"level"`
		Count int64 `db:"count"`
	}
	if err := s.db.SelectContext(ctx, &counts, `SELECT level, COUNT(*) AS count FROM area GROUP BY level`); err != nil {
		return nil, fmt.Errorf("lỗi thống kê area: %w", err)
	}

	stats := &Stats{Driver: s.driver, ByLevel: make(map[string]int64)}
	for _, c := range counts {
		stats.ByLevel[levelKey(c.Level)] = c.Count
		stats.Total += c.Count
	}
	if err := s.db.GetContext(ctx, &stats.Version, `SELECT COALESCE(MAX(gazetteer_version), '') FROM area`); err != nil {
		return nil, fmt.Errorf("lỗi đọc gazetteer version: %w", err)
	}
	return stats, nil
}

// Close đóng kết nối
func (s *SQLStore) Close() error {
	return s.db.Close()
}
