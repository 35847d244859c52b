package gazetteer

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationURL URL cơ sở dữ liệu theo định dạng của golang-migrate
func MigrationURL(driver, dsn string) (string, error) {
	switch driver {
	case DriverSQLite:
		if strings.HasPrefix(dsn, "sqlite://") {
			return dsn, nil
		}
		return "sqlite://" + dsn, nil
	case DriverPostgres:
		return dsn, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
}

// NewMigrator tạo migrate instance với các migration được embed sẵn
func NewMigrator(driver, dsn string) (*migrate.Migrate, error) {
	url, err := MigrationURL(driver, dsn)
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("lỗi đọc migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, fmt.Errorf("lỗi tạo migrate instance: %w", err)
	}
	return m, nil
}

// MigrateUp chạy tất cả migration chưa áp dụng
func MigrateUp(driver, dsn string, logger *zap.Logger) error {
	m, err := NewMigrator(driver, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("lỗi migration up: %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("lỗi đọc migration version: %w", err)
	}
	logger.Info("Đã áp dụng migrations",
		zap.String("driver", driver),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}
