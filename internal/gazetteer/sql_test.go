package gazetteer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zh-address-parser/internal/parser"
	"go.uber.org/zap"
)

func openTestSQLite(t *testing.T) *SQLStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gazetteer.db")
	store, err := OpenSQLite(path, true, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLStore(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLite(t)
	require.NoError(t, store.Replace(ctx, Enrich(testUnits()), "blake3:abc"))

	t.Run("prefix unscoped", func(t *testing.T) {
		records, err := store.FindByPrefix(ctx, parser.LevelDistrict, "", "西湖")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"330106", "360103"}, codes(records))
	})

	t.Run("prefix scoped", func(t *testing.T) {
		records, err := store.FindByPrefix(ctx, parser.LevelDistrict, "3601", "西湖区")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, parser.AddressRecord{Code: "360103", Name: "西湖区", Level: parser.LevelDistrict, ParentCode: "3601"}, records[0])
	})

	t.Run("province has empty parent", func(t *testing.T) {
		rec, err := store.FindByCode(ctx, parser.LevelProvince, "33")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "", rec.ParentCode)
		assert.Equal(t, "浙江省", rec.Name)
	})

	t.Run("missing code", func(t *testing.T) {
		rec, err := store.FindByCode(ctx, parser.LevelStreet, "000")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("stats", func(t *testing.T) {
		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, DriverSQLite, stats.Driver)
		assert.Equal(t, int64(10), stats.Total)
		assert.Equal(t, int64(3), stats.ByLevel["province"])
		assert.Equal(t, "blake3:abc", stats.Version)
	})
}

func TestSQLStore_LikeWildcardsAreLiteral(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLite(t)
	require.NoError(t, store.Replace(ctx, Enrich(testUnits()), "v1"))

	records, err := store.FindByPrefix(ctx, parser.LevelProvince, "", "%")
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = store.FindByPrefix(ctx, parser.LevelProvince, "", "_江")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSQLStore_ReplaceDropsOldRows(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLite(t)
	require.NoError(t, store.Replace(ctx, Enrich(testUnits()), "v1"))
	require.NoError(t, store.Replace(ctx, Enrich(testUnits()[:3]), "v2"))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, "v2", stats.Version)
}

func TestMigrationURL(t *testing.T) {
	url, err := MigrationURL(DriverSQLite, "data/gazetteer.db")
	require.NoError(t, err)
	assert.Equal(t, "sqlite://data/gazetteer.db", url)

	url, err = MigrationURL(DriverPostgres, "postgres://u:p@localhost:5432/addr?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost:5432/addr?sslmode=disable", url)

	_, err = MigrationURL(DriverMongo, "mongodb://localhost")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}
