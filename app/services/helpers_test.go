package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zh-address-parser/app/models"
	"github.com/zh-address-parser/internal/gazetteer"
	"github.com/zh-address-parser/internal/parser"
	"go.uber.org/zap"
)

const testVersion = "v-test"

func testUnits() []models.AdminUnit {
	return []models.AdminUnit{
		{Code: "44", Name: "广东省", Level: 1},
		{Code: "4403", Name: "深圳市", Level: 2, ParentCode: "44"},
		{Code: "440305", Name: "南山区", Level: 3, ParentCode: "4403"},
		{Code: "440305001", Name: "粤海街道", Level: 4, ParentCode: "440305"},
		{Code: "33", Name: "浙江省", Level: 1},
		{Code: "3301", Name: "杭州市", Level: 2, ParentCode: "33"},
		{Code: "330106", Name: "西湖区", Level: 3, ParentCode: "3301"},
	}
}

type testStack struct {
	store   *gazetteer.MemoryStore
	lookup  *gazetteer.CachedLookup
	version *GazetteerVersion
	parser  *parser.AddressParser
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	store := gazetteer.NewMemoryStore(zap.NewNop())
	require.NoError(t, store.Replace(context.Background(), testUnits(), testVersion))

	lookup, err := gazetteer.NewCachedLookup(store, 128)
	require.NoError(t, err)

	ref, err := parser.DefaultReference()
	require.NoError(t, err)

	return &testStack{
		store:   store,
		lookup:  lookup,
		version: NewGazetteerVersion(testVersion),
		parser:  parser.NewAddressParser(lookup, ref, parser.Config{FoldWidth: true}, zap.NewNop()),
	}
}

func (s *testStack) addressService(cache ICacheService, cfg AddressServiceConfig) *AddressService {
	return NewAddressService(s.parser, cache, s.version, cfg, zap.NewNop())
}
