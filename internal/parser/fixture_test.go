package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fixtureLookup nguồn tra cứu trong bộ nhớ cho test
type fixtureLookup struct {
	records []AddressRecord
	queries int
}

func (f *fixtureLookup) FindByPrefix(_ context.Context, level Level, parentCode, prefix string) ([]AddressRecord, error) {
	f.queries++
	var out []AddressRecord
	for _, r := range f.records {
		if r.Level != level {
			continue
		}
		if parentCode != "" && r.ParentCode != parentCode {
			continue
		}
		if strings.HasPrefix(r.Name, prefix) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fixtureLookup) FindByCode(_ context.Context, level Level, code string) (*AddressRecord, error) {
	f.queries++
	for _, r := range f.records {
		if r.Level == level && r.Code == code {
			rec := r
			return &rec, nil
		}
	}
	return nil, nil
}

// mockLookup Lookup dùng testify mock
type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) FindByPrefix(ctx context.Context, level Level, parentCode, prefix string) ([]AddressRecord, error) {
	args := m.Called(ctx, level, parentCode, prefix)
	recs, _ := args.Get(0).([]AddressRecord)
	return recs, args.Error(1)
}

func (m *mockLookup) FindByCode(ctx context.Context, level Level, code string) (*AddressRecord, error) {
	args := m.Called(ctx, level, code)
	rec, _ := args.Get(0).(*AddressRecord)
	return rec, args.Error(1)
}

func rec(level Level, code, name, parent string) AddressRecord {
	return AddressRecord{Code: code, Name: name, Level: level, ParentCode: parent}
}

func newFixtureLookup() *fixtureLookup {
	return &fixtureLookup{records: []AddressRecord{
		rec(LevelProvince, "11", "北京市", ""),
		rec(LevelProvince, "12", "天津市", ""),
		rec(LevelProvince, "33", "浙江省", ""),
		rec(LevelProvince, "36", "江西省", ""),
		rec(LevelProvince, "44", "广东省", ""),
		rec(LevelProvince, "45", "广西壮族自治区", ""),
		rec(LevelProvince, "50", "重庆市", ""),

		rec(LevelCity, "1100", "北京市", "11"),
		rec(LevelCity, "1101", "市辖区", "11"),
		rec(LevelCity, "3301", "杭州市", "33"),
		rec(LevelCity, "3302", "宁波市", "33"),
		rec(LevelCity, "3601", "南昌市", "36"),
		rec(LevelCity, "4401", "广州市", "44"),
		rec(LevelCity, "4403", "深圳市", "44"),
		rec(LevelCity, "5000", "重庆市", "50"),
		rec(LevelCity, "5001", "市辖区", "50"),
		rec(LevelCity, "5002", "县", "50"),

		rec(LevelDistrict, "110105", "朝阳区", "1101"),
		rec(LevelDistrict, "330106", "西湖区", "3301"),
		rec(LevelDistrict, "330110", "余杭区", "3301"),
		rec(LevelDistrict, "330203", "海曙区", "3302"),
		rec(LevelDistrict, "360103", "西湖区", "3601"),
		rec(LevelDistrict, "440106", "天河区", "4401"),
		rec(LevelDistrict, "440305", "南山区", "4403"),
		rec(LevelDistrict, "500101", "万州区", "5001"),
		rec(LevelDistrict, "500231", "垫江县", "5002"),

		rec(LevelStreet, "110105001", "建外街道", "110105"),
		rec(LevelStreet, "330106001", "北山街道", "330106"),
		rec(LevelStreet, "330110001", "五常街道", "330110"),
		rec(LevelStreet, "440305001", "粤海街道", "440305"),
		rec(LevelStreet, "500231101", "太平镇", "500231"),
	}}
}

func testReference(t *testing.T) *Reference {
	t.Helper()
	ref, err := DefaultReference()
	require.NoError(t, err)
	return ref
}

func newTestParser(t *testing.T, lookup Lookup) *AddressParser {
	t.Helper()
	return NewAddressParser(lookup, testReference(t), Config{FoldWidth: true}, zap.NewNop())
}
