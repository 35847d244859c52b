package parser

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// MunicipalityCorrector sửa cấp thành phố của thành phố trực thuộc (北京市, 上海市, ...)
// khi resolver chỉ khớp được tên giữ chỗ như "市辖区" hoặc "县".
type MunicipalityCorrector struct {
	lookup         Lookup
	municipalities map[string]struct{}
	placeholders   map[string]struct{}
	logger         *zap.Logger
}

// NewMunicipalityCorrector tạo mới MunicipalityCorrector
func NewMunicipalityCorrector(lookup Lookup, ref *Reference, logger *zap.Logger) *MunicipalityCorrector {
	return &MunicipalityCorrector{
		lookup:         lookup,
		municipalities: toSet(ref.Municipalities),
		placeholders:   toSet(ref.CityPlaceholders),
		logger:         logger,
	}
}

// Correct trả về state đã sửa; không đổi gì nếu điều kiện không thỏa
func (m *MunicipalityCorrector) Correct(ctx context.Context, state ParseState) (ParseState, error) {
	province, city := state.Province, state.City
	if province.Name == "" || city.Name == "" {
		return state, nil
	}
	if _, ok := m.municipalities[province.Name]; !ok {
		return state, nil
	}
	if _, ok := m.placeholders[city.Name]; !ok {
		return state, nil
	}

	candidates, err := m.lookup.FindByPrefix(ctx, LevelCity, province.Code, province.Name)
	if err != nil {
		return state, fmt.Errorf("lỗi tra cứu thành phố trực thuộc %q: %w", province.Name, err)
	}
	for _, c := range candidates {
		if c.Name == province.Name {
			m.logger.Debug("Sửa cấp thành phố của thành phố trực thuộc",
				zap.String("from", city.Name),
				zap.String("to", c.Name))
			return state.With(LevelCity, Region{Code: c.Code, Name: c.Name}), nil
		}
	}
	return state, nil
}
