package parser

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Resolver khớp tiền tố duy nhất theo từng cấp hành chính và bổ sung các cấp cha
type Resolver struct {
	lookup Lookup
	logger *zap.Logger
}

// NewResolver tạo mới Resolver
func NewResolver(lookup Lookup, logger *zap.Logger) *Resolver {
	return &Resolver{lookup: lookup, logger: logger}
}

// Resolve chạy lần lượt Province → City → District → Street trên một fragment
func (r *Resolver) Resolve(ctx context.Context, state ParseState, fragment string) (ParseState, string, error) {
	var err error
	for _, level := range Levels {
		state, fragment, err = r.resolveLevel(ctx, state, level, fragment)
		if err != nil {
			return state, fragment, err
		}
	}
	return state, fragment, nil
}

// ResolveProvince resolve cấp tỉnh
func (r *Resolver) ResolveProvince(ctx context.Context, state ParseState, fragment string) (ParseState, string, error) {
	return r.resolveLevel(ctx, state, LevelProvince, fragment)
}

// ResolveCity resolve cấp thành phố
func (r *Resolver) ResolveCity(ctx context.Context, state ParseState, fragment string) (ParseState, string, error) {
	return r.resolveLevel(ctx, state, LevelCity, fragment)
}

// ResolveDistrict resolve cấp quận/huyện
func (r *Resolver) ResolveDistrict(ctx context.Context, state ParseState, fragment string) (ParseState, string, error) {
	return r.resolveLevel(ctx, state, LevelDistrict, fragment)
}

// ResolveStreet resolve cấp đường phố/thị trấn
func (r *Resolver) ResolveStreet(ctx context.Context, state ParseState, fragment string) (ParseState, string, error) {
	return r.resolveLevel(ctx, state, LevelStreet, fragment)
}

func (r *Resolver) resolveLevel(ctx context.Context, state ParseState, level Level, fragment string) (ParseState, string, error) {
	if state.Resolved(level) {
		return state, fragment, nil
	}

	parentCode := ""
	if level > LevelProvince {
		parentCode = state.Get(level - 1).Code
	}

	var (
		committed       *AddressRecord
		committedPrefix string
	)
	runes := []rune(fragment)
	for n := 2; n <= len(runes); n++ {
		prefix := string(runes[:n])
		candidates, err := r.lookup.FindByPrefix(ctx, level, parentCode, prefix)
		if err != nil {
			return state, fragment, fmt.Errorf("lỗi tra cứu %s theo tiền tố %q: %w", level, prefix, err)
		}
		if len(candidates) == 0 {
			break
		}
		if len(candidates) == 1 {
			rec := candidates[0]
			committed = &rec
			committedPrefix = prefix
		}
	}

	if committed == nil {
		return state, fragment, nil
	}

	state = state.With(level, Region{Code: committed.Code, Name: committed.Name})
	if strings.HasPrefix(fragment, committed.Name) {
		fragment = strings.TrimPrefix(fragment, committed.Name)
	} else {
		fragment = strings.TrimPrefix(fragment, committedPrefix)
	}

	r.logger.Debug("Đã resolve cấp hành chính",
		zap.Stringer("level", level),
		zap.String("code", committed.Code),
		zap.String("name", committed.Name),
		zap.String("prefix", committedPrefix))

	state, err := r.backfill(ctx, state, level, committed.ParentCode)
	if err != nil {
		return state, fragment, err
	}
	return state, fragment, nil
}

// backfill đi ngược từ parentCode lên trên cho đến khi gặp cấp đã resolve hoặc tới cấp tỉnh
func (r *Resolver) backfill(ctx context.Context, state ParseState, level Level, parentCode string) (ParseState, error) {
	for l := level - 1; l >= LevelProvince && parentCode != ""; l-- {
		if state.Resolved(l) {
			break
		}
		rec, err := r.lookup.FindByCode(ctx, l, parentCode)
		if err != nil {
			return state, fmt.Errorf("lỗi tra cứu %s theo code %q: %w", l, parentCode, err)
		}
		if rec == nil {
			// giữ code để không tạo khoảng trống trong hierarchy, tên để trống
			r.logger.Warn("Không tìm thấy đơn vị cha",
				zap.Stringer("level", l),
				zap.String("code", parentCode))
			state = state.With(l, Region{Code: parentCode})
			break
		}
		state = state.With(l, Region{Code: rec.Code, Name: rec.Name})
		parentCode = rec.ParentCode
	}
	return state, nil
}
