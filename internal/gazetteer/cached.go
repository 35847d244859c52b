package gazetteer

import (
	"context"
	"fmt"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zh-address-parser/internal/metrics"
	"github.com/zh-address-parser/internal/parser"
)

// CachedLookup ghi nhớ kết quả tra cứu bằng LRU. Kết quả rỗng cũng được ghi nhớ,
// lỗi thì không.
type CachedLookup struct {
	next     parser.Lookup
	prefixes *lru.Cache[string, []parser.AddressRecord]
	codes    *lru.Cache[string, *parser.AddressRecord]
}

// NewCachedLookup tạo mới CachedLookup với size phần tử cho mỗi loại truy vấn
func NewCachedLookup(next parser.Lookup, size int) (*CachedLookup, error) {
	prefixes, err := lru.New[string, []parser.AddressRecord](size)
	if err != nil {
		return nil, fmt.Errorf("không thể tạo LRU cache: %w", err)
	}
	codes, err := lru.New[string, *parser.AddressRecord](size)
	if err != nil {
		return nil, fmt.Errorf("không thể tạo LRU cache: %w", err)
	}
	return &CachedLookup{next: next, prefixes: prefixes, codes: codes}, nil
}

func cacheKey(level parser.Level, parts ...string) string {
	key := strconv.Itoa(int(level))
	for _, p := range parts {
		key += "\x00" + p
	}
	return key
}

// FindByPrefix tra cứu qua LRU
func (c *CachedLookup) FindByPrefix(ctx context.Context, level parser.Level, parentCode, prefix string) ([]parser.AddressRecord, error) {
	key := cacheKey(level, parentCode, prefix)
	if records, ok := c.prefixes.Get(key); ok {
		metrics.LookupCacheTotal.WithLabelValues("prefix", "hit").Inc()
		return records, nil
	}
	metrics.LookupCacheTotal.WithLabelValues("prefix", "miss").Inc()

	records, err := c.next.FindByPrefix(ctx, level, parentCode, prefix)
	if err != nil {
		return nil, err
	}
	c.prefixes.Add(key, records)
	return records, nil
}

// FindByCode tra cứu qua LRU
func (c *CachedLookup) FindByCode(ctx context.Context, level parser.Level, code string) (*parser.AddressRecord, error) {
	key := cacheKey(level, code)
	if rec, ok := c.codes.Get(key); ok {
		metrics.LookupCacheTotal.WithLabelValues("code", "hit").Inc()
		if rec == nil {
			return nil, nil
		}
		cp := *rec
		return &cp, nil
	}
	metrics.LookupCacheTotal.WithLabelValues("code", "miss").Inc()

	rec, err := c.next.FindByCode(ctx, level, code)
	if err != nil {
		return nil, err
	}
	c.codes.Add(key, rec)
	if rec == nil {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

// Purge xóa toàn bộ cache, gọi sau khi nạp lại gazetteer
func (c *CachedLookup) Purge() {
	c.prefixes.Purge()
	c.codes.Purge()
}

// Len số phần tử đang được cache
func (c *CachedLookup) Len() int {
	return c.prefixes.Len() + c.codes.Len()
}
