package parser

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Options tùy chọn cho một lượt parse
type Options struct {
	ExtractName       bool
	ExtractPhone      bool
	ExtractPostalCode bool
	// TextFilter các nhãn bổ sung cần loại bỏ khi làm sạch
	TextFilter []string
	// NameMaxLength ghi đè độ dài tên tối đa, 0 dùng giá trị của parser
	NameMaxLength int
}

// Config cấu hình AddressParser
type Config struct {
	NameMaxLength int
	FoldWidth     bool
}

// AddressParser parser địa chỉ chính
type AddressParser struct {
	cleaner       *Cleaner
	resolver      *Resolver
	names         *NameHeuristic
	corrector     *MunicipalityCorrector
	nameMaxLength int
	logger        *zap.Logger
}

// NewAddressParser tạo mới AddressParser
func NewAddressParser(lookup Lookup, ref *Reference, cfg Config, logger *zap.Logger) *AddressParser {
	if cfg.NameMaxLength <= 0 {
		cfg.NameMaxLength = DefaultNameMaxLength
	}
	return &AddressParser{
		cleaner:       NewCleaner(ref, cfg.FoldWidth),
		resolver:      NewResolver(lookup, logger),
		names:         NewNameHeuristic(ref),
		corrector:     NewMunicipalityCorrector(lookup, ref, logger),
		nameMaxLength: cfg.NameMaxLength,
		logger:        logger,
	}
}

// Parse parse một địa chỉ
func (ap *AddressParser) Parse(ctx context.Context, address string, extractName, extractPhone, extractPostalCode bool) (ParseResult, error) {
	return ap.ParseWithOptions(ctx, address, Options{
		ExtractName:       extractName,
		ExtractPhone:      extractPhone,
		ExtractPostalCode: extractPostalCode,
	})
}

// ParseWithOptions parse một địa chỉ với đầy đủ tùy chọn
func (ap *AddressParser) ParseWithOptions(ctx context.Context, address string, opts Options) (ParseResult, error) {
	if strings.TrimSpace(address) == "" {
		return ParseResult{}, nil
	}

	text := ap.cleaner.Clean(address, opts.TextFilter...)
	ap.logger.Debug("Đã làm sạch địa chỉ", zap.String("cleaned", text))

	state := ParseState{}
	if opts.ExtractPhone {
		text, state.Phone = ExtractPhone(text)
	}
	if opts.ExtractPostalCode {
		text, state.PostalCode = ExtractPostalCode(text)
	}

	fragments := Tokenize(text)
	ap.logger.Debug("Đã tách fragment", zap.Strings("fragments", fragments))

	for _, fragment := range fragments {
		if state.Complete() {
			state = state.WithDetail(fragment)
			continue
		}
		next, rest, err := ap.resolver.Resolve(ctx, state, fragment)
		if err != nil {
			return ParseResult{}, err
		}
		state = next
		if strings.TrimSpace(rest) != "" {
			state = state.WithDetail(rest)
		}
	}

	if opts.ExtractName {
		maxLength := ap.nameMaxLength
		if opts.NameMaxLength > 0 {
			maxLength = opts.NameMaxLength
		}
		name, detail := ap.names.Extract(state.Detail, maxLength)
		state = state.WithName(name, detail)
	}

	state, err := ap.corrector.Correct(ctx, state)
	if err != nil {
		return ParseResult{}, err
	}

	result := Assemble(state)
	ap.logger.Debug("Đã parse địa chỉ",
		zap.String("province", result.Province),
		zap.String("city", result.City),
		zap.String("area", result.Area),
		zap.String("street", result.Street),
		zap.String("detail", result.Detail))
	return result, nil
}
