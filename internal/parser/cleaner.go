package parser

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/width"
)

var (
	reMultiSpace    = regexp.MustCompile(` {2,}`)
	controlReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")
)

// Cleaner làm sạch địa chỉ thô: bỏ nhãn, dấu câu và khoảng trắng thừa
type Cleaner struct {
	keywords    []string
	punctuation map[rune]struct{}
	foldWidth   bool
}

// NewCleaner tạo mới Cleaner. foldWidth chuyển ký tự full-width (１２３，：) về dạng thường
// trước khi làm sạch.
func NewCleaner(ref *Reference, foldWidth bool) *Cleaner {
	punct := make(map[rune]struct{})
	for _, r := range ref.Punctuation {
		punct[r] = struct{}{}
	}
	return &Cleaner{
		keywords:    sortKeywords(ref.Keywords),
		punctuation: punct,
		foldWidth:   foldWidth,
	}
}

// Clean trả về văn bản đã làm sạch. extraKeywords là các nhãn bổ sung của caller.
func (c *Cleaner) Clean(text string, extraKeywords ...string) string {
	if c.foldWidth {
		text = width.Fold.String(text)
	}
	text = controlReplacer.Replace(text)

	keywords := c.keywords
	if len(extraKeywords) > 0 {
		keywords = sortKeywords(append(append([]string{}, c.keywords...), extraKeywords...))
	}
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		text = strings.ReplaceAll(text, kw, " ")
	}

	text = strings.Map(func(r rune) rune {
		if _, ok := c.punctuation[r]; ok {
			return ' '
		}
		return r
	}, text)

	text = reMultiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// sortKeywords sắp xếp nhãn dài trước để "联系人手机号码" không bị cắt thành "手机号码"
func sortKeywords(keywords []string) []string {
	out := append([]string{}, keywords...)
	sort.SliceStable(out, func(i, j int) bool {
		return len([]rune(out[i])) > len([]rune(out[j]))
	})
	return out
}

// Tokenize tách văn bản thành các fragment theo khoảng trắng, giữ nguyên thứ tự
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	fragments := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			fragments = append(fragments, f)
		}
	}
	return fragments
}
