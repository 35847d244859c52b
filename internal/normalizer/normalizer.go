package normalizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-pinyin"
	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var reSpaces = regexp.MustCompile(`\s+`)

// Fold chuyển full-width về half-width, bỏ dấu thanh của chữ Latin và lowercase
func Fold(s string) string {
	s = width.Fold.String(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(reSpaces.ReplaceAllString(out, " ")))
}

// ASCIIFold phiên âm về ASCII bằng unidecode, dùng làm khóa tìm kiếm không phụ thuộc chữ viết
func ASCIIFold(s string) string {
	out := strings.ToLower(unidecode.Unidecode(Fold(s)))
	return strings.TrimSpace(reSpaces.ReplaceAllString(out, " "))
}

func pinyinArgs(style int) pinyin.Args {
	args := pinyin.NewArgs()
	args.Style = style
	args.Heteronym = false
	args.Fallback = func(r rune, a pinyin.Args) []string {
		if unicode.IsSpace(r) {
			return nil
		}
		return []string{string(r)}
	}
	return args
}

// Pinyin 浙江省 → "zhejiangsheng". Ký tự không phải chữ Hán được giữ nguyên.
func Pinyin(s string) string {
	args := pinyinArgs(pinyin.NORMAL)
	return strings.ToLower(strings.Join(pinyin.LazyConvert(Fold(s), &args), ""))
}

// PinyinInitials 浙江省 → "zjs"
func PinyinInitials(s string) string {
	args := pinyinArgs(pinyin.FIRST_LETTER)
	return strings.ToLower(strings.Join(pinyin.LazyConvert(Fold(s), &args), ""))
}

// Prefixes mọi tiền tố từ 2 ký tự tới toàn bộ tên, theo rune
func Prefixes(name string) []string {
	n := utf8.RuneCountInString(name)
	if n < 2 {
		return nil
	}
	rs := []rune(name)
	out := make([]string, 0, n-1)
	for i := 2; i <= n; i++ {
		out = append(out, string(rs[:i]))
	}
	return out
}
