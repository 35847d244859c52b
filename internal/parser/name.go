package parser

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultNameMaxLength độ dài tối đa (số ký tự) của tên người nhận
const DefaultNameMaxLength = 4

// NameHeuristic đoán fragment nào trong detail là tên người nhận
type NameHeuristic struct {
	honorifics       []string
	surnames         map[rune]struct{}
	compoundSurnames []string
}

// NewNameHeuristic tạo mới NameHeuristic từ dữ liệu tham chiếu
func NewNameHeuristic(ref *Reference) *NameHeuristic {
	return &NameHeuristic{
		honorifics:       ref.Honorifics,
		surnames:         ref.surnameSet(),
		compoundSurnames: ref.CompoundSurnames,
	}
}

// Extract trả về tên tìm được và detail đã bỏ đúng một lần xuất hiện của tên đó
func (h *NameHeuristic) Extract(detail []string, maxLength int) (string, []string) {
	if len(detail) == 0 {
		return "", detail
	}
	if maxLength <= 0 {
		maxLength = DefaultNameMaxLength
	}

	sorted := append([]string{}, detail...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i]) < utf8.RuneCountInString(sorted[j])
	})

	name := ""
	for _, fragment := range sorted {
		if h.isName(fragment, maxLength) {
			name = fragment
			break
		}
	}
	if name == "" {
		shortest := sorted[0]
		if utf8.RuneCountInString(shortest) <= maxLength && containsCJK(shortest) {
			name = shortest
		}
	}
	if name == "" {
		return "", detail
	}

	rest := make([]string, 0, len(detail)-1)
	removed := false
	for _, fragment := range detail {
		if !removed && fragment == name {
			removed = true
			continue
		}
		rest = append(rest, fragment)
	}
	return name, rest
}

func (h *NameHeuristic) isName(fragment string, maxLength int) bool {
	if strings.TrimSpace(fragment) == "" || !containsCJK(fragment) {
		return false
	}
	for _, call := range h.honorifics {
		if strings.Contains(fragment, call) {
			return true
		}
	}
	length := utf8.RuneCountInString(fragment)
	if length < 2 || length > maxLength {
		return false
	}
	return h.hasSurname(fragment)
}

func (h *NameHeuristic) hasSurname(fragment string) bool {
	for _, compound := range h.compoundSurnames {
		if strings.HasPrefix(fragment, compound) {
			return true
		}
	}
	first, _ := utf8.DecodeRuneInString(fragment)
	_, ok := h.surnames[first]
	return ok
}

// containsCJK có ít nhất một chữ Hán trong khối U+4E00..U+9FA5
func containsCJK(s string) bool {
	for _, r := range s {
		if r >= 0x4E00 && r <= 0x9FA5 {
			return true
		}
	}
	return false
}
