package parser

import (
	"regexp"
)

var (
	// Các dạng số điện thoại có dấu phân cách được nối lại thành một dãy số
	phoneSeparated = []*regexp.Regexp{
		regexp.MustCompile(`(\d{3})-(\d{4})-(\d{4})`),
		regexp.MustCompile(`(\d{3}) (\d{4}) (\d{4})`),
		regexp.MustCompile(`(\d{4}) (\d{4}) (\d{4})`),
	}

	rePhone      = regexp.MustCompile(`(\d{7,12})|(\d{3,4}-\d{6,8})|(86-[1][0-9]{10})|(86[1][0-9]{10})|([1][0-9]{10})`)
	rePostalCode = regexp.MustCompile(`\d{6}`)
)

// ExtractPhone tách số điện thoại đầu tiên khỏi văn bản.
// Bước nối số luôn được áp dụng kể cả khi không tìm thấy số điện thoại.
func ExtractPhone(text string) (string, string) {
	for _, re := range phoneSeparated {
		text = re.ReplaceAllString(text, "${1}${2}${3}")
	}

	loc := rePhone.FindStringIndex(text)
	if loc == nil {
		return text, ""
	}
	phone := text[loc[0]:loc[1]]
	return splice(text, loc[0], loc[1]), phone
}

// ExtractPostalCode tách 6 chữ số liên tiếp đầu tiên khỏi văn bản.
// Dãy số dài hơn cũng bị cắt lấy 6 chữ số đầu, nên phải tách phone trước.
func ExtractPostalCode(text string) (string, string) {
	loc := rePostalCode.FindStringIndex(text)
	if loc == nil {
		return text, ""
	}
	return splice(text, loc[0], loc[1]), text[loc[0]:loc[1]]
}

// splice thay đoạn [start, end) bằng một khoảng trắng
func splice(text string, start, end int) string {
	return text[:start] + " " + text[end:]
}
