package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"ＡＢＣ１２３", "abc123"},
		{"Xī'ān", "xi'an"},
		{"  浙江省\t杭州市  ", "浙江省 杭州市"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, Fold(tc.input))
		})
	}
}

func TestASCIIFold(t *testing.T) {
	assert.Equal(t, "zhe jiang sheng", ASCIIFold("浙江省"))
	assert.Equal(t, "urumqi", ASCIIFold("Ürümqi"))
}

func TestPinyin(t *testing.T) {
	assert.Equal(t, "zhejiangsheng", Pinyin("浙江省"))
	assert.Equal(t, "hangzhoushi", Pinyin("杭州市"))
	assert.Equal(t, "zjs", PinyinInitials("浙江省"))
	// ký tự không phải chữ Hán giữ nguyên, khoảng trắng bị bỏ
	assert.Equal(t, "a1qu", Pinyin("A1 区"))
}

func TestPrefixes(t *testing.T) {
	assert.Equal(t, []string{"余杭", "余杭区"}, Prefixes("余杭区"))
	assert.Nil(t, Prefixes("县"))
	assert.Nil(t, Prefixes(""))
}
