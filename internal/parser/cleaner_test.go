package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleaner_Clean(t *testing.T) {
	c := NewCleaner(testReference(t), true)

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "labels and punctuation",
			input:    "收货人:张三，联系电话:13800000000，详细地址:浙江省杭州市",
			expected: "张三 13800000000 浙江省杭州市",
		},
		{
			name:     "control characters",
			input:    "浙江省\r\n杭州市\t西湖区\n",
			expected: "浙江省 杭州市 西湖区",
		},
		{
			name:     "longest label first",
			input:    "联系人手机号码13800000000",
			expected: "13800000000",
		},
		{
			name:     "full width digits",
			input:    "电话：１３８００００００００",
			expected: "13800000000",
		},
		{
			name:     "collapse spaces",
			input:    "北京市   朝阳区",
			expected: "北京市 朝阳区",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, c.Clean(tc.input))
		})
	}
}

func TestCleaner_ExtraKeywords(t *testing.T) {
	c := NewCleaner(testReference(t), true)

	assert.Equal(t, "张三 浙江省", c.Clean("寄件方张三 浙江省", "寄件方"))
	// không ảnh hưởng tới các lần gọi sau
	assert.Equal(t, "寄件方张三 浙江省", c.Clean("寄件方张三 浙江省"))
}

func TestCleaner_Idempotent(t *testing.T) {
	c := NewCleaner(testReference(t), true)

	inputs := []string{
		"收货人:张三，联系电话:13800000000，详细地址:浙江省杭州市",
		"地收址",
		"收收货人人",
		"【北京市】（朝阳区）；建外街道。。。",
		"ＡＢＣ１２３￥５",
		"  \t\r\n  ",
	}
	for _, in := range inputs {
		once := c.Clean(in)
		assert.Equal(t, once, c.Clean(once), "input %q", in)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"王晓光", "重庆市", "垫江县"}, Tokenize(" 王晓光 重庆市  垫江县 "))
	assert.Empty(t, Tokenize("   "))
}
