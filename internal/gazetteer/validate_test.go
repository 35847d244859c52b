package gazetteer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zh-address-parser/app/models"
)

func TestValidate(t *testing.T) {
	assert.True(t, Validate(testUnits()).Passed)

	empty := Validate(nil)
	assert.False(t, empty.Passed)
	assert.Len(t, empty.Warnings, 1)

	broken := append(testUnits(),
		unit(1, "33", "浙江省", ""),
		unit(3, "999901", "孤岛区", "9999"),
		unit(5, "1", "未知", "x"),
		unit(2, "3399", "", "33"),
		models.AdminUnit{Code: "3302", Name: "宁波市", Level: 2},
	)
	v := Validate(broken)
	assert.False(t, v.Passed)
	assert.Len(t, v.Warnings, 5)
}
