package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultReference(t *testing.T) {
	ref := testReference(t)

	assert.Contains(t, ref.Keywords, "联系人手机号码")
	assert.Contains(t, ref.Municipalities, "重庆市")
	assert.Contains(t, ref.CityPlaceholders, "市辖区")
	assert.Contains(t, ref.CompoundSurnames, "欧阳")

	surnames := ref.surnameSet()
	assert.Contains(t, surnames, '王')
	assert.NotContains(t, surnames, ' ')
	assert.NotContains(t, surnames, '\n')
}

func TestLoadReference_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.yaml")
	require.NoError(t, os.WriteFile(path, []byte("municipalities:\n  - 上海市\n"), 0o644))

	ref, err := LoadReference(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"上海市"}, ref.Municipalities)
	// trường không khai báo giữ giá trị mặc định
	assert.NotEmpty(t, ref.Keywords)
	assert.NotEmpty(t, ref.Honorifics)
}

func TestLoadReference_MissingFile(t *testing.T) {
	_, err := LoadReference(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
