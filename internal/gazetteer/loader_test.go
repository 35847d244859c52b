package gazetteer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPath_SplitDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "provinces.json", `[{"code":"33","name":"浙江省"}]`)
	writeFile(t, dir, "cities.json", `[{"code":"3301","name":"杭州市","provinceCode":"33"}]`)
	writeFile(t, dir, "areas.json", `[{"code":"330110","name":"余杭区","cityCode":"3301","provinceCode":"33"}]`)

	var buf bytes.Buffer
	require.NoError(t, EncodeXZ(&buf, []byte(`[{"code":"330110001","name":"五常街道","areaCode":"330110"}]`)))
	writeFile(t, dir, "streets.json.xz", buf.String())

	ds, err := LoadPath(dir, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, ds.Units, 4)
	assert.True(t, strings.HasPrefix(ds.Version, "blake3:"))

	street := ds.Units[3]
	assert.Equal(t, 4, street.Level)
	assert.Equal(t, "330110", street.ParentCode)
	assert.Equal(t, "五常街道", street.Name)

	province := ds.Units[0]
	assert.Equal(t, "", province.ParentCode)
	assert.Equal(t, "zhejiangsheng", province.Pinyin)
	assert.Equal(t, "zjs", province.PinyinInitials)
	assert.Equal(t, "zhe jiang sheng", province.NormalizedName)
	assert.Equal(t, []string{"浙江", "浙江省"}, province.Prefixes)

	assert.True(t, Validate(ds.Units).Passed)
}

func TestLoadPath_SplitDirMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "provinces.json", `[]`)

	_, err := LoadPath(dir, LoadOptions{})
	assert.Error(t, err)
}

func TestLoadPath_FlatYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "units.yaml", `
- code: "50"
  name: 重庆市
  level: 1
- code: "5001"
  name: 市辖区
  level: 2
  parent_code: "50"
`)

	ds, err := LoadPath(path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, ds.Units, 2)
	assert.Equal(t, "50", ds.Units[1].ParentCode)
}

func TestLoadPath_GBK(t *testing.T) {
	content := `[{"code":"36","name":"江西省","level":1,"parent_code":""}]`
	encoded, err := simplifiedchinese.GBK.NewEncoder().String(content)
	require.NoError(t, err)

	path := writeFile(t, t.TempDir(), "units.json", encoded)

	ds, err := LoadPath(path, LoadOptions{Encoding: EncodingGBK})
	require.NoError(t, err)
	require.Len(t, ds.Units, 1)
	assert.Equal(t, "江西省", ds.Units[0].Name)
}

func TestLoadPath_VersionIsContentDigest(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `[{"code":"36","name":"江西省","level":1}]`)
	b := writeFile(t, dir, "b.json", `[{"code":"36","name":"江西省","level":1}]`)
	c := writeFile(t, dir, "c.json", `[{"code":"33","name":"浙江省","level":1}]`)

	dsA, err := LoadPath(a, LoadOptions{})
	require.NoError(t, err)
	dsB, err := LoadPath(b, LoadOptions{})
	require.NoError(t, err)
	dsC, err := LoadPath(c, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, dsA.Version, dsB.Version)
	assert.NotEqual(t, dsA.Version, dsC.Version)
}

func TestLoadPath_UnsupportedEncoding(t *testing.T) {
	path := writeFile(t, t.TempDir(), "units.json", `[]`)
	_, err := LoadPath(path, LoadOptions{Encoding: "big5"})
	assert.Error(t, err)
}
