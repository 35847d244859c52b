package parser

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goldenCase một case trong testdata/golden
type goldenCase struct {
	Raw               string      `json:"raw"`
	ExtractName       bool        `json:"extract_name"`
	ExtractPhone      bool        `json:"extract_phone"`
	ExtractPostalCode bool        `json:"extract_postal_code"`
	Expect            ParseResult `json:"expect"`
}

// TestGolden chạy tất cả golden case trên bộ dữ liệu fixture
func TestGolden(t *testing.T) {
	goldenDir := filepath.Join("testdata", "golden")
	files, err := os.ReadDir(goldenDir)
	require.NoError(t, err, "Không thể đọc thư mục golden")

	ap := newTestParser(t, newFixtureLookup())

	for _, file := range files {
		if filepath.Ext(file.Name()) != ".json" {
			continue
		}
		path := filepath.Join(goldenDir, file.Name())

		t.Run(file.Name(), func(t *testing.T) {
			data, err := os.ReadFile(path)
			require.NoError(t, err)

			var gc goldenCase
			require.NoError(t, json.Unmarshal(data, &gc), "Không thể parse JSON từ %s", path)

			result, err := ap.Parse(context.Background(), gc.Raw, gc.ExtractName, gc.ExtractPhone, gc.ExtractPostalCode)
			require.NoError(t, err)
			assert.Equal(t, gc.Expect, result)
		})
	}
}
