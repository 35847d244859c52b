package gazetteer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zh-address-parser/internal/parser"
)

func TestCandidateLimit(t *testing.T) {
	assert.Equal(t, int64(50), candidateLimit(0))
	assert.Equal(t, int64(50), candidateLimit(-3))
	assert.Equal(t, int64(2), candidateLimit(1))
	assert.Equal(t, int64(2), candidateLimit(2))
	assert.Equal(t, int64(200), candidateLimit(200))
}

func TestFilterLevelParent(t *testing.T) {
	assert.Equal(t, "level = 1", FilterLevelParent(parser.LevelProvince, ""))
	assert.Equal(t, `level = 3 AND parent_code = "3301"`, FilterLevelParent(parser.LevelDistrict, "3301"))
}
