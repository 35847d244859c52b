package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateIDs(t *testing.T) {
	id := GenerateUUID()
	assert.True(t, IsUUID(id))
	assert.NotEqual(t, id, GenerateUUID())

	short := GenerateShortID()
	assert.Len(t, short, 8)
	assert.False(t, IsUUID(short))
}
