package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRunID_Format(t *testing.T) {
	id := GenerateRunID("generate", 4)

	assert.Regexp(t, regexp.MustCompile(`^generate-r4-[0-9a-f]{8}$`), id)
}

func TestGenerateRunID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateRunID("generate", 1)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestWorkerID(t *testing.T) {
	assert.Equal(t, "generate-r2-deadbeef-w3", WorkerID("generate-r2-deadbeef", 3))
}
