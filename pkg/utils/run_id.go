package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateRunID creates a human-readable id for one rarity pass of a generation run.
// Format: {operation}-r{rarity}-{8charHexUUID}
//
// Example:
//   - Input: operation="generate", rarity=4
//   - Output: "generate-r4-a3f8e2b1"
func GenerateRunID(operation string, rarity int) string {
	return fmt.Sprintf("%s-r%d-%s", operation, rarity, generateShortUUID())
}

// WorkerID derives the id of one worker partition from its run id
func WorkerID(runID string, index int) string {
	return fmt.Sprintf("%s-w%d", runID, index)
}

// generateShortUUID creates an 8-character hex string from a UUID
func generateShortUUID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
