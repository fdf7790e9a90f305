// Package fileid derives the stable document ID used across the store and index.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "doc:"

// FileDocID returns a stable document ID for the given absolute path.
// Same path always yields the same ID, so re-scanning a file updates the
// same document instead of creating a new one.
func FileDocID(absolutePath string) string {
	normalized := filepath.Clean(absolutePath)
	hash := sha256.Sum256([]byte(normalized))
	return prefix + hex.EncodeToString(hash[:])
}
