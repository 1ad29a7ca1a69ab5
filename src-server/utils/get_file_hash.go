package utils

import (
	"crypto/sha256"
	"fmt"
	"io"
)

// Hash an uploaded file's content, used to derive a stable object name so
// re-uploading the same banner doesn't pile up copies in the bucket.
func GetFileHash(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("GetFileHash: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
