package checksum

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Payload returns the hex xxhash digest of an in-memory payload, used to
// journal the integrity of downloaded spectra.
func Payload(data []byte) string {
	digest := xxhash.New()
	digest.Write(data)

	return hex.EncodeToString(digest.Sum(nil))
}

// File returns the hex xxhash digest of a file on disk.
func File(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to copy file content to hasher for file %s: %w", filePath, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
