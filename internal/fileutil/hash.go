package fileutil

import (
	"crypto/md5" //nolint:gosec // content fingerprint for dedup, not security
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// MD5Sum streams the file at path through MD5 and returns the lowercase hex
// digest. Used as the import-time deduplication key.
func MD5Sum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := md5.New() //nolint:gosec
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
