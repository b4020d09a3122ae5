package fileutil

import (
	"crypto/md5" //nolint:gosec // content fingerprint, matches the dedup key
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// CopyFileVerified copies src into the datastore at dst and verifies the
// write by re-hashing the destination. The returned digest is the same MD5
// fingerprint used as the import deduplication key, so callers can check it
// against the hash computed before the copy. dst is removed on any mismatch.
func CopyFileVerified(src, dst string) (string, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}

	hasher := md5.New() //nolint:gosec
	written, err := io.Copy(io.MultiWriter(out, hasher), in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("copy into datastore: %w", err)
	}

	if written != srcInfo.Size() {
		_ = os.Remove(dst)
		return "", fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}

	digest := hex.EncodeToString(hasher.Sum(nil))
	stored, err := MD5Sum(dst)
	if err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("verify copied file: %w", err)
	}
	if stored != digest {
		_ = os.Remove(dst)
		return "", fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}

	return digest, nil
}
