package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Fingerprint identifies one input file of a run.
type Fingerprint struct {
	Path   string
	SHA256 string
	Size   int64
}

// FingerprintFile hashes the file at path with SHA-256 and records its size.
func FingerprintFile(path string) (Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("open file for hash: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("hash %s: %w", path, err)
	}
	return Fingerprint{Path: path, SHA256: hex.EncodeToString(h.Sum(nil)), Size: n}, nil
}
