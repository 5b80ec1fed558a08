package shazar

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// digestFile returns the hex SHA-256 of the file at path and its size,
// reading chunk bytes at a time.
func digestFile(path string, chunk int) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()
	return digest(f, chunk)
}

func digest(r io.Reader, chunk int) (string, int64, error) {
	h := sha256.New()
	// Hide any WriterTo so the copy goes through buf.
	n, err := io.CopyBuffer(h, struct{ io.Reader }{r}, make([]byte, chunk))
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
