package serialization

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/pkg/errors"
)

// ComputeChecksum returns the hex SHA-256 of data.
func ComputeChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ValidateChecksum compares the checksum of data against stored.
// An empty stored checksum is accepted, so files written by other tools still load.
func ValidateChecksum(data []byte, stored string) error {
	if stored == "" {
		return nil
	}
	if got := ComputeChecksum(data); got != stored {
		return errors.Wrapf(ErrChecksumMismatch, "stored %s, computed %s", stored, got)
	}
	return nil
}
