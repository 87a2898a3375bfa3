package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is the hex-encoded sha256 of a payload.
//
// Digests let a mismatch report identify both payloads without printing
// them, which matters for binary entries.
type Digest string

// ComputeDigest returns the Digest of data.
func ComputeDigest(data []byte) Digest {
	sum := sha256.Sum256(data)
	return Digest(hex.EncodeToString(sum[:]))
}

// Short returns the first 12 hex characters.
func (d Digest) Short() string {
	if len(d) <= 12 {
		return string(d)
	}
	return string(d[:12])
}

// String returns the string representation of the Digest.
func (d Digest) String() string {
	return string(d)
}
