package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 16 hex characters, enough for an ETag.
func (h Hash) Short() string {
	if len(h) <= 16 {
		return string(h)
	}
	return string(h[:16])
}

// ComputeContentHash hashes ordered groups of strings. Group and element
// boundaries are encoded so {"ab"} and {"a","b"} differ.
func ComputeContentHash(groups ...[]string) Hash {
	h := sha256.New()
	for _, group := range groups {
		for _, s := range group {
			h.Write([]byte(s))
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}
	return Hash(hex.EncodeToString(h.Sum(nil)))
}
