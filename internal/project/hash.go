package project

import "crypto/sha256"

// Digest is a fixed 256-bit content hash, compatible with source.File.Hash.
type Digest [sha256.Size]byte

// Combine folds extra digests into a content digest, in order. The build
// cache uses it to mix schema tags into file hashes.
func Combine(content Digest, extras ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range extras {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// HashBytes digests raw content.
func HashBytes(b []byte) Digest {
	return sha256.Sum256(b)
}
