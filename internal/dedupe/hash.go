package dedupe

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// HashAlgo names a content hash algorithm.
type HashAlgo string

const (
	HashSHA256     HashAlgo = "sha256"
	HashSHA512     HashAlgo = "sha512"
	HashSHA3_256   HashAlgo = "sha3-256"
	HashBLAKE2b256 HashAlgo = "blake2b-256"
)

// DefaultHash is used when no algorithm is configured.
const DefaultHash = HashSHA256

var hashes = map[HashAlgo]func() hash.Hash{
	HashSHA256:   sha256.New,
	HashSHA512:   sha512.New,
	HashSHA3_256: sha3.New256,
	HashBLAKE2b256: func() hash.Hash {
		// Only fails for keys longer than 64 bytes.
		h, _ := blake2b.New256(nil)
		return h
	},
}

// SupportedHashAlgorithms returns the accepted algorithm names, sorted.
func SupportedHashAlgorithms() []string {
	names := make([]string, 0, len(hashes))
	for name := range hashes {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// HashAlgorithmFromString parses an algorithm name case-insensitively.
// The empty string selects DefaultHash.
func HashAlgorithmFromString(name string) (HashAlgo, error) {
	if name == "" {
		return DefaultHash, nil
	}
	algo := HashAlgo(strings.ToLower(name))
	if _, ok := hashes[algo]; !ok {
		return "", fmt.Errorf("unknown hash algorithm %q (supported: %s)",
			name, strings.Join(SupportedHashAlgorithms(), ", "))
	}
	return algo, nil
}

// New returns a fresh hash state. Unknown algorithms fall back to DefaultHash.
func (a HashAlgo) New() hash.Hash {
	if f, ok := hashes[a]; ok {
		return f()
	}
	return hashes[DefaultHash]()
}
