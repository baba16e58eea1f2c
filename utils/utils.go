package utils

import (
	"fmt"
	"github.com/twmb/murmur3"
)

// Fingerprint hashes a word list in order. Two lists share a fingerprint
// only when they hold the same words in the same order.
func Fingerprint(words []string) uint64 {
	hash := murmur3.New64()
	for _, w := range words {
		_, err := hash.Write([]byte(w))
		if err != nil {
			panic(err)
		}
		// newline can not appear inside a trimmed word
		_, _ = hash.Write([]byte{'\n'})
	}
	return hash.Sum64()
}

func FingerprintHex(words []string) string {
	return fmt.Sprintf("%016x", Fingerprint(words))
}

func HashString(s string) uint64 {
	hash := murmur3.New64()
	_, err := hash.Write([]byte(s))
	if err != nil {
		panic(err)
	}
	return hash.Sum64()
}
