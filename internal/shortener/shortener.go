package shortener

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

// Alphabet is the 62-symbol code alphabet.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const (
	MinLength     = 6
	MaxLength     = 8
	DefaultLength = 6
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{6,8}$`)

// ValidCode reports whether s is a well-formed short code. Malformed codes
// can never match a stored record, so callers use this as a fast path before
// any store access.
func ValidCode(s string) bool {
	return codePattern.MatchString(s)
}

// Generate returns a random code of the given length, each character drawn
// uniformly and independently from Alphabet. It does not check for
// collisions; uniqueness is enforced by the store on insert.
func Generate(length int) (string, error) {
	if length < MinLength || length > MaxLength {
		return "", fmt.Errorf("code length %d out of range [%d, %d]", length, MinLength, MaxLength)
	}

	buf := make([]byte, length)
	max := big.NewInt(int64(len(Alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}
