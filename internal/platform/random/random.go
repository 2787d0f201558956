// Package random generates unpredictable identifiers from crypto/rand.
package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// String returns n characters drawn uniformly from [A-Za-z0-9].
func String(n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("random string length must be >= 0, got %d", n)
	}

	limit := big.NewInt(int64(len(alphanumeric)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("reading random source: %w", err)
		}
		buf[i] = alphanumeric[idx.Int64()]
	}
	return string(buf), nil
}

// Source produces random strings of a fixed length.
type Source struct {
	Length int
}

// NextNumber returns a fresh random string of s.Length characters.
func (s Source) NextNumber() (string, error) {
	return String(s.Length)
}
