package services

import (
	"crypto/rand"
	"encoding/base64"
)

const (
	shareTokenLen = 16
	shortTokenLen = 8
)

// newToken returns a URL-safe random token of n characters. Collisions are
// handled by the caller via the unique constraint, not here.
func newToken(n int) string {
	// 3 random bytes yield 4 base64 characters.
	buf := make([]byte, (n*3+3)/4)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:n]
}
