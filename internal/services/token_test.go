package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTokenLength(t *testing.T) {
	assert.Len(t, newToken(shareTokenLen), shareTokenLen)
	assert.Len(t, newToken(shortTokenLen), shortTokenLen)
	assert.Len(t, newToken(1), 1)
	assert.Len(t, newToken(33), 33)
}

func TestNewTokenURLSafe(t *testing.T) {
	for i := 0; i < 100; i++ {
		tok := newToken(shareTokenLen)
		for _, r := range tok {
			ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || r == '-' || r == '_'
			assert.True(t, ok, "token %q contains %q", tok, r)
		}
	}
}

func TestNewTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		tok := newToken(shareTokenLen)
		assert.False(t, seen[tok], "token collision: %s", tok)
		seen[tok] = true
	}
}
