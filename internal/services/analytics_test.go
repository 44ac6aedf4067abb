package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlatform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"twitter", "twitter"},
		{"Twitter", "twitter"},
		{"  WHATSAPP  ", "whatsapp"},
		{"copy_link", "copy_link"},
		{"myspace", "other"},
		{"", "other"},
		{"twitter; drop table", "other"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePlatform(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeReferrer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://news.ycombinator.com/item?id=1", "news.ycombinator.com"},
		{"http://Example.COM/path", "example.com"},
		{"", ""},
		{"   ", ""},
		{"not a url", "not a url"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeReferrer(tt.in), "input %q", tt.in)
	}
}
