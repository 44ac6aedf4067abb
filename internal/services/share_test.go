package services

import (
	"strings"
	"testing"
	"time"

	"github.com/storyforge/sharing-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }

func TestEvaluateAccess(t *testing.T) {
	now := time.Now()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	protectedHash := strPtr(string(hash))

	past := now.Add(-time.Hour)

	tests := []struct {
		name     string
		link     models.ShareLink
		password string
		want     error
	}{
		{
			name: "open link",
			link: models.ShareLink{IsActive: true},
			want: nil,
		},
		{
			name: "hidden wins over everything",
			link: models.ShareLink{IsActive: false, IsHidden: true,
				PasswordHash: protectedHash, ExpiresAt: &past},
			password: "hunter2",
			want:     ErrShareHidden,
		},
		{
			name: "inactive",
			link: models.ShareLink{IsActive: false},
			want: ErrShareInactive,
		},
		{
			name: "expired",
			link: models.ShareLink{IsActive: true, ExpiresAt: &past},
			want: ErrShareExpired,
		},
		{
			name: "protected link without password",
			link: models.ShareLink{IsActive: true, PasswordHash: protectedHash},
			want: ErrPasswordRequired,
		},
		{
			name:     "protected link with wrong password",
			link:     models.ShareLink{IsActive: true, PasswordHash: protectedHash},
			password: "letmein",
			want:     ErrPasswordIncorrect,
		},
		{
			name:     "protected link with correct password",
			link:     models.ShareLink{IsActive: true, PasswordHash: protectedHash},
			password: "hunter2",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := evaluateAccess(&tt.link, tt.password, now)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestHiddenUpdates(t *testing.T) {
	now := time.Now()

	hide := hiddenUpdates(true, "Exceeded report threshold", now)
	assert.Equal(t, true, hide["is_hidden"])
	assert.Equal(t, now, hide["hidden_at"])
	assert.Equal(t, "Exceeded report threshold", hide["hidden_reason"])

	unhide := hiddenUpdates(false, "", now)
	assert.Equal(t, false, unhide["is_hidden"])
	assert.Nil(t, unhide["hidden_at"])
	assert.Nil(t, unhide["hidden_reason"])
}

func TestValidateDisplay(t *testing.T) {
	assert.NoError(t, validateDisplay(nil, nil))
	assert.NoError(t, validateDisplay(strPtr("My scenario"), strPtr("A short description")))
	assert.NoError(t, validateDisplay(strPtr(strings.Repeat("a", 100)), strPtr(strings.Repeat("b", 300))))

	err := validateDisplay(strPtr(strings.Repeat("a", 101)), nil)
	assert.Error(t, err)
	vErr, ok := err.(*ValidationError)
	assert.True(t, ok)
	assert.Equal(t, "title", vErr.Field)

	err = validateDisplay(nil, strPtr(strings.Repeat("b", 301)))
	assert.Error(t, err)
	vErr, ok = err.(*ValidationError)
	assert.True(t, ok)
	assert.Equal(t, "description", vErr.Field)
}
