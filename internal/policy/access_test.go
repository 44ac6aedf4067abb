package policy

import (
	"testing"
	"time"

	"github.com/storyforge/sharing-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func link(active, hidden bool, expiresAt *time.Time) *models.ShareLink {
	return &models.ShareLink{
		ShareURL:  "tok_test",
		IsActive:  active,
		IsHidden:  hidden,
		ExpiresAt: expiresAt,
	}
}

func TestEvaluatePrecedence(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		in   *models.ShareLink
		want Decision
	}{
		{"active link is accessible", link(true, false, nil), Accessible},
		{"active with future expiry is accessible", link(true, false, &future), Accessible},
		{"hidden wins over everything", link(true, true, &past), Hidden},
		{"hidden even when inactive", link(false, true, nil), Hidden},
		{"inactive wins over expiry", link(false, false, &past), Inactive},
		{"expired when past expiry", link(true, false, &past), Expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.in, now))
		})
	}
}

func TestEvaluateExpiryBoundary(t *testing.T) {
	now := time.Now()

	// expiresAt == now is already expired; only strictly future keeps access.
	assert.Equal(t, Expired, Evaluate(link(true, false, &now), now))

	oneHour := now.Add(time.Hour)
	assert.Equal(t, Accessible, Evaluate(link(true, false, &oneHour), now))
	assert.Equal(t, Expired, Evaluate(link(true, false, &oneHour), now.Add(2*time.Hour)))
}

func TestIsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.False(t, IsExpired(link(true, false, nil), now))
	assert.False(t, IsExpired(link(true, false, &future), now))
	assert.True(t, IsExpired(link(true, false, &past), now))
	assert.True(t, IsExpired(link(true, false, &now), now))
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "accessible", Accessible.String())
	assert.Equal(t, "hidden", Hidden.String())
	assert.Equal(t, "inactive", Inactive.String())
	assert.Equal(t, "expired", Expired.String())
}
