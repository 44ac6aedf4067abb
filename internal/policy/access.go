// Package policy holds the pure decision functions for share access and
// report prioritization. Nothing here touches the database or the clock,
// so every rule is testable with plain values.
package policy

import (
	"time"

	"github.com/storyforge/sharing-service/internal/models"
)

// Decision is the outcome of evaluating a share link's access policy.
type Decision int

const (
	Accessible Decision = iota
	Hidden
	Inactive
	Expired
)

func (d Decision) String() string {
	switch d {
	case Accessible:
		return "accessible"
	case Hidden:
		return "hidden"
	case Inactive:
		return "inactive"
	case Expired:
		return "expired"
	}
	return "unknown"
}

// Evaluate applies the access policy in precedence order: hidden and
// inactive take priority over expiry so the caller can return distinct
// error codes.
func Evaluate(link *models.ShareLink, now time.Time) Decision {
	if link.IsHidden {
		return Hidden
	}
	if !link.IsActive {
		return Inactive
	}
	if IsExpired(link, now) {
		return Expired
	}
	return Accessible
}

// IsExpired reports whether the link is past its expiry. A link with
// expiresAt == now is already expired; only a strictly future expiry keeps
// it reachable.
func IsExpired(link *models.ShareLink, now time.Time) bool {
	return link.ExpiresAt != nil && !link.ExpiresAt.After(now)
}
