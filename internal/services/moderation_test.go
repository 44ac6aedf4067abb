package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storyforge/sharing-service/internal/dto"
	"github.com/storyforge/sharing-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	// Review step is optional: pending may resolve or dismiss directly.
	assert.True(t, CanTransition(models.ReportStatusPending, models.ReportStatusUnderReview))
	assert.True(t, CanTransition(models.ReportStatusPending, models.ReportStatusResolved))
	assert.True(t, CanTransition(models.ReportStatusPending, models.ReportStatusDismissed))

	assert.True(t, CanTransition(models.ReportStatusUnderReview, models.ReportStatusResolved))
	assert.True(t, CanTransition(models.ReportStatusUnderReview, models.ReportStatusDismissed))
	assert.True(t, CanTransition(models.ReportStatusUnderReview, models.ReportStatusEscalated))

	// Escalation requires a review first.
	assert.False(t, CanTransition(models.ReportStatusPending, models.ReportStatusEscalated))

	// No re-review.
	assert.False(t, CanTransition(models.ReportStatusUnderReview, models.ReportStatusUnderReview))
}

func TestTerminalStatesAcceptNothing(t *testing.T) {
	terminal := []string{
		models.ReportStatusResolved,
		models.ReportStatusDismissed,
		models.ReportStatusEscalated,
	}
	all := []string{
		models.ReportStatusPending,
		models.ReportStatusUnderReview,
		models.ReportStatusResolved,
		models.ReportStatusDismissed,
		models.ReportStatusEscalated,
	}

	for _, from := range terminal {
		for _, to := range all {
			assert.False(t, CanTransition(from, to), "%s -> %s must be illegal", from, to)
		}
	}
}

func TestResolutionUpdates(t *testing.T) {
	reviewerID := uuid.New()
	now := time.Now()

	t.Run("empty reason and resolution stay NULL", func(t *testing.T) {
		updates := resolutionUpdates(&dto.ResolveReportRequest{
			Action: models.ActionNoAction,
		}, reviewerID, now, false)

		assert.Equal(t, models.ReportStatusResolved, updates["status"])
		assert.Equal(t, models.ActionNoAction, updates["action_taken"])
		assert.Equal(t, reviewerID, updates["reviewed_by"])
		assert.NotContains(t, updates, "action_reason")
		assert.NotContains(t, updates, "resolution")
		assert.NotContains(t, updates, "reviewed_at")
	})

	t.Run("provided fields are written", func(t *testing.T) {
		updates := resolutionUpdates(&dto.ResolveReportRequest{
			Action:     models.ActionContentHidden,
			Reason:     "spam campaign",
			Resolution: "content hidden pending appeal",
		}, reviewerID, now, true)

		assert.Equal(t, "spam campaign", updates["action_reason"])
		assert.Equal(t, "content hidden pending appeal", updates["resolution"])
		assert.Equal(t, now, updates["reviewed_at"])
	})
}

func TestSuppressiveActions(t *testing.T) {
	assert.True(t, models.SuppressiveActions[models.ActionContentHidden])
	assert.True(t, models.SuppressiveActions[models.ActionContentRemoved])
	assert.True(t, models.SuppressiveActions[models.ActionUserBanned])

	assert.False(t, models.SuppressiveActions[models.ActionNoAction])
	assert.False(t, models.SuppressiveActions[models.ActionWarningIssued])
}
