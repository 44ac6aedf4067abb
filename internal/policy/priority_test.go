package policy

import (
	"testing"

	"github.com/storyforge/sharing-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func report(severity, reason string) *models.Report {
	return &models.Report{Severity: severity, Reason: reason}
}

func TestScoreSeverityBase(t *testing.T) {
	assert.Equal(t, 100, Score(report(models.SeverityCritical, models.ReasonSpam)))
	assert.Equal(t, 75, Score(report(models.SeverityHigh, models.ReasonSpam)))
	assert.Equal(t, 50, Score(report(models.SeverityMedium, models.ReasonSpam)))
	assert.Equal(t, 25, Score(report(models.SeverityLow, models.ReasonSpam)))
}

func TestScoreSeverityMonotonic(t *testing.T) {
	for _, reason := range []string{models.ReasonSpam, models.ReasonViolence, models.ReasonOther} {
		critical := Score(report(models.SeverityCritical, reason))
		high := Score(report(models.SeverityHigh, reason))
		medium := Score(report(models.SeverityMedium, reason))
		low := Score(report(models.SeverityLow, reason))

		assert.Greater(t, critical, high, "reason %s", reason)
		assert.Greater(t, high, medium, "reason %s", reason)
		assert.Greater(t, medium, low, "reason %s", reason)
	}
}

func TestScoreUrgentReasonBonus(t *testing.T) {
	for _, reason := range []string{models.ReasonViolence, models.ReasonHateSpeech, models.ReasonHarassment} {
		assert.Equal(t, 75, Score(report(models.SeverityMedium, reason)), "reason %s", reason)
	}

	// Non-urgent reasons get no bonus.
	assert.Equal(t, 50, Score(report(models.SeverityMedium, models.ReasonMisinformation)))
	assert.Equal(t, 50, Score(report(models.SeverityMedium, models.ReasonCopyright)))
}

func TestScoreAutoModerationBonus(t *testing.T) {
	r := report(models.SeverityHigh, models.ReasonSpam)
	r.IsAutoModerated = true
	r.AutoModerationScore = 0.9
	assert.Equal(t, 105, Score(r))

	// At the threshold there is no bonus; it must be strictly above.
	r.AutoModerationScore = 0.7
	assert.Equal(t, 75, Score(r))

	// High confidence without the auto-moderation flag does not count.
	r.IsAutoModerated = false
	r.AutoModerationScore = 0.99
	assert.Equal(t, 75, Score(r))
}

func TestScoreBonusesStack(t *testing.T) {
	r := report(models.SeverityCritical, models.ReasonHateSpeech)
	r.IsAutoModerated = true
	r.AutoModerationScore = 0.95
	assert.Equal(t, 155, Score(r))
}

func TestScoreUnknownSeverityFallsBackToMedium(t *testing.T) {
	assert.Equal(t, 50, Score(report("", models.ReasonSpam)))
}
