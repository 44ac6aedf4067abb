package policy

import "github.com/storyforge/sharing-service/internal/models"

// autoModBonusThreshold is the auto-moderation confidence above which the
// scorer adds the automation bonus.
const autoModBonusThreshold = 0.7

var severityBase = map[string]int{
	models.SeverityCritical: 100,
	models.SeverityHigh:     75,
	models.SeverityMedium:   50,
	models.SeverityLow:      25,
}

var urgentReasons = map[string]bool{
	models.ReasonViolence:   true,
	models.ReasonHateSpeech: true,
	models.ReasonHarassment: true,
}

// Score computes the queue priority of a report from its intake attributes.
// It is deterministic and evaluated exactly once, at creation.
func Score(r *models.Report) int {
	base, ok := severityBase[r.Severity]
	if !ok {
		base = severityBase[models.SeverityMedium]
	}

	score := base
	if urgentReasons[r.Reason] {
		score += 25
	}
	if r.IsAutoModerated && r.AutoModerationScore > autoModBonusThreshold {
		score += 30
	}
	return score
}
