package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/storyforge/sharing-service/internal/dto"
	"github.com/storyforge/sharing-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporterIdentity(t *testing.T) {
	userID := uuid.New()

	assert.Equal(t, userID.String(), ReporterIdentity(&userID, "203.0.113.7"))
	assert.Equal(t, "203.0.113.7", ReporterIdentity(nil, "203.0.113.7"))
}

func validReportRequest() *dto.CreateReportRequest {
	shareURL := "tok_abcdef123456"
	return &dto.CreateReportRequest{
		TargetType: models.TargetTypeSharedScenario,
		TargetID:   shareURL,
		ScenarioID: uuid.New(),
		ShareURL:   &shareURL,
		Reason:     models.ReasonSpam,
	}
}

func TestValidateReport(t *testing.T) {
	assert.NoError(t, validateReport(validReportRequest()))

	t.Run("unknown target type", func(t *testing.T) {
		req := validReportRequest()
		req.TargetType = "comment"
		assertValidationError(t, validateReport(req), "target_type")
	})

	t.Run("missing target id", func(t *testing.T) {
		req := validReportRequest()
		req.TargetID = ""
		assertValidationError(t, validateReport(req), "target_id")
	})

	t.Run("missing scenario id", func(t *testing.T) {
		req := validReportRequest()
		req.ScenarioID = uuid.Nil
		assertValidationError(t, validateReport(req), "scenario_id")
	})

	t.Run("unknown reason", func(t *testing.T) {
		req := validReportRequest()
		req.Reason = "did_not_like_it"
		assertValidationError(t, validateReport(req), "reason")
	})

	t.Run("unknown severity", func(t *testing.T) {
		req := validReportRequest()
		req.Severity = "catastrophic"
		assertValidationError(t, validateReport(req), "severity")
	})

	t.Run("empty severity allowed", func(t *testing.T) {
		req := validReportRequest()
		req.Severity = ""
		assert.NoError(t, validateReport(req))
	})

	t.Run("oversized description", func(t *testing.T) {
		req := validReportRequest()
		req.Description = string(make([]byte, 501))
		assertValidationError(t, validateReport(req), "description")
	})

	t.Run("shared_scenario requires share_url", func(t *testing.T) {
		req := validReportRequest()
		req.ShareURL = nil
		assertValidationError(t, validateReport(req), "share_url")
	})

	t.Run("scenario target rejects share_url", func(t *testing.T) {
		req := validReportRequest()
		req.TargetType = models.TargetTypeScenario
		assertValidationError(t, validateReport(req), "share_url")
	})

	t.Run("scenario target without share_url", func(t *testing.T) {
		req := validReportRequest()
		req.TargetType = models.TargetTypeScenario
		req.ShareURL = nil
		assert.NoError(t, validateReport(req))
	})
}

func assertValidationError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	vErr, ok := err.(*ValidationError)
	require.True(t, ok, "expected *ValidationError, got %T", err)
	assert.Equal(t, field, vErr.Field)
}
