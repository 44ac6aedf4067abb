package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/storyforge/sharing-service/internal/dto"
	"github.com/storyforge/sharing-service/internal/models"
	"gorm.io/gorm"
)

// AutoHideReason is the stored hiddenReason when the report threshold trips.
const AutoHideReason = "Exceeded report threshold"

// legalTransitions is the report state machine. Review is optional:
// pending can resolve or dismiss directly. The three terminal states accept
// nothing.
var legalTransitions = map[string]map[string]bool{
	models.ReportStatusPending: {
		models.ReportStatusUnderReview: true,
		models.ReportStatusResolved:    true,
		models.ReportStatusDismissed:   true,
	},
	models.ReportStatusUnderReview: {
		models.ReportStatusResolved:  true,
		models.ReportStatusDismissed: true,
		models.ReportStatusEscalated: true,
	},
}

// CanTransition reports whether a status change is legal.
func CanTransition(from, to string) bool {
	return legalTransitions[from][to]
}

// ModerationService orchestrates report transitions and their side effects
// on share links: the auto-hide threshold and resolution-driven hiding.
type ModerationService struct {
	db        *gorm.DB
	shares    *ShareService
	threshold int
}

func NewModerationService(db *gorm.DB, shares *ShareService, autoHideThreshold int) *ModerationService {
	return &ModerationService{db: db, shares: shares, threshold: autoHideThreshold}
}

// AfterReportCreated increments the referenced share's reportCount and
// trips the auto-hide once the threshold is reached. The increment and the
// hide are each single statements; re-running either is safe, so the
// cross-store effect stays idempotent without a distributed transaction.
func (s *ModerationService) AfterReportCreated(report *models.Report) error {
	if report.ShareURL == nil {
		return nil
	}
	shareURL := *report.ShareURL

	var newCount int
	err := s.db.Raw(
		`UPDATE share_links SET report_count = report_count + 1 WHERE share_url = ? RETURNING report_count`,
		shareURL,
	).Scan(&newCount).Error
	if err != nil {
		return fmt.Errorf("failed to increment report count: %w", err)
	}

	if newCount >= s.threshold {
		// Guarded so only the threshold-crossing report performs the hide.
		result := s.db.Model(&models.ShareLink{}).
			Where("share_url = ? AND is_hidden = false", shareURL).
			Updates(hiddenUpdates(true, AutoHideReason, time.Now()))
		if result.Error != nil {
			return fmt.Errorf("failed to auto-hide share: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			slog.Info("share auto-hidden",
				"share_url", shareURL, "report_count", newCount, "threshold", s.threshold)
		}
	}
	return nil
}

// Review moves a pending report to under_review.
func (s *ModerationService) Review(reportID, reviewerID uuid.UUID, notes string) (*models.Report, error) {
	report, err := s.get(reportID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(report.Status, models.ReportStatusUnderReview) {
		return nil, &InvalidTransitionError{ReportID: reportID.String(), From: report.Status, To: models.ReportStatusUnderReview}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      models.ReportStatusUnderReview,
		"reviewed_by": reviewerID,
		"reviewed_at": now,
	}
	if notes != "" {
		updates["review_notes"] = notes
	}

	// Status guard in the WHERE clause closes the read-then-write window.
	result := s.db.Model(&models.Report{}).
		Where("id = ? AND status = ?", reportID, models.ReportStatusPending).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to review report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, &InvalidTransitionError{ReportID: reportID.String(), From: report.Status, To: models.ReportStatusUnderReview}
	}
	return s.get(reportID)
}

// Resolve closes a report with an action. Suppressive actions also hide
// the referenced share, regardless of its report count.
func (s *ModerationService) Resolve(reportID, reviewerID uuid.UUID, req *dto.ResolveReportRequest) (*models.Report, error) {
	if !models.ValidActions[req.Action] {
		return nil, validationErr("action", "unknown resolution action")
	}

	report, err := s.get(reportID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(report.Status, models.ReportStatusResolved) {
		return nil, &InvalidTransitionError{ReportID: reportID.String(), From: report.Status, To: models.ReportStatusResolved}
	}

	now := time.Now()
	result := s.db.Model(&models.Report{}).
		Where("id = ? AND status IN ?", reportID, models.OpenReportStatuses).
		Updates(resolutionUpdates(req, reviewerID, now, report.ReviewedAt == nil))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to resolve report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, &InvalidTransitionError{ReportID: reportID.String(), From: report.Status, To: models.ReportStatusResolved}
	}

	if models.SuppressiveActions[req.Action] && report.ShareURL != nil {
		reason := req.Reason
		if reason == "" {
			reason = "Hidden by moderator action"
		}
		if err := s.shares.SetHidden(*report.ShareURL, true, reason); err != nil && !errors.Is(err, ErrShareNotFound) {
			slog.Error("failed to hide share on resolution",
				"share_url", *report.ShareURL, "report_id", reportID, "error", err)
		}
	}

	return s.get(reportID)
}

// resolutionUpdates builds the column set for a resolve transition. Reason
// and resolution are omitted when empty so the nullable columns stay NULL
// instead of holding empty strings, same as review notes.
func resolutionUpdates(req *dto.ResolveReportRequest, reviewerID uuid.UUID, now time.Time, firstReview bool) map[string]interface{} {
	updates := map[string]interface{}{
		"status":       models.ReportStatusResolved,
		"action_taken": req.Action,
		"resolved_at":  now,
		"reviewed_by":  reviewerID,
	}
	if req.Reason != "" {
		updates["action_reason"] = req.Reason
	}
	if req.Resolution != "" {
		updates["resolution"] = req.Resolution
	}
	if firstReview {
		updates["reviewed_at"] = now
	}
	return updates
}

// Dismiss closes a report as invalid. Dismissed reports leave the
// auto-hide tally: the share's reportCount is decremented exactly once,
// keyed off the counted_in_tally flag cleared in the same guarded update.
func (s *ModerationService) Dismiss(reportID, reviewerID uuid.UUID, reason string) (*models.Report, error) {
	report, err := s.get(reportID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(report.Status, models.ReportStatusDismissed) {
		return nil, &InvalidTransitionError{ReportID: reportID.String(), From: report.Status, To: models.ReportStatusDismissed}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":           models.ReportStatusDismissed,
		"resolved_at":      now,
		"reviewed_by":      reviewerID,
		"counted_in_tally": false,
	}
	if reason != "" {
		updates["action_reason"] = reason
	}
	if report.ReviewedAt == nil {
		updates["reviewed_at"] = now
	}

	result := s.db.Model(&models.Report{}).
		Where("id = ? AND status IN ?", reportID, models.OpenReportStatuses).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to dismiss report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, &InvalidTransitionError{ReportID: reportID.String(), From: report.Status, To: models.ReportStatusDismissed}
	}

	if report.CountedInTally && report.ShareURL != nil {
		err := s.db.Exec(
			`UPDATE share_links SET report_count = GREATEST(report_count - 1, 0) WHERE share_url = ?`,
			*report.ShareURL,
		).Error
		if err != nil {
			slog.Error("failed to decrement report count on dismissal",
				"share_url", *report.ShareURL, "report_id", reportID, "error", err)
		}
	}

	return s.get(reportID)
}

// Escalate hands an under-review report to a higher tier. Terminal for
// this report; a new one can still be opened for the same target.
func (s *ModerationService) Escalate(reportID, reviewerID uuid.UUID, reason string) (*models.Report, error) {
	report, err := s.get(reportID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(report.Status, models.ReportStatusEscalated) {
		return nil, &InvalidTransitionError{ReportID: reportID.String(), From: report.Status, To: models.ReportStatusEscalated}
	}

	result := s.db.Model(&models.Report{}).
		Where("id = ? AND status = ?", reportID, models.ReportStatusUnderReview).
		Updates(map[string]interface{}{
			"status":        models.ReportStatusEscalated,
			"action_reason": reason,
			"reviewed_by":   reviewerID,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to escalate report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, &InvalidTransitionError{ReportID: reportID.String(), From: report.Status, To: models.ReportStatusEscalated}
	}
	return s.get(reportID)
}

// BulkResolve applies the same resolution to each report independently.
// One bad ID does not abort the batch; every outcome is reported.
func (s *ModerationService) BulkResolve(reviewerID uuid.UUID, req *dto.BulkResolveRequest) *dto.BulkResolveResponse {
	resp := &dto.BulkResolveResponse{
		Resolved: make([]uuid.UUID, 0, len(req.ReportIDs)),
		Errors:   make([]dto.BulkItemError, 0),
	}

	for _, id := range req.ReportIDs {
		_, err := s.Resolve(id, reviewerID, &dto.ResolveReportRequest{
			Action: req.Action,
			Reason: req.Reason,
		})
		if err != nil {
			resp.Errors = append(resp.Errors, dto.BulkItemError{ReportID: id, Message: err.Error()})
			continue
		}
		resp.Resolved = append(resp.Resolved, id)
	}

	resp.Summary = dto.BulkResolveSummary{
		Requested: len(req.ReportIDs),
		Resolved:  len(resp.Resolved),
		Failed:    len(resp.Errors),
	}
	return resp
}

func (s *ModerationService) get(reportID uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := s.db.First(&report, "id = ?", reportID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report: %w", err)
	}
	return &report, nil
}
