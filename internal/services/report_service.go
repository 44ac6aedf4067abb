package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/storyforge/sharing-service/internal/dto"
	"github.com/storyforge/sharing-service/internal/models"
	"github.com/storyforge/sharing-service/internal/policy"
	"gorm.io/gorm"
)

// ReportService owns Report records: intake with duplicate suppression and
// the moderator-facing queries. Transitions go through ModerationService.
type ReportService struct {
	db         *gorm.DB
	moderation *ModerationService
}

func NewReportService(db *gorm.DB, moderation *ModerationService) *ReportService {
	return &ReportService{db: db, moderation: moderation}
}

// CreateResult is the intake outcome: either a fresh report or a pointer
// to the reporter's still-open one.
type CreateResult struct {
	Report           *models.Report
	IsDuplicate      bool
	ExistingReportID uuid.UUID
}

// ReporterIdentity is the deduplication key: the user ID when
// authenticated, otherwise the submitting IP.
func ReporterIdentity(reporterID *uuid.UUID, reporterIP string) string {
	if reporterID != nil {
		return reporterID.String()
	}
	return reporterIP
}

// Create validates and persists a report, suppressing duplicates against
// open reports from the same identity. The read check is the fast path;
// the partial unique index catches the concurrent case, surfacing as
// gorm.ErrDuplicatedKey and taking the same duplicate path.
func (s *ReportService) Create(req *dto.CreateReportRequest, reporterID *uuid.UUID, reporterIP string) (*CreateResult, error) {
	if err := validateReport(req); err != nil {
		return nil, err
	}

	identity := ReporterIdentity(reporterID, reporterIP)

	if existing, err := s.findOpen(req.TargetType, req.TargetID, identity); err != nil {
		return nil, err
	} else if existing != nil {
		return &CreateResult{IsDuplicate: true, ExistingReportID: existing.ID}, nil
	}

	severity := req.Severity
	if severity == "" {
		severity = models.SeverityMedium
	}

	report := &models.Report{
		ID:                  uuid.New(),
		TargetType:          req.TargetType,
		TargetID:            req.TargetID,
		ScenarioID:          req.ScenarioID,
		ShareURL:            req.ShareURL,
		ReporterID:          reporterID,
		ReporterIP:          reporterIP,
		ReporterIdentity:    identity,
		Reason:              req.Reason,
		Category:            req.Category,
		Severity:            severity,
		Description:         req.Description,
		Status:              models.ReportStatusPending,
		IsAutoModerated:     req.IsAutoModerated,
		AutoModerationScore: req.AutoModerationScore,
		CountedInTally:      req.ShareURL != nil,
	}
	report.PriorityScore = policy.Score(report)

	if err := s.db.Create(report).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a concurrent race to the same identity; the winner's
			// row is the original.
			existing, ferr := s.findOpen(req.TargetType, req.TargetID, identity)
			if ferr != nil {
				return nil, ferr
			}
			if existing != nil {
				return &CreateResult{IsDuplicate: true, ExistingReportID: existing.ID}, nil
			}
		}
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	if err := s.moderation.AfterReportCreated(report); err != nil {
		// The report itself is committed; the tally catches up on the
		// next accepted report.
		slog.Error("post-create moderation hook failed", "report_id", report.ID, "error", err)
	}

	return &CreateResult{Report: report}, nil
}

func (s *ReportService) findOpen(targetType, targetID, identity string) (*models.Report, error) {
	var existing models.Report
	err := s.db.
		Where("target_type = ? AND target_id = ? AND reporter_identity = ? AND status IN ?",
			targetType, targetID, identity, models.OpenReportStatuses).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check for open reports: %w", err)
	}
	return &existing, nil
}

func (s *ReportService) Get(reportID uuid.UUID) (*models.Report, error) {
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

// ListPending returns the moderation queue: open reports ordered by
// priority, oldest first within a priority.
func (s *ReportService) ListPending(page, limit int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	offset := (page - 1) * limit

	query := s.db.Model(&models.Report{}).Where("status IN ?", models.OpenReportStatuses)
	query.Count(&total)

	err := query.Order("priority_score DESC, created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&reports).Error

	return reports, total, err
}

// Stats aggregates report counts by status and severity.
func (s *ReportService) Stats() (*dto.ReportStats, error) {
	stats := &dto.ReportStats{
		ByStatus:   make(map[string]int64),
		BySeverity: make(map[string]int64),
	}

	var rows []struct {
		Key   string
		Count int64
	}

	if err := s.db.Model(&models.Report{}).
		Select("status as key, count(*) as count").
		Group("status").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate by status: %w", err)
	}
	for _, r := range rows {
		stats.ByStatus[r.Key] = r.Count
		if r.Key == models.ReportStatusPending || r.Key == models.ReportStatusUnderReview {
			stats.OpenTotal += r.Count
		}
	}

	rows = rows[:0]
	if err := s.db.Model(&models.Report{}).
		Select("severity as key, count(*) as count").
		Group("severity").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate by severity: %w", err)
	}
	for _, r := range rows {
		stats.BySeverity[r.Key] = r.Count
	}

	return stats, nil
}

func validateReport(req *dto.CreateReportRequest) error {
	if !models.ValidTargetTypes[req.TargetType] {
		return validationErr("target_type", "must be scenario or shared_scenario")
	}
	if req.TargetID == "" {
		return validationErr("target_id", "is required")
	}
	if req.ScenarioID == uuid.Nil {
		return validationErr("scenario_id", "is required")
	}
	if !models.ValidReasons[req.Reason] {
		return validationErr("reason", "unknown report reason")
	}
	if req.Severity != "" && !models.ValidSeverities[req.Severity] {
		return validationErr("severity", "unknown severity")
	}
	if len(req.Description) > 500 {
		return validationErr("description", "must be at most 500 characters")
	}
	if req.TargetType == models.TargetTypeSharedScenario {
		if req.ShareURL == nil || *req.ShareURL == "" {
			return validationErr("share_url", "is required for shared_scenario targets")
		}
	} else if req.ShareURL != nil {
		return validationErr("share_url", "is only valid for shared_scenario targets")
	}
	return nil
}
