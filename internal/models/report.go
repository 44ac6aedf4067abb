package models

import (
	"time"

	"github.com/google/uuid"
)

// Report statuses. Pending and under_review are the open statuses; the
// remaining three are terminal.
const (
	ReportStatusPending     = "pending"
	ReportStatusUnderReview = "under_review"
	ReportStatusResolved    = "resolved"
	ReportStatusDismissed   = "dismissed"
	ReportStatusEscalated   = "escalated"
)

// OpenReportStatuses are the statuses counted by the duplicate check.
var OpenReportStatuses = []string{ReportStatusPending, ReportStatusUnderReview}

// Report target types.
const (
	TargetTypeScenario       = "scenario"
	TargetTypeSharedScenario = "shared_scenario"
)

var ValidTargetTypes = map[string]bool{
	TargetTypeScenario:       true,
	TargetTypeSharedScenario: true,
}

// Report reasons (closed set).
const (
	ReasonInappropriateContent = "inappropriate_content"
	ReasonViolence             = "violence"
	ReasonHateSpeech           = "hate_speech"
	ReasonHarassment           = "harassment"
	ReasonSpam                 = "spam"
	ReasonMisinformation       = "misinformation"
	ReasonCopyright            = "copyright"
	ReasonAdultContent         = "adult_content"
	ReasonSelfHarm             = "self_harm"
	ReasonOther                = "other"
)

var ValidReasons = map[string]bool{
	ReasonInappropriateContent: true,
	ReasonViolence:             true,
	ReasonHateSpeech:           true,
	ReasonHarassment:           true,
	ReasonSpam:                 true,
	ReasonMisinformation:       true,
	ReasonCopyright:            true,
	ReasonAdultContent:         true,
	ReasonSelfHarm:             true,
	ReasonOther:                true,
}

// Report severities.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

var ValidSeverities = map[string]bool{
	SeverityLow:      true,
	SeverityMedium:   true,
	SeverityHigh:     true,
	SeverityCritical: true,
}

// Resolution actions.
const (
	ActionNoAction       = "no_action"
	ActionWarningIssued  = "warning_issued"
	ActionContentHidden  = "content_hidden"
	ActionContentRemoved = "content_removed"
	ActionUserBanned     = "user_banned"
)

var ValidActions = map[string]bool{
	ActionNoAction:       true,
	ActionWarningIssued:  true,
	ActionContentHidden:  true,
	ActionContentRemoved: true,
	ActionUserBanned:     true,
}

// SuppressiveActions are resolution actions that hide the referenced share.
var SuppressiveActions = map[string]bool{
	ActionContentHidden:  true,
	ActionContentRemoved: true,
	ActionUserBanned:     true,
}

// Report is a single abuse report against a scenario or a shared scenario.
// Rows are never hard-deleted; terminal statuses preserve the audit trail.
type Report struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TargetType string    `gorm:"size:20;not null;index:idx_reports_target" json:"target_type"`
	TargetID   string    `gorm:"size:64;not null;index:idx_reports_target" json:"target_id"`
	ScenarioID uuid.UUID `gorm:"type:uuid;not null;index" json:"scenario_id"`
	ShareURL   *string   `gorm:"size:32;index" json:"share_url,omitempty"`

	// ReporterIdentity is ReporterID when authenticated, else ReporterIP.
	// It backs the partial unique index that enforces one open report per
	// (target, identity) pair.
	ReporterID       *uuid.UUID `gorm:"type:uuid;index" json:"-"`
	ReporterIP       string     `gorm:"size:64;not null" json:"-"`
	ReporterIdentity string     `gorm:"size:64;not null" json:"-"`

	Reason      string `gorm:"size:40;not null" json:"reason"`
	Category    string `gorm:"size:40" json:"category,omitempty"`
	Severity    string `gorm:"size:10;not null;default:'medium'" json:"severity"`
	Description string `gorm:"size:500" json:"description,omitempty"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	// PriorityScore is computed once at intake and never recomputed.
	PriorityScore int `gorm:"not null;index" json:"priority_score"`

	IsAutoModerated     bool    `gorm:"default:false" json:"is_auto_moderated"`
	AutoModerationScore float64 `gorm:"default:0" json:"auto_moderation_score,omitempty"`

	ActionTaken  *string    `gorm:"size:30" json:"action_taken,omitempty"`
	ActionReason *string    `gorm:"size:500" json:"action_reason,omitempty"`
	Resolution   *string    `gorm:"size:500" json:"resolution,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	ReviewedBy   *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	ReviewNotes  *string    `gorm:"size:1000" json:"review_notes,omitempty"`

	IsDuplicate      bool       `gorm:"default:false" json:"is_duplicate"`
	OriginalReportID *uuid.UUID `gorm:"type:uuid" json:"original_report_id,omitempty"`

	// CountedInTally marks reports included in the referenced share's
	// report_count; cleared exactly once on dismissal.
	CountedInTally bool `gorm:"default:false" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOpen reports whether the report can still transition.
func (r *Report) IsOpen() bool {
	return r.Status == ReportStatusPending || r.Status == ReportStatusUnderReview
}
