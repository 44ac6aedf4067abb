package dto

import "github.com/google/uuid"

type CreateReportRequest struct {
	TargetType          string    `json:"target_type"`
	TargetID            string    `json:"target_id"`
	ScenarioID          uuid.UUID `json:"scenario_id"`
	ShareURL            *string   `json:"share_url,omitempty"`
	Reason              string    `json:"reason"`
	Category            string    `json:"category,omitempty"`
	Severity            string    `json:"severity,omitempty"`
	Description         string    `json:"description,omitempty"`
	IsAutoModerated     bool      `json:"is_auto_moderated,omitempty"`
	AutoModerationScore float64   `json:"auto_moderation_score,omitempty"`
}

type CreateReportResponse struct {
	ReportID      uuid.UUID `json:"report_id"`
	Status        string    `json:"status"`
	PriorityScore int       `json:"priority_score"`
}

type DuplicateReportResponse struct {
	IsDuplicate      bool      `json:"is_duplicate"`
	ExistingReportID uuid.UUID `json:"existing_report_id"`
}

type ReviewReportRequest struct {
	Notes string `json:"notes,omitempty"`
}

type ResolveReportRequest struct {
	Action     string `json:"action"`
	Reason     string `json:"reason,omitempty"`
	Resolution string `json:"resolution,omitempty"`
}

type DismissReportRequest struct {
	Reason string `json:"reason,omitempty"`
}

type EscalateReportRequest struct {
	Reason string `json:"reason,omitempty"`
}

type BulkResolveRequest struct {
	ReportIDs []uuid.UUID `json:"report_ids"`
	Action    string      `json:"action"`
	Reason    string      `json:"reason,omitempty"`
}

type BulkItemError struct {
	ReportID uuid.UUID `json:"report_id"`
	Message  string    `json:"message"`
}

type BulkResolveSummary struct {
	Requested int `json:"requested"`
	Resolved  int `json:"resolved"`
	Failed    int `json:"failed"`
}

type BulkResolveResponse struct {
	Resolved []uuid.UUID        `json:"resolved"`
	Errors   []BulkItemError    `json:"errors"`
	Summary  BulkResolveSummary `json:"summary"`
}

type ReportStats struct {
	ByStatus   map[string]int64 `json:"by_status"`
	BySeverity map[string]int64 `json:"by_severity"`
	OpenTotal  int64            `json:"open_total"`
}
