package dto

import (
	"encoding/json"
	"time"
)

type CreateShareRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Password    *string    `json:"password,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type CreateShareResponse struct {
	ShareURL            string     `json:"share_url"`
	FullURL             string     `json:"full_url"`
	ShortURL            string     `json:"short_url"`
	QRCodeURL           string     `json:"qr_code_url"`
	ExpiresAt           *time.Time `json:"expires_at,omitempty"`
	IsPasswordProtected bool       `json:"is_password_protected"`
}

// UpdateShareRequest carries a partial update. Nil means unchanged; an
// empty Password string removes password protection.
type UpdateShareRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Password    *string    `json:"password,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

type SharedScenario struct {
	ShareURL     string          `json:"share_url"`
	Title        *string         `json:"title,omitempty"`
	Description  *string         `json:"description,omitempty"`
	ScenarioData json.RawMessage `json:"scenario_data"`
	ViewCount    int             `json:"view_count"`
	ShareCount   int             `json:"share_count"`
	CreatedAt    time.Time       `json:"created_at"`
}

type SharedScenarioResponse struct {
	Scenario SharedScenario `json:"scenario"`
}

type RecordShareRequest struct {
	Platform string `json:"platform"`
}

// SetHiddenRequest is the moderator override for a link's hidden state:
// hide outright, or restore a link after review clears it.
type SetHiddenRequest struct {
	Hidden bool   `json:"hidden"`
	Reason string `json:"reason,omitempty"`
}
