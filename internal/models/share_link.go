package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ShareLink is a token-addressed public view of a generated scenario.
// The snapshot is copied at share time and never re-synced from the source.
type ShareLink struct {
	ShareURL   string    `gorm:"size:32;primaryKey" json:"share_url"`
	ShortURL   *string   `gorm:"size:16;uniqueIndex" json:"short_url,omitempty"`
	ScenarioID uuid.UUID `gorm:"type:uuid;not null;index" json:"scenario_id"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`

	Snapshot datatypes.JSON `gorm:"type:jsonb;not null" json:"snapshot"`

	// Access policy
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	IsHidden     bool       `gorm:"default:false" json:"is_hidden"`
	PasswordHash *string    `gorm:"size:255" json:"-"`
	ExpiresAt    *time.Time `gorm:"index" json:"expires_at,omitempty"`

	// Display
	Title        *string `gorm:"size:100" json:"title,omitempty"`
	Description  *string `gorm:"size:300" json:"description,omitempty"`
	PreviewImage *string `gorm:"size:2048" json:"preview_image,omitempty"`

	// Counters (bumped with atomic server-side increments only)
	ViewCount        int               `gorm:"default:0" json:"view_count"`
	ShareCount       int               `gorm:"default:0" json:"share_count"`
	SharesByPlatform datatypes.JSONMap `gorm:"type:jsonb;default:'{}'" json:"shares_by_platform"`
	ViewsByDevice    datatypes.JSONMap `gorm:"type:jsonb;default:'{}'" json:"views_by_device"`
	ViewsByCountry   datatypes.JSONMap `gorm:"type:jsonb;default:'{}'" json:"views_by_country"`
	Referrers        datatypes.JSONMap `gorm:"type:jsonb;default:'{}'" json:"referrers"`

	FirstAccessAt *time.Time `json:"first_access_at,omitempty"`
	LastAccessAt  *time.Time `json:"last_access_at,omitempty"`

	// Moderation. ReportCount is the materialized count of non-dismissed
	// reports referencing this link.
	ReportCount  int        `gorm:"default:0" json:"report_count"`
	HiddenAt     *time.Time `json:"hidden_at,omitempty"`
	HiddenReason *string    `gorm:"size:255" json:"hidden_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShareSnapshot is the immutable copy of scenario content embedded in a
// ShareLink at creation time.
type ShareSnapshot struct {
	Topic       string    `json:"topic"`
	Body        string    `json:"body"`
	Tags        []string  `json:"tags,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}
