package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a read-model of the platform's account record. Identity issuance
// lives in the auth service; this service only needs the role for the
// moderator/admin checks.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Role      string         `gorm:"size:20;default:'user'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
