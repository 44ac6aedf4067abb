package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Scenario is a read-model of the generation pipeline's output table.
// This service never writes it; it is read once per share creation to
// mint the immutable snapshot.
type Scenario struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Topic     string         `gorm:"size:255;not null" json:"topic"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	Tags      datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"tags"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
