package model

import (
	"time"

	"gorm.io/datatypes"
)

// Dataset is one uploaded telemetry file reduced to its summary. Rows are
// never updated after creation; the per-user history is capped, so old
// rows are deleted when new uploads arrive.
type Dataset struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	FileName  string         `gorm:"size:255;not null" json:"file_name"`
	Summary   datatypes.JSON `gorm:"not null" json:"summary"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}
