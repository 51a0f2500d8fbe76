package entities

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ScanStatusPending    = "Pending"
	ScanStatusProcessed  = "Processed"
	ScanStatusFailed     = "Failed"
	ScanStatusConfirming = "Confirming"
	ScanStatusCompleted  = "Completed"
)

type ReceiptScan struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	ImageURL     string         `json:"image_url"`
	Status       string         `json:"status"` // Pending, Processed, Failed, Confirming, Completed
	OcrText      string         `json:"ocr_text,omitempty" gorm:"type:text"`
	Items        datatypes.JSON `json:"items,omitempty" gorm:"type:jsonb"`
	FailReason   string         `json:"fail_reason,omitempty"`
	CreatedCount int            `json:"created_count"`
	UpdatedCount int            `json:"updated_count"`

	Timestamp
}
