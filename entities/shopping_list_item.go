package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ShoppingListItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;index" json:"user_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Category  string          `json:"category"`
	ImageURL  *string         `json:"image_url,omitempty"`
	IsChecked bool            `json:"is_checked"`

	Timestamp
}
