package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	MessageSuccessGetInventory       = "inventory retrieved successfully"
	MessageSuccessGetInventoryItem   = "inventory item retrieved successfully"
	MessageSuccessUpdateInventory    = "inventory item updated successfully"
	MessageSuccessDeleteInventory    = "inventory item deleted successfully"
	MessageSuccessConsumeInventory   = "inventory item consumed successfully"
	MessageSuccessReconcileInventory = "items added to inventory successfully"
	MessageSuccessGetSummary         = "inventory summary retrieved successfully"

	MessageFailedGetInventory       = "failed to retrieve inventory"
	MessageFailedGetInventoryItem   = "failed to retrieve inventory item"
	MessageFailedUpdateInventory    = "failed to update inventory item"
	MessageFailedDeleteInventory    = "failed to delete inventory item"
	MessageFailedConsumeInventory   = "failed to consume inventory item"
	MessageFailedReconcileInventory = "failed to add items to inventory"
	MessageFailedGetSummary         = "failed to retrieve inventory summary"

	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrInvalidPrice          = errors.New("price must not be negative")
	ErrInventoryCommitFailed = errors.New("failed to commit inventory changes")
)

type (
	// ScannedItem is one line extracted from a receipt. Price is the line
	// total, not the unit price.
	ScannedItem struct {
		Name     string          `json:"name" validate:"required"`
		Quantity int             `json:"quantity" validate:"min=1"`
		Price    decimal.Decimal `json:"price"`
		Category string          `json:"category"`
	}

	InventoryItemResponse struct {
		ID        string          `json:"id"`
		Name      string          `json:"name"`
		Quantity  int             `json:"quantity"`
		Price     decimal.Decimal `json:"price"`
		Category  string          `json:"category"`
		ImageURL  string          `json:"image_url,omitempty"`
		CreatedAt time.Time       `json:"created_at"`
		UpdatedAt time.Time       `json:"updated_at"`
	}

	UpdateInventoryItemRequest struct {
		Name     string           `json:"name" validate:"omitempty"`
		Quantity *int             `json:"quantity" validate:"omitempty,min=0"`
		Price    *decimal.Decimal `json:"price"`
		Category string           `json:"category" validate:"omitempty"`
	}

	ConsumeInventoryItemRequest struct {
		Amount int `json:"amount" validate:"required,min=1"`
	}

	ConsumeInventoryItemResponse struct {
		ID        string `json:"id"`
		Quantity  int    `json:"quantity"`
		IsRemoved bool   `json:"is_removed"`
	}

	ReconcileItemsRequest struct {
		Items []ScannedItem `json:"items" validate:"dive"`
	}

	ReconcileResponse struct {
		Updated int `json:"updated"`
		Created int `json:"created"`
	}

	InventorySummaryResponse struct {
		TotalItems int             `json:"total_items"`
		TotalUnits int             `json:"total_units"`
		TotalValue decimal.Decimal `json:"total_value"`
		Categories map[string]int  `json:"categories"`
	}
)
