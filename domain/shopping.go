package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	MessageSuccessAddShoppingItem    = "shopping list item added successfully"
	MessageSuccessGetShoppingList    = "shopping list retrieved successfully"
	MessageSuccessToggleShoppingItem = "shopping list item updated successfully"
	MessageSuccessDeleteShoppingItem = "shopping list item deleted successfully"
	MessageSuccessClearShoppingList  = "shopping list cleared successfully"
	MessageSuccessPurchaseShopping   = "checked items moved to inventory"

	MessageFailedAddShoppingItem    = "failed to add shopping list item"
	MessageFailedGetShoppingList    = "failed to retrieve shopping list"
	MessageFailedToggleShoppingItem = "failed to update shopping list item"
	MessageFailedDeleteShoppingItem = "failed to delete shopping list item"
	MessageFailedClearShoppingList  = "failed to clear shopping list"
	MessageFailedPurchaseShopping   = "failed to move checked items to inventory"

	ErrShoppingItemNotFound = errors.New("shopping list item not found")
)

type (
	AddShoppingItemRequest struct {
		Name     string          `json:"name" validate:"required"`
		Quantity int             `json:"quantity" validate:"required,min=1"`
		Price    decimal.Decimal `json:"price"`
		Category string          `json:"category"`
	}

	ShoppingItemResponse struct {
		ID        string          `json:"id"`
		Name      string          `json:"name"`
		Quantity  int             `json:"quantity"`
		Price     decimal.Decimal `json:"price"`
		Category  string          `json:"category"`
		ImageURL  string          `json:"image_url,omitempty"`
		IsChecked bool            `json:"is_checked"`
		CreatedAt time.Time       `json:"created_at"`
	}

	PurchaseShoppingResponse struct {
		Purchased int `json:"purchased"`
		ReconcileResponse
	}
)
