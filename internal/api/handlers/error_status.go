package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"zesto-backend/domain"
)

// errorStatuses is matched in order. A commit failure may wrap a not-found
// error and must still answer 500.
var errorStatuses = []struct {
	err    error
	status int
}{
	{domain.ErrInventoryCommitFailed, fiber.StatusInternalServerError},
	{domain.ErrParseUUID, fiber.StatusBadRequest},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest},
	{domain.ErrInvalidPrice, fiber.StatusBadRequest},
	{domain.ErrInvalidImageFormat, fiber.StatusBadRequest},
	{domain.ErrUnauthorizedAccess, fiber.StatusForbidden},
	{domain.ErrInventoryItemNotFound, fiber.StatusNotFound},
	{domain.ErrReceiptScanNotFound, fiber.StatusNotFound},
	{domain.ErrShoppingItemNotFound, fiber.StatusNotFound},
	{domain.ErrScanAlreadyCompleted, fiber.StatusConflict},
	{domain.ErrScanNotProcessed, fiber.StatusConflict},
	{domain.ErrNoItemsRecognized, fiber.StatusUnprocessableEntity},
	{domain.ErrExtractionFailed, fiber.StatusUnprocessableEntity},
}

func errorStatus(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return fiber.StatusInternalServerError
}
