package domain

import (
	"errors"
	"strings"
)

const (
	RoleUser = "user"
)

var (
	MesaageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrParseUUID          = errors.New("failed to parse UUID")
	ErrUserNotAllowed     = errors.New("user not allowed")
	ErrTokenNotFound      = errors.New("failed to token not found")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrUnauthorizedAccess = errors.New("unauthorized access to resource")
)

// Categories is the closed taxonomy the extraction collaborator must pick from.
var Categories = []string{
	"Fruit", "Vegetable", "Dairy", "Meat", "Seafood", "Condiment",
	"Beverage", "Snack", "Grain", "Frozen", "Bakery", "Misc",
}

const DefaultCategory = "Misc"

// CanonicalCategory maps a free-form category onto the taxonomy, matching
// case-insensitively. Unknown or empty values fall back to DefaultCategory.
func CanonicalCategory(category string) string {
	for _, c := range Categories {
		if strings.EqualFold(c, strings.TrimSpace(category)) {
			return c
		}
	}
	return DefaultCategory
}
