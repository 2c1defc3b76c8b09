package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MenuItem is an item on the menu. It is the authoritative source of the
// item's current price; orders never trust a client-supplied price.
type MenuItem struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Category    string    `json:"category,omitempty"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MenuItemRequest is the payload of POST /menu and PUT /menu/{id}.
type MenuItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}

// Validate checks the menu item request.
func (req *MenuItemRequest) Validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return ValidationError("menu item name is required")
	}
	if req.Price <= 0 {
		return ValidationError("price must be greater than zero")
	}
	return nil
}
