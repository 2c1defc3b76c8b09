package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a client's booking log entry.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "Confirmed"
)

// Client is a customer record resolved by phone number. It is created lazily
// the first time a phone number is seen and holds rolling aggregates over the
// client's orders and bookings.
type Client struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email,omitempty"`
	TotalSpent float64   `json:"totalSpent"`
	LastVisit  time.Time `json:"lastVisit"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ClientSummary is the display shape of a client embedded in other resources.
type ClientSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
}

// Summary returns the embeddable display shape of the client.
func (c *Client) Summary() *ClientSummary {
	return &ClientSummary{ID: c.ID, Name: c.Name, Phone: c.Phone}
}

// Booking is one entry in a client's append-only booking log.
type Booking struct {
	ID        uuid.UUID     `json:"id"`
	ClientID  uuid.UUID     `json:"clientId"`
	TableID   uuid.UUID     `json:"table"`
	Date      *time.Time    `json:"date,omitempty"`
	Guests    int           `json:"guests"`
	Status    BookingStatus `json:"status"`
	Notes     string        `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ClientIdentifier carries either an existing client id or a phone/name pair
// used by the directory to find or create the client.
type ClientIdentifier struct {
	ID    *uuid.UUID
	Phone string
	Name  string
}

// Validate checks that the identifier can be resolved at all.
func (ci ClientIdentifier) Validate() error {
	if ci.ID == nil && strings.TrimSpace(ci.Phone) == "" {
		return ValidationError("client id or phone is required")
	}
	return nil
}
