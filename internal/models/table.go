package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TableStatus represents the occupancy state of a physical table.
type TableStatus string

const (
	TableAvailable TableStatus = "Available"
	TableOccupied  TableStatus = "Occupied"
	TableReserved  TableStatus = "Reserved"
)

// Reservation is the detail block attached to a reserved table. It is set and
// cleared only together with the table's client and person references.
type Reservation struct {
	BookedBy string     `json:"bookedBy"`
	Contact  string     `json:"contact"`
	Guests   int        `json:"guests"`
	Date     *time.Time `json:"date,omitempty"`
	Notes    string     `json:"notes,omitempty"`
}

// Table is a physical table with its occupancy state machine. Reservation,
// Client and Person are populated if and only if Status is Reserved.
type Table struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Zone         string         `json:"zone,omitempty"`
	Capacity     int            `json:"capacity"`
	Status       TableStatus    `json:"status"`
	Reservation  *Reservation   `json:"reservation,omitempty"`
	Client       *ClientSummary `json:"client,omitempty"`
	Person       *UserSummary   `json:"person,omitempty"`
	CurrentOrder *uuid.UUID     `json:"currentOrder,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// TableSummary is the display shape of a table embedded in other resources.
type TableSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Zone string    `json:"zone,omitempty"`
}

// Summary returns the embeddable display shape of the table.
func (t *Table) Summary() *TableSummary {
	return &TableSummary{ID: t.ID, Name: t.Name, Zone: t.Zone}
}

// CreateTableRequest is the payload of POST /tables.
type CreateTableRequest struct {
	Name     string `json:"name"`
	Zone     string `json:"zone,omitempty"`
	Capacity int    `json:"capacity"`
}

// Validate checks the create table request.
func (req *CreateTableRequest) Validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return ValidationError("table name is required")
	}
	if req.Capacity < 1 {
		return ValidationError("capacity must be at least 1")
	}
	return nil
}

// ReserveTableRequest is the payload of POST /tables/{id}/reserve.
type ReserveTableRequest struct {
	BookedBy string     `json:"bookedBy"`
	Contact  string     `json:"contact"`
	Guests   int        `json:"guests"`
	Date     *time.Time `json:"date,omitempty"`
	Notes    string     `json:"notes,omitempty"`
	UserID   *uuid.UUID `json:"userId,omitempty"`
}

// Validate checks the reserve table request.
func (req *ReserveTableRequest) Validate() error {
	if strings.TrimSpace(req.BookedBy) == "" {
		return ValidationError("bookedBy is required")
	}
	if strings.TrimSpace(req.Contact) == "" {
		return ValidationError("contact is required")
	}
	if req.Guests < 1 {
		return ValidationError("guests must be at least 1")
	}
	return nil
}
