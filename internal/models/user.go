package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a staff member. Authentication and session issuance live outside
// this service; here users are only looked up to attribute orders and
// reservations.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserSummary is the display shape of a user embedded in other resources.
type UserSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role string    `json:"role,omitempty"`
}

// Summary returns the embeddable display shape of the user.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Role: u.Role}
}
