package user

import (
	"time"

	"github.com/gofrs/uuid"

	"github.com/zonemart/zonemart/internal/zone"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Address is a delivery address owned by a user. Latitude/Longitude are
// optional; when present they must be within [-90,90] and [-180,180].
type Address struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Street    string    `json:"street"`
	Area      string    `json:"area"`
	Building  string    `json:"building,omitempty"`
	Floor     string    `json:"floor,omitempty"`
	Apartment string    `json:"apartment,omitempty"`
	Zone      zone.Zone `json:"zone"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Phone     string    `json:"phone"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
