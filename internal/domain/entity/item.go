// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Item is a protected resource: a container of secret service entries shared
// between users. Only principals in AllowedUsers may read, modify or delete
// it; the creator is granted access atomically with creation so an item is
// never persisted without at least one allowed principal.
type Item struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Tags         string
	CategoryID   *uuid.UUID // Optional category used to filter listings.
	AllowedUsers []User     // The allowed-principals set. Membership grants full access.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Service is a single secret entry under an Item (a host, an account, a
// connection string). It carries its own allowed-principals set with the same
// all-or-nothing access contract as Item.
type Service struct {
	ID           uuid.UUID
	ItemID       uuid.UUID // The item this service entry belongs to.
	Name         string
	URL          string
	Username     string
	Secret       string
	AllowedUsers []User
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Category is a label for grouping items in listings. It plays no part in
// authorization.
type Category struct {
	ID        uuid.UUID
	Name      string // Unique category name.
	CreatedAt time.Time
}
