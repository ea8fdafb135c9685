// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the canonical identity record. It carries no credential material
// itself; every way of logging in is a separate Authentication record.
type User struct {
	ID        uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Username  string    // Unique display/login name.
	Email     *string   // Optional contact email; unique when present, nil for federated accounts that did not share one.
	IsActive  bool      // Soft-delete flag. Deactivated users fail token validation on next use.
	CreatedAt time.Time // Timestamp of when this user account was created.
	UpdatedAt time.Time // Timestamp of the last modification to this user's data.
}

// Group is a named collection of users used for coarse authorization scoping.
type Group struct {
	ID        uuid.UUID
	Name      string // Unique group name.
	Members   []User // Many-to-many membership set.
	CreatedAt time.Time
}
