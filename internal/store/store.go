// SPDX-License-Identifier: MIT

// Package store defines the user persistence model and its repository
// contract. Implementations live in subpackages (currently sqlite).
package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no row matches the requested user.
	ErrNotFound = errors.New("store: user not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("store: duplicate username")
)

// User is a stored account record.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository is the storage contract for users.
type Repository interface {
	// Create inserts a new user and returns it with ID and CreatedAt set.
	Create(ctx context.Context, username, email string) (*User, error)
	// GetByID returns the user with the given ID or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*User, error)
	// Update replaces username and email of an existing user.
	Update(ctx context.Context, id int64, username, email string) (*User, error)
	// Delete removes a user or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error
	// List returns all users ordered by ID.
	List(ctx context.Context) ([]User, error)
	// CreatePair inserts two users in one transaction: both or neither.
	CreatePair(ctx context.Context, a, b UserInput) (*User, *User, error)
	// Count returns the number of stored users.
	Count(ctx context.Context) (int, error)
}

// UserInput carries the writable fields of a user.
type UserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
