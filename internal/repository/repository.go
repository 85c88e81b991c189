// Package repository provides user record persistence.
//
// Three implementations share one contract: a JSON file store for demo
// deployments, Postgres for production, and an in-memory store for tests.
// Callers depend only on the UserRepository interface.
package repository

import (
	"context"
	"errors"

	"github.com/postdost/postdost/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

// UserRepository is the persistence contract for user records.
// Email lookups are case-insensitive; implementations must treat the
// duplicate check and insert as a single atomic operation.
type UserRepository interface {
	// Create appends a new user. Returns ErrEmailExists if a record
	// with the same email (case-insensitive) already exists.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail looks a user up by email, case-insensitively.
	// Returns ErrUserNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID looks a user up by ID. Returns ErrUserNotFound if absent.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close()
}
