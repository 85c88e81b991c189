package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/postdost/postdost/internal/model"
)

// Memory is an in-memory UserRepository for tests.
type Memory struct {
	mu    sync.Mutex
	users []*model.User
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{}
}

// Create appends a new user after a duplicate check.
func (m *Memory) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrEmailExists
		}
	}

	clone := *user
	m.users = append(m.users, &clone)
	return nil
}

// GetByEmail looks up a user by email, case-insensitively.
func (m *Memory) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}

	return nil, ErrUserNotFound
}

// GetByID looks up a user by ID.
func (m *Memory) GetByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}

	return nil, ErrUserNotFound
}

// Ping always succeeds for the in-memory store.
func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() {}

// Len returns the number of stored users. Test helper.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}
