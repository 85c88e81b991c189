package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/postdost/postdost/internal/model"
)

// seedPasswordHash is the bcrypt hash (cost 12) of "password123",
// used for the demo accounts written on first run.
const seedPasswordHash = "$2b$12$7CNdrN2S8WXx4ITP9XJPveoD.8DkQlBxbYjvxk552nNgwXg8rCJGC"

// File is a UserRepository backed by a single JSON array on disk.
//
// Every read reloads the file and every write rewrites it. A mutex
// serializes the duplicate-check-then-append sequence so concurrent
// signups within this process cannot produce duplicate emails; writes
// go through a temp file and rename so a crash never leaves a
// half-written store. Multi-process deployments should use Postgres.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile creates a file-backed repository at path, initializing the
// file with two seed accounts if it does not exist yet.
func NewFile(path string) (*File, error) {
	f := &File{path: path}

	if err := f.initialize(); err != nil {
		return nil, err
	}

	return f, nil
}

// initialize creates the data directory and seeds the store on first run.
func (f *File) initialize() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	if _, err := os.Stat(f.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat users file: %w", err)
	}

	now := time.Now().UTC()
	seed := []*model.User{
		{
			ID:           "1",
			Name:         "Demo User",
			Email:        "demo@example.com",
			PasswordHash: seedPasswordHash,
			CreatedAt:    now,
		},
		{
			ID:           "2",
			Name:         "Admin User",
			Email:        "admin@postdost.com",
			PasswordHash: seedPasswordHash,
			CreatedAt:    now,
		},
	}

	return f.save(seed)
}

// load reads and parses the full user list.
func (f *File) load() ([]*model.User, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}

	var users []*model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}

	return users, nil
}

// save rewrites the full user list atomically via temp file + rename.
func (f *File) save(users []*model.User) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "users-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace users file: %w", err)
	}

	return nil
}

// Create appends a new user after an atomic duplicate check.
func (f *File) Create(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	users, err := f.load()
	if err != nil {
		return err
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrEmailExists
		}
	}

	users = append(users, user)
	return f.save(users)
}

// GetByEmail looks up a user by email, case-insensitively.
func (f *File) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	users, err := f.load()
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}

	return nil, ErrUserNotFound
}

// GetByID looks up a user by ID.
func (f *File) GetByID(ctx context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	users, err := f.load()
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}

	return nil, ErrUserNotFound
}

// Ping checks that the users file is readable.
func (f *File) Ping(ctx context.Context) error {
	if _, err := os.Stat(f.path); err != nil {
		return fmt.Errorf("users file unavailable: %w", err)
	}
	return nil
}

// Close is a no-op for the file store.
func (f *File) Close() {}
