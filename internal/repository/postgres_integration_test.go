//go:build integration

package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/postdost/postdost/internal/testutil"
)

func newPostgresTestEnv(t *testing.T) (context.Context, *Postgres) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := NewPostgres(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetUsersSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset users schema: %v", err)
	}

	return ctx, repo
}

func TestIntegrationPostgres_CreateAndGet(t *testing.T) {
	ctx, repo := newPostgresTestEnv(t)

	email := testutil.UniqueEmail("create")
	user := testutil.NewTestUser(t, email)

	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	retrieved, err := repo.GetByEmail(ctx, email)
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if retrieved.ID != user.ID {
		t.Errorf("ID mismatch: got %q, want %q", retrieved.ID, user.ID)
	}
	if retrieved.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	byID, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if byID.Email != strings.ToLower(email) {
		t.Errorf("Email mismatch: got %q, want %q", byID.Email, strings.ToLower(email))
	}
}

func TestIntegrationPostgres_CaseInsensitiveLookup(t *testing.T) {
	ctx, repo := newPostgresTestEnv(t)

	email := testutil.UniqueEmail("case")
	user := testutil.NewTestUser(t, email)

	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	retrieved, err := repo.GetByEmail(ctx, strings.ToUpper(email))
	if err != nil {
		t.Fatalf("GetByEmail with upper-cased address failed: %v", err)
	}
	if retrieved.ID != user.ID {
		t.Errorf("ID mismatch: got %q, want %q", retrieved.ID, user.ID)
	}
}

func TestIntegrationPostgres_DuplicateEmail(t *testing.T) {
	ctx, repo := newPostgresTestEnv(t)

	email := testutil.UniqueEmail("dup")
	first := testutil.NewTestUser(t, email)
	second := testutil.NewTestUser(t, strings.ToUpper(email))
	second.ID = testutil.UniqueID("user")

	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create (first) failed: %v", err)
	}

	err := repo.Create(ctx, second)
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got: %v", err)
	}
}

func TestIntegrationPostgres_GetMissing(t *testing.T) {
	ctx, repo := newPostgresTestEnv(t)

	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByEmail: expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "missing-id"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID: expected ErrUserNotFound, got %v", err)
	}
}
