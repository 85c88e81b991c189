package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/postdost/postdost/internal/auth"
	"github.com/postdost/postdost/internal/model"
	"github.com/postdost/postdost/internal/repository"
)

// seedAccount describes one demo account to provision.
type seedAccount struct {
	Name  string
	Email string
}

var seedAccounts = []seedAccount{
	{Name: "Demo User", Email: "demo@example.com"},
	{Name: "Admin User", Email: "admin@postdost.com"},
}

type output struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Created bool   `json:"created"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		password    = flag.String("password", "password123", "Password for the seeded accounts")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.NewPostgres(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}

	results := make([]output, 0, len(seedAccounts))
	for _, account := range seedAccounts {
		created, userID, err := ensureUser(ctx, repo, account, hash)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		results = append(results, output{
			UserID:  userID,
			Email:   account.Email,
			Created: created,
		})
	}

	switch strings.ToLower(*format) {
	case "plain":
		for _, r := range results {
			state := "exists"
			if r.Created {
				state = "created"
			}
			fmt.Printf("%s\t%s\t%s\n", r.Email, r.UserID, state)
		}
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(results)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

// ensureUser creates the account unless one already exists for the email.
func ensureUser(ctx context.Context, repo *repository.Postgres, account seedAccount, hash string) (bool, string, error) {
	existing, err := repo.GetByEmail(ctx, account.Email)
	if err == nil {
		return false, existing.ID, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return false, "", fmt.Errorf("lookup %s: %w", account.Email, err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Name:         account.Name,
		Email:        account.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(ctx, user); err != nil {
		return false, "", fmt.Errorf("create %s: %w", account.Email, err)
	}
	return true, user.ID, nil
}
