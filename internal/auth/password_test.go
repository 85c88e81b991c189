package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_NotPlaintext(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if hash == "secret1" {
		t.Error("hash equals the plaintext password")
	}

	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected bcrypt hash prefix, got %s", hash[:4])
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if !VerifyPassword("correct-horse", hash) {
		t.Error("expected matching password to verify")
	}

	if VerifyPassword("wrong-horse", hash) {
		t.Error("expected mismatched password to fail")
	}

	if VerifyPassword("correct-horse", "not-a-hash") {
		t.Error("expected garbage hash to fail")
	}
}

func TestVerifyPassword_SeedHash(t *testing.T) {
	// Hash shipped with the seed accounts ('password123', cost 12).
	seedHash := "$2b$12$7CNdrN2S8WXx4ITP9XJPveoD.8DkQlBxbYjvxk552nNgwXg8rCJGC"

	if !VerifyPassword("password123", seedHash) {
		t.Error("expected seed hash to verify against its known password")
	}

	if VerifyPassword("password124", seedHash) {
		t.Error("expected wrong password to fail against seed hash")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if h1 == h2 {
		t.Error("expected different hashes for the same password (random salt)")
	}
}
