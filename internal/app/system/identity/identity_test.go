package identity_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/dalemusser/fixit/internal/app/system/identity"
	"github.com/dalemusser/fixit/internal/testutil"
)

func TestCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	prov := identity.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	uid, err := prov.Create(ctx, "New@Example.COM", "tempPW34abcd", "Pat Provider", identity.CreateOptions{ForcePasswordChange: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if uid == "" {
		t.Fatal("expected a non-empty uid")
	}

	acct, err := prov.GetByUID(ctx, uid)
	if err != nil {
		t.Fatalf("GetByUID failed: %v", err)
	}
	if acct.Email != "new@example.com" {
		t.Errorf("Email: got %q, want lowercased", acct.Email)
	}
	if acct.DisplayName != "Pat Provider" {
		t.Errorf("DisplayName: got %q, want %q", acct.DisplayName, "Pat Provider")
	}
	if !acct.ForcePasswordChange {
		t.Error("expected ForcePasswordChange to be set")
	}
	if acct.PasswordHash == "" || strings.Contains(acct.PasswordHash, "tempPW34abcd") {
		t.Error("expected password to be stored hashed")
	}
}

func TestCreate_InvalidEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	prov := identity.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := prov.Create(ctx, "not-an-email", "password", "Someone", identity.CreateOptions{})
	if !errors.Is(err, identity.ErrInvalidEmail) {
		t.Errorf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	prov := identity.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := prov.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}

	if _, err := prov.Create(ctx, "dup@example.com", "password1", "First", identity.CreateOptions{}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// Same address with different case still collides
	_, err := prov.Create(ctx, "DUP@example.com", "password2", "Second", identity.CreateOptions{})
	if !errors.Is(err, identity.ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}

func TestVerifyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	prov := identity.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	uid, err := prov.Create(ctx, "login@example.com", "correct-horse", "Login User", identity.CreateOptions{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	acct, err := prov.VerifyPassword(ctx, "login@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if acct.UID != uid {
		t.Errorf("UID: got %q, want %q", acct.UID, uid)
	}

	if _, err := prov.VerifyPassword(ctx, "login@example.com", "wrong"); err == nil {
		t.Error("expected error for wrong password")
	}

	if _, err := prov.VerifyPassword(ctx, "nobody@example.com", "whatever"); !errors.Is(err, identity.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
