package providerstore_test

import (
	"errors"
	"testing"

	providerstore "github.com/dalemusser/fixit/internal/app/store/providers"
	"github.com/dalemusser/fixit/internal/domain/models"
	"github.com/dalemusser/fixit/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := providerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	contractorID := primitive.NewObjectID()
	p, err := store.Create(ctx, models.Provider{
		ContractorID: contractorID,
		Name:         "  Pat Provider  ",
		Email:        "Pat@Example.COM",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if p.Name != "Pat Provider" {
		t.Errorf("Name: got %q, want trimmed", p.Name)
	}
	if p.Email != "pat@example.com" {
		t.Errorf("Email: got %q, want lowercased", p.Email)
	}
	if p.UserID != "" || p.AuthCreationError != "" {
		t.Error("new provider should have no provisioning outcome")
	}
}

func TestStore_Create_RequiresContractor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := providerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.Provider{Name: "Orphan"})
	if err == nil {
		t.Fatal("expected error for missing contractor_id")
	}
}

func TestStore_Create_AllowsEmptyEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := providerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := store.Create(ctx, models.Provider{
		ContractorID: primitive.NewObjectID(),
		Name:         "No Email",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Email != "" {
		t.Errorf("Email: got %q, want empty", p.Email)
	}
}

func TestStore_MarkProvisioned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := providerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := store.Create(ctx, models.Provider{
		ContractorID: primitive.NewObjectID(),
		Name:         "Provision Me",
		Email:        "provision@example.com",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.MarkProvisioned(ctx, p.ID, "auth-uid-123"); err != nil {
		t.Fatalf("MarkProvisioned failed: %v", err)
	}

	found, err := store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.UserID != "auth-uid-123" {
		t.Errorf("UserID: got %q, want %q", found.UserID, "auth-uid-123")
	}
	if found.TempPasswordGeneratedAt == nil || found.TempPasswordGeneratedAt.IsZero() {
		t.Error("expected TempPasswordGeneratedAt to be a server timestamp")
	}
	if found.AuthCreationError != "" {
		t.Errorf("AuthCreationError: got %q, want empty", found.AuthCreationError)
	}
}

func TestStore_MarkProvisionFailed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := providerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := store.Create(ctx, models.Provider{
		ContractorID: primitive.NewObjectID(),
		Name:         "Failed Provider",
		Email:        "taken@example.com",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.MarkProvisionFailed(ctx, p.ID, "an account with this email already exists"); err != nil {
		t.Fatalf("MarkProvisionFailed failed: %v", err)
	}

	found, err := store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.AuthCreationError == "" {
		t.Error("expected AuthCreationError to be set")
	}
	if found.UserID != "" {
		t.Errorf("UserID: got %q, want empty on failed provisioning", found.UserID)
	}
	if found.TempPasswordGeneratedAt != nil {
		t.Error("expected no TempPasswordGeneratedAt on failed provisioning")
	}
}

func TestStore_MarkProvisioned_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := providerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.MarkProvisioned(ctx, primitive.NewObjectID(), "uid")
	if !errors.Is(err, providerstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListByContractor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := providerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	contractorID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	for _, name := range []string{"One", "Two"} {
		if _, err := store.Create(ctx, models.Provider{ContractorID: contractorID, Name: name}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if _, err := store.Create(ctx, models.Provider{ContractorID: otherID, Name: "Other"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	list, err := store.ListByContractor(ctx, contractorID)
	if err != nil {
		t.Fatalf("ListByContractor failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("got %d providers, want 2", len(list))
	}
	for _, p := range list {
		if p.ContractorID != contractorID {
			t.Errorf("provider %s has contractor %s, want %s", p.Name, p.ContractorID.Hex(), contractorID.Hex())
		}
	}
}
