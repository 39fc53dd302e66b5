package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/fixit/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given email and role.
func (f *Fixtures) CreateUser(ctx context.Context, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   "Test User",
		FullNameCI: text.Fold("Test User"),
		Email:      email,
		Role:       role,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateContractor creates a test contractor owned by the given user.
func (f *Fixtures) CreateContractor(ctx context.Context, createdBy primitive.ObjectID, status string) models.Contractor {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Contractor{
		ID:            primitive.NewObjectID(),
		CompanyName:   "Test Contracting Co",
		CompanyNameCI: text.Fold("Test Contracting Co"),
		Status:        status,
		CreatedBy:     createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("contractors").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test contractor: %v", err)
	}
	return c
}

// CreateProvider creates a test provider under the given contractor.
func (f *Fixtures) CreateProvider(ctx context.Context, contractorID primitive.ObjectID, name, email string) models.Provider {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Provider{
		ID:           primitive.NewObjectID(),
		ContractorID: contractorID,
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("providers").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test provider: %v", err)
	}
	return p
}

// CreateClientProfile creates a test client profile for the given user.
func (f *Fixtures) CreateClientProfile(ctx context.Context, userID primitive.ObjectID, first, last, city string) models.Client {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Client{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		FirstName: first,
		LastName:  last,
		City:      city,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("clients").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test client profile: %v", err)
	}
	return c
}
