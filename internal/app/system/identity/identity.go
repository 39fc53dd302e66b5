// Package identity is the identity provisioner: it owns the auth_accounts
// collection and creates login principals with a bcrypt-hashed password.
//
// Terminology: User Identifiers
//   - UID / uid: the stable auth principal id (UUID string) other records
//     reference (e.g. a provider's user_id)
//   - UserID / user_id: the MongoDB ObjectID (_id) of a users record
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/dalemusser/fixit/internal/app/system/normalize"
	"github.com/dalemusser/fixit/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost for hashing account passwords.
const BcryptCost = 10

var (
	// ErrEmailExists is returned when an account with the email is already
	// registered.
	ErrEmailExists = errors.New("an account with this email already exists")
	// ErrInvalidEmail is returned when the email address is malformed.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrNotFound is returned when no account matches the lookup.
	ErrNotFound = errors.New("auth account not found")
)

// Provisioner creates and looks up auth accounts.
type Provisioner struct {
	c *mongo.Collection
}

// New constructs a Provisioner over the auth_accounts collection.
func New(db *mongo.Database) *Provisioner {
	return &Provisioner{c: db.Collection("auth_accounts")}
}

// EnsureIndexes creates the unique email index that backs duplicate
// detection in Create.
func (p *Provisioner) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_auth_email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "uid", Value: 1}},
			Options: options.Index().SetName("idx_auth_uid"),
		},
	}
	_, err := p.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// CreateOptions carries optional account settings.
type CreateOptions struct {
	// ForcePasswordChange marks the account as holding a temporary password.
	ForcePasswordChange bool
}

// Create provisions a new auth account and returns its uid.
//
// Returns ErrInvalidEmail for a malformed address and ErrEmailExists when
// the email is already registered; both are terminal for the caller.
func (p *Provisioner) Create(ctx context.Context, email, password, displayName string, opts CreateOptions) (string, error) {
	email = normalize.Email(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	acct := models.AuthAccount{
		ID:                  primitive.NewObjectID(),
		UID:                 uuid.NewString(),
		Email:               email,
		PasswordHash:        string(hash),
		DisplayName:         normalize.Name(displayName),
		ForcePasswordChange: opts.ForcePasswordChange,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if _, err := p.c.InsertOne(ctx, acct); err != nil {
		if wafflemongo.IsDup(err) {
			return "", fmt.Errorf("%w: %s", ErrEmailExists, email)
		}
		return "", err
	}
	return acct.UID, nil
}

// GetByEmail looks up an account by case-insensitive email.
func (p *Provisioner) GetByEmail(ctx context.Context, email string) (*models.AuthAccount, error) {
	var acct models.AuthAccount
	err := p.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&acct)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// GetByUID looks up an account by its uid.
func (p *Provisioner) GetByUID(ctx context.Context, uid string) (*models.AuthAccount, error) {
	var acct models.AuthAccount
	err := p.c.FindOne(ctx, bson.M{"uid": uid}).Decode(&acct)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// VerifyPassword checks a password against the stored hash. Returns
// ErrNotFound when no account matches, bcrypt's mismatch error on a wrong
// password.
func (p *Provisioner) VerifyPassword(ctx context.Context, email, password string) (*models.AuthAccount, error) {
	acct, err := p.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}
	return acct, nil
}
