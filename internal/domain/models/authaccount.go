// internal/domain/models/authaccount.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthAccount is a login principal. It is deliberately separate from User:
// the identity provisioner owns this collection and nothing else, and
// provider accounts are created here before any User record exists.
type AuthAccount struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID          string             `bson:"uid" json:"uid"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	DisplayName  string             `bson:"display_name,omitempty" json:"display_name,omitempty"`

	// ForcePasswordChange is set for accounts provisioned with a temporary
	// password; the login flow must require a new password before issuing a
	// session.
	ForcePasswordChange bool `bson:"force_password_change,omitempty" json:"force_password_change,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
