// internal/domain/models/provider.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Provider is a worker added under a contractor.
//
// Provisioning state is terminal once set: after the provisioning trigger
// has run for a created provider, exactly one of UserID or
// AuthCreationError is set (neither, if the record was created without an
// email and provisioning was skipped).
type Provider struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ContractorID primitive.ObjectID `bson:"contractor_id" json:"contractor_id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"name_ci"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Approved     bool               `bson:"approved,omitempty" json:"approved,omitempty"`
	CreatedBy    primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`

	// Provisioning outcome, written once by the provider-provisioning trigger.
	UserID                  string     `bson:"user_id,omitempty" json:"user_id,omitempty"`
	TempPasswordGeneratedAt *time.Time `bson:"temp_password_generated_at,omitempty" json:"temp_password_generated_at,omitempty"`
	AuthCreationError       string     `bson:"auth_creation_error,omitempty" json:"auth_creation_error,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
