// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents any account holder in FixIt: admins, clients,
// contractors, and providers.
//
// NOTE:
//   - Approved is only meaningful for contractor-role users; it is flipped
//     by the contractor-approval trigger when the contractor record is
//     approved by an admin.
//   - AuthUID links the user to their auth_accounts principal when one
//     exists (provider accounts are provisioned automatically).
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	Role       string             `bson:"role" json:"role"` // admin | client | contractor | provider
	Approved   bool               `bson:"approved" json:"approved"`
	FCMToken   string             `bson:"fcm_token,omitempty" json:"fcm_token,omitempty"`
	AuthUID    string             `bson:"auth_uid,omitempty" json:"auth_uid,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
