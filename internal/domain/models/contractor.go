// internal/domain/models/contractor.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contractor status values.
const (
	ContractorPending  = "pending"
	ContractorApproved = "approved"
	ContractorRejected = "rejected"
)

// Contractor is a company account that employs providers.
//
// CreatedBy is a back-reference to the owning User, not ownership: the user
// record outlives the contractor record. Status transitions are written by
// the admin review flow; the approval trigger only reacts to the
// non-approved -> approved edge.
type Contractor struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyName    string             `bson:"company_name" json:"company_name"`
	CompanyNameCI  string             `bson:"company_name_ci" json:"company_name_ci"`
	CompanyContact string             `bson:"company_contact,omitempty" json:"company_contact,omitempty"`
	Status         string             `bson:"status" json:"status"` // pending | approved | rejected
	CreatedBy      primitive.ObjectID `bson:"created_by" json:"created_by"`
	Verified       bool               `bson:"verified,omitempty" json:"verified,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
