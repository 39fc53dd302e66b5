// internal/domain/models/job.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Job status values.
const (
	JobPending   = "pending"
	JobAccepted  = "accepted"
	JobCompleted = "completed"
)

// Job is a client's booking of a provider for a service.
type Job struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID   primitive.ObjectID `bson:"client_id" json:"client_id"`
	ProviderID primitive.ObjectID `bson:"provider_id" json:"provider_id"`
	Service    string             `bson:"service" json:"service"`
	Status     string             `bson:"status" json:"status"` // pending | accepted | completed

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
