// internal/domain/models/service.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ServiceCategory groups services ("Electrical", "Plumbing", ...).
type ServiceCategory struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"name_ci"`
}

// Service is a bookable service within a category.
type Service struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Category string             `bson:"category" json:"category"`
}
