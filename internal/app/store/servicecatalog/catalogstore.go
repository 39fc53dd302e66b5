// Package catalogstore holds the bookable service catalog: categories and
// the services inside them. Written by the seed command and admin tooling,
// read by the booking flow.
package catalogstore

import (
	"context"

	"github.com/dalemusser/fixit/internal/app/system/normalize"
	"github.com/dalemusser/fixit/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	categories *mongo.Collection
	services   *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		categories: db.Collection("service_categories"),
		services:   db.Collection("services"),
	}
}

// AddCategory inserts a service category.
func (s *Store) AddCategory(ctx context.Context, name string) (models.ServiceCategory, error) {
	cat := models.ServiceCategory{
		ID:     primitive.NewObjectID(),
		Name:   normalize.Name(name),
		NameCI: text.Fold(name),
	}
	if _, err := s.categories.InsertOne(ctx, cat); err != nil {
		return models.ServiceCategory{}, err
	}
	return cat, nil
}

// AddService inserts a service under a category name.
func (s *Store) AddService(ctx context.Context, name, category string) (models.Service, error) {
	svc := models.Service{
		ID:       primitive.NewObjectID(),
		Name:     normalize.Name(name),
		Category: normalize.Name(category),
	}
	if _, err := s.services.InsertOne(ctx, svc); err != nil {
		return models.Service{}, err
	}
	return svc, nil
}

// ListCategories returns all categories, name-ordered.
func (s *Store) ListCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	cur, err := s.categories.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ServiceCategory
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListServices returns the services in a category.
func (s *Store) ListServices(ctx context.Context, category string) ([]models.Service, error) {
	cur, err := s.services.Find(ctx, bson.M{"category": normalize.Name(category)})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Service
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
