package clientstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/fixit/internal/app/system/normalize"
	"github.com/dalemusser/fixit/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no client profile matches the lookup.
var ErrNotFound = errors.New("client profile not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("clients")}
}

// GetByUserID loads the profile for a client-role user.
func (s *Store) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Client, error) {
	var c models.Client
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new client profile.
func (s *Store) Create(ctx context.Context, c models.Client) (models.Client, error) {
	c.ID = primitive.NewObjectID()
	c.FirstName = normalize.Name(c.FirstName)
	c.LastName = normalize.Name(c.LastName)

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Client{}, err
	}
	return c, nil
}
