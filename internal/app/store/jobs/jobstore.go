package jobstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/fixit/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no job matches the lookup.
	ErrNotFound  = errors.New("job not found")
	errBadStatus = errors.New(`status must be "pending"|"accepted"|"completed"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("jobs")}
}

// GetByID loads a job by ObjectID. Returns ErrNotFound when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error) {
	var j models.Job
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&j); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

// Create inserts a new job, defaulting status to pending.
func (s *Store) Create(ctx context.Context, j models.Job) (models.Job, error) {
	j.ID = primitive.NewObjectID()
	if j.Status == "" {
		j.Status = models.JobPending
	}
	switch j.Status {
	case models.JobPending, models.JobAccepted, models.JobCompleted:
		// ok
	default:
		return models.Job{}, errBadStatus
	}
	j.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, j); err != nil {
		return models.Job{}, err
	}
	return j, nil
}

// ListByClient returns a client's jobs, newest first.
func (s *Store) ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]models.Job, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"client_id": clientID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Job
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
