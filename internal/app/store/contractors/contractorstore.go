package contractorstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/fixit/internal/app/system/normalize"
	"github.com/dalemusser/fixit/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no contractor matches the lookup or update.
	ErrNotFound  = errors.New("contractor not found")
	errBadStatus = errors.New(`status must be "pending"|"approved"|"rejected"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("contractors")}
}

// GetByID loads a contractor by ObjectID. Returns ErrNotFound when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Contractor, error) {
	var c models.Contractor
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new contractor record, defaulting status to pending.
func (s *Store) Create(ctx context.Context, c models.Contractor) (models.Contractor, error) {
	c.ID = primitive.NewObjectID()
	c.CompanyName = normalize.Name(c.CompanyName)
	c.CompanyNameCI = text.Fold(c.CompanyName)
	if c.Status == "" {
		c.Status = models.ContractorPending
	}
	c.Status = normalize.Status(c.Status)
	if !validStatus(c.Status) {
		return models.Contractor{}, errBadStatus
	}

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Contractor{}, err
	}
	return c, nil
}

// UpdateStatus writes a status transition. This is the write the approval
// trigger observes through the change stream.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	status = normalize.Status(status)
	if !validStatus(status) {
		return errBadStatus
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func validStatus(status string) bool {
	switch status {
	case models.ContractorPending, models.ContractorApproved, models.ContractorRejected:
		return true
	}
	return false
}

// UpdateEvent is one observed update to a contractor record, carrying the
// pre-update and post-update snapshots.
type UpdateEvent struct {
	Before models.Contractor
	After  models.Contractor
}

// UpdateStream yields UpdateEvents from the contractors change stream.
type UpdateStream struct {
	cs *mongo.ChangeStream
}

// WatchUpdates opens a change stream over contractor updates. Before
// snapshots come from collection pre-images, which EnsureSchema enables;
// an event whose pre-image has expired is delivered with a zero Before,
// and the consumer must skip it (a zero Before is indistinguishable from
// a pending record, so it cannot be fed to the edge guard).
//
// A non-nil resumeAfter continues the stream from that token, so events
// that arrived while the stream was down are still delivered.
func (s *Store) WatchUpdates(ctx context.Context, resumeAfter bson.Raw) (*UpdateStream, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"operationType": bson.M{"$in": bson.A{"update", "replace"}},
		}}},
	}
	opts := options.ChangeStream().
		SetFullDocument(options.UpdateLookup).
		SetFullDocumentBeforeChange(options.WhenAvailable)
	if resumeAfter != nil {
		opts.SetResumeAfter(resumeAfter)
	}

	cs, err := s.c.Watch(ctx, pipeline, opts)
	if err != nil {
		return nil, err
	}
	return &UpdateStream{cs: cs}, nil
}

type updateChange struct {
	FullDocument             models.Contractor `bson:"fullDocument"`
	FullDocumentBeforeChange models.Contractor `bson:"fullDocumentBeforeChange"`
}

// Next blocks for the next update event. Returns false when the stream is
// exhausted or errored; check Err afterwards.
func (st *UpdateStream) Next(ctx context.Context) (UpdateEvent, bool) {
	for st.cs.Next(ctx) {
		var ch updateChange
		if err := st.cs.Decode(&ch); err != nil {
			continue
		}
		return UpdateEvent{Before: ch.FullDocumentBeforeChange, After: ch.FullDocument}, true
	}
	return UpdateEvent{}, false
}

// ResumeToken returns the token of the last event surfaced, for reopening
// the stream where this one left off.
func (st *UpdateStream) ResumeToken() bson.Raw {
	return st.cs.ResumeToken()
}

// Err returns the terminal stream error, if any.
func (st *UpdateStream) Err() error {
	return st.cs.Err()
}

// Close releases the underlying change stream cursor.
func (st *UpdateStream) Close(ctx context.Context) error {
	return st.cs.Close(ctx)
}
