package providerstore

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
	// ErrNotFound is returned when no provider matches the lookup or update.
	ErrNotFound     = errors.New("provider not found")
	errNoContractor = errors.New("provider must have contractor_id")
	errMissingName  = errors.New("provider must have a name")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("providers")}
}

// GetByID loads a provider by ObjectID. Returns ErrNotFound when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Provider, error) {
	var p models.Provider
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByContractor returns the providers under a contractor, name-ordered.
func (s *Store) ListByContractor(ctx context.Context, contractorID primitive.ObjectID) ([]models.Provider, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"contractor_id": contractorID},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Provider
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new provider record under a contractor. An empty email
// is allowed; the provisioning trigger skips such records.
func (s *Store) Create(ctx context.Context, p models.Provider) (models.Provider, error) {
	if p.ContractorID == primitive.NilObjectID {
		return models.Provider{}, errNoContractor
	}
	p.Name = normalize.Name(p.Name)
	if p.Name == "" {
		return models.Provider{}, errMissingName
	}
	p.ID = primitive.NewObjectID()
	p.NameCI = text.Fold(p.Name)
	p.Email = normalize.Email(p.Email)

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Provider{}, err
	}
	return p, nil
}

// MarkProvisioned records a successful provisioning outcome: the auth uid
// and a server-side timestamp for when the temp password was generated.
func (s *Store) MarkProvisioned(ctx context.Context, id primitive.ObjectID, uid string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set":         bson.M{"user_id": uid, "updated_at": time.Now()},
			"$currentDate": bson.M{"temp_password_generated_at": true},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkProvisionFailed records a terminal provisioning failure on the record.
func (s *Store) MarkProvisionFailed(ctx context.Context, id primitive.ObjectID, message string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"auth_creation_error": message, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateStream yields newly inserted provider records.
type CreateStream struct {
	cs *mongo.ChangeStream
}

// WatchCreated opens a change stream over provider inserts. Each event
// carries the created record exactly once per insert; updates to existing
// records never appear here, which is what keeps provisioning
// fire-on-create only.
//
// A non-nil resumeAfter continues the stream from that token, so inserts
// that happened while the stream was down are still delivered.
func (s *Store) WatchCreated(ctx context.Context, resumeAfter bson.Raw) (*CreateStream, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"operationType": "insert"}}},
	}
	opts := options.ChangeStream()
	if resumeAfter != nil {
		opts.SetResumeAfter(resumeAfter)
	}
	cs, err := s.c.Watch(ctx, pipeline, opts)
	if err != nil {
		return nil, err
	}
	return &CreateStream{cs: cs}, nil
}

type insertChange struct {
	FullDocument models.Provider `bson:"fullDocument"`
}

// Next blocks for the next created record. Returns false when the stream
// is exhausted or errored; check Err afterwards.
func (st *CreateStream) Next(ctx context.Context) (models.Provider, bool) {
	for st.cs.Next(ctx) {
		var ch insertChange
		if err := st.cs.Decode(&ch); err != nil {
			continue
		}
		return ch.FullDocument, true
	}
	return models.Provider{}, false
}

// ResumeToken returns the token of the last event surfaced, for reopening
// the stream where this one left off.
func (st *CreateStream) ResumeToken() bson.Raw {
	return st.cs.ResumeToken()
}

// Err returns the terminal stream error, if any.
func (st *CreateStream) Err() error {
	return st.cs.Err()
}

// Close releases the underlying change stream cursor.
func (st *CreateStream) Close(ctx context.Context) error {
	return st.cs.Close(ctx)
}
