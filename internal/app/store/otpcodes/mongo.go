package otpcodes

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection holds OTP codes when they are kept in MongoDB.
const Collection = "otp_codes"

// Store keeps codes in MongoDB. Expired documents are reaped by the TTL
// index on purge_at.
type Store struct {
	c *mongo.Collection
}

// New creates a MongoDB-backed store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Put stores c, replacing any previous code for the same email.
func (s *Store) Put(ctx context.Context, c Code) error {
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": c.Email}, c, options.Replace().SetUpsert(true))
	return err
}

// Get returns the code for email, or ErrNotFound.
func (s *Store) Get(ctx context.Context, email string) (*Code, error) {
	var c Code
	if err := s.c.FindOne(ctx, bson.M{"_id": email}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// IncAttempts records a failed attempt and returns the new count.
func (s *Store) IncAttempts(ctx context.Context, email string) (int, error) {
	var c Code
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": email},
		bson.M{"$inc": bson.M{"attempts": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return c.Attempts, nil
}

// Delete removes the code for email. Deleting a missing code is not an error.
func (s *Store) Delete(ctx context.Context, email string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": email})
	return err
}

// Consume deletes the code for email if it still carries codeHash and
// reports whether it did. A code reissued in the meantime is left alone.
func (s *Store) Consume(ctx context.Context, email, codeHash string) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": email, "code_hash": codeHash})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

// Sweep removes codes whose purge time has passed. MongoDB's TTL monitor
// does this on its own; Sweep exists for callers that want it immediately.
func (s *Store) Sweep(ctx context.Context, now time.Time) (int, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"purge_at": bson.M{"$lte": now}})
	if err != nil {
		return 0, err
	}
	return int(res.DeletedCount), nil
}
