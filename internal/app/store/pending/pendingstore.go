package pendingstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/campusride/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the pending registrations collection name.
const Collection = "pending_registrations"

// ErrNotFound is returned when there is no live pending record for an email.
var ErrNotFound = errors.New("pending registration not found")

// Store keeps signups awaiting email verification. Records expire through a
// TTL index on expires_at.
type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection), now: time.Now}
}

// Save stores p, replacing any earlier pending signup for the same email.
func (s *Store) Save(ctx context.Context, p models.PendingRegistration) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": p.Email}, p, options.Replace().SetUpsert(true))
	return err
}

// Get returns the pending record for email. Records past their expiry are
// reported as missing even if the TTL monitor has not removed them yet.
func (s *Store) Get(ctx context.Context, email string) (*models.PendingRegistration, error) {
	var p models.PendingRegistration
	err := s.c.FindOne(ctx, bson.M{
		"_id":        email,
		"expires_at": bson.M{"$gt": s.now().UTC()},
	}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// MarkVerified records that email proved ownership at the given time,
// creating a bare record when no signup is pending.
func (s *Store) MarkVerified(ctx context.Context, email string, at, expiresAt time.Time) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": email},
		bson.M{
			"$set":         bson.M{"verified_at": at, "expires_at": expiresAt},
			"$setOnInsert": bson.M{"created_at": at},
		},
		options.Update().SetUpsert(true))
	return err
}

// Delete removes the pending record for email.
func (s *Store) Delete(ctx context.Context, email string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": email})
	return err
}
