package historystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/campusride/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the ride history collection name.
const Collection = "rideHistory"

// ErrDuplicate is returned when a ride already has a history record.
var ErrDuplicate = errors.New("ride already has a history record")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Insert appends a record. Records are never updated afterwards.
func (s *Store) Insert(ctx context.Context, rec *models.RideHistoryRecord) error {
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	if rec.BookedAt.IsZero() {
		rec.BookedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// Delete removes a record. It is only used to back out a booking that
// failed part way; deleting a missing record is not an error.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ByDriver returns records where email drove, newest booking first.
func (s *Store) ByDriver(ctx context.Context, email string) ([]models.RideHistoryRecord, error) {
	return s.find(ctx, bson.M{"driver_email": email})
}

// ByPassenger returns records where email rode, newest booking first.
func (s *Store) ByPassenger(ctx context.Context, email string) ([]models.RideHistoryRecord, error) {
	return s.find(ctx, bson.M{"passenger_email": email})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.RideHistoryRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "booked_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.RideHistoryRecord, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
