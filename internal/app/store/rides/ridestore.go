package ridestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/campusride/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the rides collection name.
const Collection = "rides"

var (
	// ErrNotFound is returned when no ride has the given ID.
	ErrNotFound = errors.New("ride not found")
	// ErrNotAvailable is returned by Claim when the ride exists but is no
	// longer active.
	ErrNotAvailable = errors.New("ride is no longer available")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Insert stores a new ride, assigning its ID when unset.
func (s *Store) Insert(ctx context.Context, r *models.Ride) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, r)
	return err
}

// Get loads a ride by ID.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	var r models.Ride
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// ListActive returns all active rides ordered by departure time.
func (s *Store) ListActive(ctx context.Context) ([]models.Ride, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date_time", Value: 1}, {Key: "_id", Value: 1}})
	return s.find(ctx, bson.M{"status": models.RideActive}, opts)
}

// ListForUser returns rides the user drives or has booked, newest first.
// When statuses is non-empty only rides in one of them are returned.
func (s *Store) ListForUser(ctx context.Context, email string, statuses ...string) ([]models.Ride, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"driver_email": email},
		bson.M{"passenger_email": email},
	}}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	opts := options.Find().SetSort(bson.D{{Key: "date_time", Value: -1}, {Key: "_id", Value: -1}})
	return s.find(ctx, filter, opts)
}

// Claim marks an active ride as booked by passengerEmail. Only one caller can
// win for a given ride: the filter matches active rides only, so a second
// claim gets ErrNotAvailable.
func (s *Store) Claim(ctx context.Context, id primitive.ObjectID, passengerEmail string, at time.Time) (*models.Ride, error) {
	var r models.Ride
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.RideActive},
		bson.M{"$set": bson.M{
			"status":          models.RideBooked,
			"passenger_email": passengerEmail,
			"booked_at":       at,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&r)
	if err == nil {
		return &r, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	n, cerr := s.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if cerr != nil {
		return nil, cerr
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrNotAvailable
}

// Release undoes a Claim by passengerEmail, returning the ride to active.
// It reports whether a booking was released; a ride booked by someone else
// is left untouched.
func (s *Store) Release(ctx context.Context, id primitive.ObjectID, passengerEmail string) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.RideBooked, "passenger_email": passengerEmail},
		bson.M{
			"$set":   bson.M{"status": models.RideActive},
			"$unset": bson.M{"passenger_email": "", "booked_at": ""},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Ride, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Ride, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
