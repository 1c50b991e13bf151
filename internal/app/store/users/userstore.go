package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/campusride/internal/app/system/normalize"
	"github.com/dalemusser/campusride/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the users collection name.
const Collection = "users"

var (
	// ErrNotFound is returned when no user has the given email.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "rider"|"passenger"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Get loads a user by email. Missing optional fields get their defaults.
func (s *Store) Get(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": normalize.Email(email)}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.ApplyDefaults()
	return &u, nil
}

// Create inserts a new user after normalizing fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.Email = normalize.Email(u.Email)
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Role = normalize.Role(u.Role)
	u.License = strings.TrimSpace(u.License)
	u.Vehicle = normalize.Plate(u.Vehicle)

	switch u.Role {
	case models.RoleRider, models.RolePassenger:
		// ok
	default:
		return models.User{}, errBadRole
	}

	u.ApplyDefaults()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// IncStats atomically adds to a user's ride counters.
func (s *Store) IncStats(ctx context.Context, email string, rides int, moneySaved float64) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": normalize.Email(email)},
		bson.M{
			"$inc": bson.M{"total_rides": rides, "money_saved": moneySaved},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// StatsUpdate holds the stat fields a client may overwrite. Nil fields are
// left unchanged.
type StatsUpdate struct {
	TotalRides *int
	MoneySaved *float64
	Completed  *int
	Rating     *float64
}

// Empty reports whether no field is set.
func (u StatsUpdate) Empty() bool {
	return u.TotalRides == nil && u.MoneySaved == nil && u.Completed == nil && u.Rating == nil
}

// SetStats overwrites the given stat fields and returns the updated user.
func (s *Store) SetStats(ctx context.Context, email string, upd StatsUpdate) (*models.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.TotalRides != nil {
		set["total_rides"] = *upd.TotalRides
	}
	if upd.MoneySaved != nil {
		set["money_saved"] = *upd.MoneySaved
	}
	if upd.Completed != nil {
		set["completed"] = *upd.Completed
	}
	if upd.Rating != nil {
		set["rating"] = *upd.Rating
	}

	var u models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": normalize.Email(email)},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.ApplyDefaults()
	return &u, nil
}

// SetPasswordHash stores a new hash and drops any legacy plaintext password.
func (s *Store) SetPasswordHash(ctx context.Context, email, hash string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": normalize.Email(email)},
		bson.M{
			"$set":   bson.M{"password_hash": hash, "updated_at": time.Now().UTC()},
			"$unset": bson.M{"password": ""},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkEmailVerified flags the user's email as confirmed.
func (s *Store) MarkEmailVerified(ctx context.Context, email string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": normalize.Email(email)},
		bson.M{"$set": bson.M{"email_verified": true, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
