// internal/app/store/logins/loginstore.go
package loginstore

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/campusride/internal/app/system/ratelimit"
	"github.com/dalemusser/campusride/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection holds one document per successful sign-in. Documents age out
// through a TTL index on created_at.
const Collection = "login_records"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create inserts a LoginRecord. If CreatedAt is zero, it's set to time.Now().UTC().
func (s *Store) Create(ctx context.Context, rec models.LoginRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, rec)
	return err
}

// Record builds a LoginRecord from the HTTP request and inserts it.
// The client IP honours X-Forwarded-For and X-Real-IP.
func (s *Store) Record(ctx context.Context, r *http.Request, email, method string) error {
	return s.Create(ctx, models.LoginRecord{
		Email:     email,
		Method:    method,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
}

// Recent returns the newest sign-ins for email, newest first.
func (s *Store) Recent(ctx context.Context, email string, limit int64) ([]models.LoginRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.LoginRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
