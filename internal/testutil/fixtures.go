package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/campusride/internal/app/system/authutil"
	"github.com/dalemusser/campusride/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a verified user with default stats.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		Email:         email,
		Name:          name,
		NameCI:        text.Fold(name),
		Role:          role,
		EmailVerified: true,
		Rating:        models.DefaultRating,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if role == models.RoleRider {
		u.License = "LIC001"
		u.Vehicle = "MH12AB1234"
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateUserWithPassword inserts a user who can log in with password.
func (f *Fixtures) CreateUserWithPassword(ctx context.Context, name, email, role, password string, verified bool) models.User {
	f.t.Helper()

	hash, err := authutil.HashPassword(password)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		Email:         email,
		Name:          name,
		NameCI:        text.Fold(name),
		Role:          role,
		PasswordHash:  hash,
		EmailVerified: verified,
		Rating:        models.DefaultRating,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateRide inserts an active ride departing at dt.
func (f *Fixtures) CreateRide(ctx context.Context, driver models.User, from, to string, dt time.Time, price float64) models.Ride {
	f.t.Helper()

	r := NewRide(driver, from, to, dt, price)
	if _, err := f.db.Collection("rides").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test ride: %v", err)
	}
	return r
}

// NewRide builds an active ride without persisting it.
func NewRide(driver models.User, from, to string, dt time.Time, price float64) models.Ride {
	return models.Ride{
		ID:          primitive.NewObjectID(),
		From:        from,
		To:          to,
		FromCoords:  models.Coords{Lat: 18.5204, Lng: 73.8567},
		ToCoords:    models.Coords{Lat: 18.4636, Lng: 73.8682},
		Date:        dt.Format("2006-01-02"),
		Time:        dt.Format("15:04"),
		DateTime:    dt,
		Seats:       1,
		Price:       price,
		Driver:      driver.Name,
		DriverEmail: driver.Email,
		Status:      models.RideActive,
		CreatedAt:   time.Now().UTC(),
	}
}
