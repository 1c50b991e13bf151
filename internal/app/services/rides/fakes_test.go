package rides_test

import (
	"context"
	"sort"
	"sync"
	"time"

	historystore "github.com/dalemusser/campusride/internal/app/store/ridehistory"
	ridestore "github.com/dalemusser/campusride/internal/app/store/rides"
	userstore "github.com/dalemusser/campusride/internal/app/store/users"
	"github.com/dalemusser/campusride/internal/app/system/events"
	"github.com/dalemusser/campusride/internal/app/system/maps"
	"github.com/dalemusser/campusride/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeRides struct {
	mu    sync.Mutex
	rides map[primitive.ObjectID]models.Ride
}

func newFakeRides() *fakeRides {
	return &fakeRides{rides: make(map[primitive.ObjectID]models.Ride)}
}

func (f *fakeRides) Insert(_ context.Context, r *models.Ride) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	f.rides[r.ID] = *r
	return nil
}

func (f *fakeRides) Get(_ context.Context, id primitive.ObjectID) (*models.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rides[id]
	if !ok {
		return nil, ridestore.ErrNotFound
	}
	return &r, nil
}

func (f *fakeRides) ListActive(_ context.Context) ([]models.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Ride
	for _, r := range f.rides {
		if r.Status == models.RideActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRides) ListForUser(_ context.Context, email string, statuses ...string) ([]models.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Ride, 0)
	for _, r := range f.rides {
		if r.DriverEmail != email && r.PassengerEmail != email {
			continue
		}
		if len(statuses) > 0 && !contains(statuses, r.Status) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime.After(out[j].DateTime) })
	return out, nil
}

func (f *fakeRides) Claim(_ context.Context, id primitive.ObjectID, passengerEmail string, at time.Time) (*models.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rides[id]
	if !ok {
		return nil, ridestore.ErrNotFound
	}
	if r.Status != models.RideActive {
		return nil, ridestore.ErrNotAvailable
	}
	r.Status = models.RideBooked
	r.PassengerEmail = passengerEmail
	r.BookedAt = &at
	f.rides[id] = r
	return &r, nil
}

func (f *fakeRides) Release(_ context.Context, id primitive.ObjectID, passengerEmail string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rides[id]
	if !ok || r.Status != models.RideBooked || r.PassengerEmail != passengerEmail {
		return false, nil
	}
	r.Status = models.RideActive
	r.PassengerEmail = ""
	r.BookedAt = nil
	f.rides[id] = r
	return true, nil
}

func (f *fakeRides) put(r models.Ride) models.Ride {
	_ = f.Insert(context.Background(), &r)
	return r
}

func (f *fakeRides) get(id primitive.ObjectID) models.Ride {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rides[id]
}

func (f *fakeRides) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rides)
}

type fakeHistory struct {
	mu        sync.Mutex
	records   []models.RideHistoryRecord
	insertErr error
}

func (f *fakeHistory) Insert(_ context.Context, rec *models.RideHistoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, r := range f.records {
		if r.RideID == rec.RideID {
			return historystore.ErrDuplicate
		}
	}
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeHistory) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeHistory) ByDriver(_ context.Context, email string) ([]models.RideHistoryRecord, error) {
	return f.filter(func(r models.RideHistoryRecord) bool { return r.DriverEmail == email }), nil
}

func (f *fakeHistory) ByPassenger(_ context.Context, email string) ([]models.RideHistoryRecord, error) {
	return f.filter(func(r models.RideHistoryRecord) bool { return r.PassengerEmail == email }), nil
}

func (f *fakeHistory) filter(keep func(models.RideHistoryRecord) bool) []models.RideHistoryRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.RideHistoryRecord, 0)
	for _, r := range f.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeHistory) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fakeUsers struct {
	mu     sync.Mutex
	users  map[string]models.User
	incErr error
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{users: make(map[string]models.User)}
	for _, u := range users {
		f.users[u.Email] = u
	}
	return f
}

func (f *fakeUsers) Get(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return nil, userstore.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) IncStats(_ context.Context, email string, rides int, moneySaved float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incErr != nil {
		return f.incErr
	}
	u, ok := f.users[email]
	if !ok {
		return userstore.ErrNotFound
	}
	u.TotalRides += rides
	u.MoneySaved += moneySaved
	f.users[email] = u
	return nil
}

func (f *fakeUsers) user(email string) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[email]
}

type fakeMaps struct {
	places map[string]models.Coords
	route  maps.Route
	err    error
	calls  int
}

func (f *fakeMaps) Geocode(_ context.Context, address string) (models.Coords, error) {
	f.calls++
	if f.err != nil {
		return models.Coords{}, f.err
	}
	c, ok := f.places[address]
	if !ok {
		return models.Coords{}, maps.ErrNoResults
	}
	return c, nil
}

func (f *fakeMaps) Route(context.Context, models.Coords, models.Coords) (maps.Route, error) {
	if f.err != nil {
		return maps.Route{}, f.err
	}
	return f.route, nil
}

func (f *fakeMaps) Autocomplete(context.Context, string) ([]maps.Place, error) {
	return nil, f.err
}

type fakeEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakeEvents) Publish(_ context.Context, e events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEvents) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

// countingTx runs fn directly and counts the units of work.
type countingTx struct {
	mu   sync.Mutex
	runs int
}

func (t *countingTx) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.runs++
	t.mu.Unlock()
	return fn(ctx)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
