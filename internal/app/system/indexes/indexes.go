// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	var problems []string

	sets := []struct {
		name   string
		ensure func(context.Context, *mongo.Database, *zap.Logger) error
	}{
		{"users", ensureUsers},
		{"rides", ensureRides},
		{"rideHistory", ensureRideHistory},
		{"pending_registrations", ensurePendingRegistrations},
		{"otp_codes", ensureOTPCodes},
		{"login_records", ensureLoginRecords},
	}
	for _, s := range sets {
		if err := s.ensure(ctx, db, logger); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

// indexSpec is the part of an index definition that decides whether an
// existing index can be kept.
type indexSpec struct {
	Name               string `bson:"name"`
	Key                bson.D `bson:"key"`
	Unique             *bool  `bson:"unique,omitempty"`
	ExpireAfterSeconds *int32 `bson:"expireAfterSeconds,omitempty"`
}

func specOf(m mongo.IndexModel) indexSpec {
	spec := indexSpec{Key: m.Keys.(bson.D)}
	if m.Options != nil {
		if m.Options.Name != nil {
			spec.Name = *m.Options.Name
		}
		spec.Unique = m.Options.Unique
		spec.ExpireAfterSeconds = m.Options.ExpireAfterSeconds
	}
	return spec
}

func (s indexSpec) keys() string {
	parts := make([]string, 0, len(s.Key))
	for _, kv := range s.Key {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func (s indexSpec) unique() bool { return s.Unique != nil && *s.Unique }

// satisfies reports whether the existing index s can stand in for want.
func (s indexSpec) satisfies(want indexSpec) bool {
	if s.unique() != want.unique() {
		return false
	}
	if (s.ExpireAfterSeconds == nil) != (want.ExpireAfterSeconds == nil) {
		return false
	}
	if s.ExpireAfterSeconds != nil && *s.ExpireAfterSeconds != *want.ExpireAfterSeconds {
		return false
	}
	return want.Name == "" || s.Name == want.Name
}

// existingByKeys lists coll's indexes keyed by their key pattern. A listing
// failure yields an empty map so every index is (re)created.
func existingByKeys(ctx context.Context, coll *mongo.Collection, log *zap.Logger) map[string]indexSpec {
	out := map[string]indexSpec{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var spec indexSpec
		if err := cur.Decode(&spec); err != nil {
			log.Warn("failed to decode existing index", zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		out[spec.keys()] = spec
	}
	return out
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, log *zap.Logger) error {
	var errs []string
	existing := existingByKeys(ctx, coll, log)
	fields := func(spec indexSpec) []zap.Field {
		return []zap.Field{zap.String("collection", coll.Name()), zap.String("name", spec.Name), zap.String("keys", spec.keys())}
	}

	for _, m := range models {
		want := specOf(m)
		start := time.Now()

		if have, ok := existing[want.keys()]; ok {
			if have.satisfies(want) {
				log.Debug("reusing existing index", fields(have)...)
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, have.Name); err != nil {
				log.Warn("drop existing index failed", append(fields(have), zap.Error(err))...)
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), want.Name, err))
				continue
			}
			log.Info("dropped index for recreation", fields(have)...)
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			msg := err.Error()
			if want.unique() && wafflemongo.IsDup(err) {
				msg = "cannot create unique index (duplicates present)"
			}
			errs = append(errs, fmt.Sprintf("%s(%s): %s", coll.Name(), want.Name, msg))
			log.Warn("index ensure failed", append(fields(want), zap.Error(err))...)
			continue
		}
		log.Info("index ensured", append(fields(want),
			zap.Bool("unique", want.unique()),
			zap.Duration("took", time.Since(start)))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	// _id is the email, so uniqueness comes for free.
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_users_role_nameci"),
		},
		{
			// PRN is optional for legacy accounts.
			Keys: bson.D{{Key: "prn", Value: 1}},
			Options: options.Index().SetName("uniq_users_prn").SetUnique(true).
				SetPartialFilterExpression(bson.M{"prn": bson.M{"$gt": ""}}),
		},
	}, log)
}

func ensureRides(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	return ensureIndexSet(ctx, db.Collection("rides"), []mongo.IndexModel{
		{
			// search: active rides ordered by departure
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "date_time", Value: 1}},
			Options: options.Index().SetName("idx_rides_status_datetime"),
		},
		{
			Keys:    bson.D{{Key: "driver_email", Value: 1}, {Key: "date_time", Value: -1}},
			Options: options.Index().SetName("idx_rides_driver_datetime"),
		},
		{
			Keys:    bson.D{{Key: "passenger_email", Value: 1}, {Key: "date_time", Value: -1}},
			Options: options.Index().SetName("idx_rides_passenger_datetime"),
		},
	}, log)
}

func ensureRideHistory(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	return ensureIndexSet(ctx, db.Collection("rideHistory"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "driver_email", Value: 1}, {Key: "booked_at", Value: -1}},
			Options: options.Index().SetName("idx_history_driver_bookedat"),
		},
		{
			Keys:    bson.D{{Key: "passenger_email", Value: 1}, {Key: "booked_at", Value: -1}},
			Options: options.Index().SetName("idx_history_passenger_bookedat"),
		},
		{
			// one history record per booked ride
			Keys:    bson.D{{Key: "ride_id", Value: 1}},
			Options: options.Index().SetName("uniq_history_ride").SetUnique(true),
		},
	}, log)
}

func ensurePendingRegistrations(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	return ensureIndexSet(ctx, db.Collection("pending_registrations"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("ttl_pending_expires").SetExpireAfterSeconds(0),
		},
	}, log)
}

func ensureOTPCodes(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	// purge_at trails expires_at so an expired code is still observable as
	// expired for a while before Mongo reaps it.
	return ensureIndexSet(ctx, db.Collection("otp_codes"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "purge_at", Value: 1}},
			Options: options.Index().SetName("ttl_otp_purge").SetExpireAfterSeconds(0),
		},
	}, log)
}

// loginRecordTTL is how long sign-in records are kept.
const loginRecordTTL = 90 * 24 * 60 * 60

func ensureLoginRecords(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	return ensureIndexSet(ctx, db.Collection("login_records"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_login_email_created"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetName("ttl_login_created").SetExpireAfterSeconds(loginRecordTTL),
		},
	}, log)
}
