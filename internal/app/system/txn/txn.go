// Package txn runs multi-document work in a Mongo transaction when the
// deployment supports it, and falls back to running it directly on a
// standalone server.
//
// Callers must make the work safe without the transaction: the fallback
// gives no isolation, only the single-document atomicity Mongo always has.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Runner executes fn inside a transaction on client.
type Runner struct {
	client *mongo.Client
	log    *zap.Logger
}

// New returns a Runner for client.
func New(client *mongo.Client, logger *zap.Logger) *Runner {
	return &Runner{client: client, log: logger}
}

// Run executes fn in a transaction. If the server cannot run transactions
// (standalone mongod, some emulators) fn is run once without one.
//
// fn must use the ctx it is given so its operations join the session.
func (r *Runner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := r.client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		// The first statement is rejected before anything is written, so
		// running fn again outside the session does not double-apply.
		r.log.Debug("transactions unavailable, running without one", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err means the server cannot run
// transactions or sessions.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, // IllegalOperation: "Transaction numbers are only allowed on a replica set member or mongos"
			51,  // unsupported on this topology
			263: // OperationNotSupportedInTransaction
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	hits := 0
	for _, kw := range []string{"transaction", "replica set", "session", "not supported", "illegal operation"} {
		if strings.Contains(msg, kw) {
			hits++
		}
	}
	return hits >= 2
}
