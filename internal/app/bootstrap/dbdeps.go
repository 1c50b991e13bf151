// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	accountsvc "github.com/dalemusser/campusride/internal/app/services/account"
	otpsvc "github.com/dalemusser/campusride/internal/app/services/otp"
	ridesvc "github.com/dalemusser/campusride/internal/app/services/rides"
	"github.com/dalemusser/campusride/internal/app/system/events"
	"github.com/dalemusser/campusride/internal/app/system/maps"
	"github.com/dalemusser/campusride/internal/app/system/ratelimit"
	"github.com/dalemusser/campusride/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// Services is allocated by ConnectDB and filled in by Startup, so the
// later hooks (which receive DBDeps by value) share the same instances.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Services      *Services
}

// Services are the long-lived objects built in Startup.
type Services struct {
	OTP          *otpsvc.Service
	Accounts     *accountsvc.Service
	Rides        *ridesvc.Service
	Maps         maps.Service
	MapsEnabled  bool
	LoginLimiter *ratelimit.LoginLimiter

	sweeper *workers.OTPSweep
	amqp    *events.AMQPPublisher
}
