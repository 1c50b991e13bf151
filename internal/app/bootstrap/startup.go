// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	accountsvc "github.com/dalemusser/campusride/internal/app/services/account"
	otpsvc "github.com/dalemusser/campusride/internal/app/services/otp"
	ridesvc "github.com/dalemusser/campusride/internal/app/services/rides"
	"github.com/dalemusser/campusride/internal/app/store/otpcodes"
	pendingstore "github.com/dalemusser/campusride/internal/app/store/pending"
	historystore "github.com/dalemusser/campusride/internal/app/store/ridehistory"
	ridestore "github.com/dalemusser/campusride/internal/app/store/rides"
	userstore "github.com/dalemusser/campusride/internal/app/store/users"
	"github.com/dalemusser/campusride/internal/app/system/events"
	"github.com/dalemusser/campusride/internal/app/system/mailer"
	"github.com/dalemusser/campusride/internal/app/system/maps"
	"github.com/dalemusser/campusride/internal/app/system/ratelimit"
	"github.com/dalemusser/campusride/internal/app/system/timeouts"
	"github.com/dalemusser/campusride/internal/app/system/txn"
	"github.com/dalemusser/campusride/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It builds
// the services, starts background workers and optionally seeds demo users.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	svc := deps.Services
	if svc == nil {
		return fmt.Errorf("startup: DBDeps.Services is nil")
	}
	db := deps.MongoDatabase

	loc, err := time.LoadLocation(appCfg.TimeZone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		Username: appCfg.MailSMTPUser,
		Password: appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)

	var codes otpsvc.CodeStore
	if appCfg.OTPStore == "memory" {
		mem := otpcodes.NewMemory()
		svc.sweeper = workers.NewOTPSweep(mem, logger, appCfg.OTPSweepInterval)
		svc.sweeper.Start()
		codes = mem
	} else {
		codes = otpcodes.New(db)
	}

	svc.OTP = otpsvc.New(codes, mail, otpsvc.Config{
		SiteName:       appCfg.SiteName,
		Expiry:         appCfg.OTPExpiry,
		ResendCooldown: appCfg.OTPResendCooldown,
	}, logger)

	users := userstore.New(db)
	svc.Accounts = accountsvc.New(users, pendingstore.New(db), svc.OTP, accountsvc.Config{
		InstitutionDomain: appCfg.InstitutionDomain,
		PendingExpiry:     appCfg.PendingExpiry,
	}, logger)

	var publisher events.Publisher = events.Nop{}
	if appCfg.AMQPURL != "" {
		dialCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
		p, err := events.DialAMQP(dialCtx, appCfg.AMQPURL, logger)
		cancel()
		if err != nil {
			logger.Warn("ride events disabled: broker unreachable", zap.Error(err))
		} else {
			svc.amqp = p
			publisher = p
		}
	}

	svc.Maps, svc.MapsEnabled, err = buildMaps(appCfg, logger)
	if err != nil {
		return err
	}

	svc.Rides = ridesvc.New(ridesvc.Deps{
		Rides:   ridestore.New(db),
		History: historystore.New(db),
		Users:   users,
		Maps:    svc.Maps,
		Events:  publisher,
		Tx:      txn.New(deps.MongoClient, logger),
	}, ridesvc.Config{
		Location:        loc,
		MoneySavedRatio: appCfg.MoneySavedRatio,
		NearbyRadius:    appCfg.NearbyRadius,
	}, logger)

	svc.LoginLimiter = ratelimit.NewLoginLimiter()

	if appCfg.SeedDemoUsers {
		seedCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
		defer cancel()
		n, err := svc.Accounts.SeedDemoUsers(seedCtx)
		if err != nil {
			return fmt.Errorf("seed demo users: %w", err)
		}
		logger.Info("demo users seeded", zap.Int("created", n))
	}

	return nil
}

func buildMaps(appCfg AppConfig, logger *zap.Logger) (maps.Service, bool, error) {
	if appCfg.MapsAPIKey == "" {
		logger.Warn("maps API key not set; rides must be posted with coordinates")
		return maps.Disabled{}, false, nil
	}
	bounds, err := maps.ParseBounds(appCfg.MapsBounds)
	if err != nil {
		return nil, false, err
	}
	g, err := maps.NewGoogle(appCfg.MapsAPIKey, bounds, appCfg.MapsCountry, logger)
	if err != nil {
		return nil, false, err
	}
	return g, true, nil
}
