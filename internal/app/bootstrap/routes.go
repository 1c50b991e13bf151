// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"

	accountsfeature "github.com/dalemusser/campusride/internal/app/features/accounts"
	errorsfeature "github.com/dalemusser/campusride/internal/app/features/errors"
	healthfeature "github.com/dalemusser/campusride/internal/app/features/health"
	mapsfeature "github.com/dalemusser/campusride/internal/app/features/maps"
	otpfeature "github.com/dalemusser/campusride/internal/app/features/otp"
	ridesfeature "github.com/dalemusser/campusride/internal/app/features/rides"
	loginstore "github.com/dalemusser/campusride/internal/app/store/logins"
	userstore "github.com/dalemusser/campusride/internal/app/store/users"
	"github.com/dalemusser/campusride/internal/app/system/auth"
	"github.com/dalemusser/campusride/internal/app/system/metrics"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed, so every service in deps.Services is
// ready.
//
// The JSON API lives under /api. /health and /metrics sit at the root for
// load balancers and scrapers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	svc := deps.Services
	if svc == nil || svc.Accounts == nil {
		return nil, fmt.Errorf("build handler: services not started")
	}

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser re-reads the user on each request so deleted accounts
	// lose their session immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, appCfg.OTPStore, svc.MapsEnabled, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", metrics.Handler())

	logins := loginstore.New(deps.MongoDatabase)

	otpHandler := otpfeature.NewHandler(svc.OTP, svc.Accounts, sessionMgr, errLog, int(svc.OTP.Expiry().Seconds()), logger)
	otpHandler.Logins = logins
	accountsHandler := accountsfeature.NewHandler(svc.Accounts, sessionMgr, svc.LoginLimiter, errLog, logger)
	accountsHandler.Logins = logins
	ridesHandler := ridesfeature.NewHandler(svc.Rides, errLog, logger)
	mapsHandler := mapsfeature.NewHandler(svc.Maps, errLog, logger)

	r.Route("/api", func(api chi.Router) {
		otpfeature.Register(api, otpHandler)
		accountsfeature.Register(api, accountsHandler, sessionMgr)
		ridesfeature.Register(api, ridesHandler, sessionMgr)
		mapsfeature.Register(api, mapsHandler)
	})

	return r, nil
}
