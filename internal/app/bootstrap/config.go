// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dalemusser/campusride/internal/app/system/maps"
	"github.com/dalemusser/campusride/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for CampusRide.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: CAMPUSRIDE_MONGO_URI, CAMPUSRIDE_OTP_STORE, etc.
//   - Command-line flags: --mongo_uri, --otp_store, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "campus_ride", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "campusride-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "168h", Desc: "Session cookie lifetime"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@campusride.app", Desc: "From email address"},
	{Name: "mail_from_name", Default: "Student Ride Sharing", Desc: "From display name"},
	{Name: "site_name", Default: "Student Ride Sharing", Desc: "Product name used in emails"},

	// OTP registry
	{Name: "otp_expiry", Default: "10m", Desc: "OTP lifetime (e.g., 10m, 90s)"},
	{Name: "otp_store", Default: "mongo", Desc: "OTP storage: 'mongo' or 'memory' (single instance only)"},
	{Name: "otp_resend_cooldown", Default: "30s", Desc: "Minimum gap between two OTPs for one email"},
	{Name: "otp_sweep_interval", Default: "1m", Desc: "How often the memory OTP store drops expired codes"},

	// Accounts
	{Name: "pending_registration_expiry", Default: "24h", Desc: "How long an unverified signup is kept"},
	{Name: "institution_email_domain", Default: "vit.edu", Desc: "Email domain allowed to register"},
	{Name: "seed_demo_users", Default: false, Desc: "Create the demo rider and passenger accounts on startup"},

	// Rides
	{Name: "timezone", Default: "Asia/Kolkata", Desc: "IANA time zone ride dates are interpreted in"},
	{Name: "nearby_radius_meters", Default: 500, Desc: "Default radius for nearby ride search"},
	{Name: "money_saved_ratio", Default: "0.5", Desc: "Share of the fare credited to a passenger as money saved"},

	// Maps
	{Name: "maps_api_key", Default: "", Desc: "Google Maps API key (blank disables geocoding)"},
	{Name: "maps_bounds", Default: "", Desc: "Lookup bias as swLat,swLng,neLat,neLng (blank means Pune)"},
	{Name: "maps_country", Default: "in", Desc: "Autocomplete country restriction"},

	// Events
	{Name: "amqp_url", Default: "", Desc: "RabbitMQ URL for ride events (blank disables publishing)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, CAMPUSRIDE_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
//
// Operation timeouts are read separately from TIMEOUT_* variables.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CAMPUSRIDE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	ratio, err := strconv.ParseFloat(appValues.String("money_saved_ratio"), 64)
	if err != nil {
		return nil, AppConfig{}, fmt.Errorf("money_saved_ratio: %w", err)
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 7*24*time.Hour),

		// Email/SMTP
		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),
		SiteName:     appValues.String("site_name"),

		// OTP
		OTPExpiry:         appValues.Duration("otp_expiry", 10*time.Minute),
		OTPStore:          appValues.String("otp_store"),
		OTPResendCooldown: appValues.Duration("otp_resend_cooldown", 30*time.Second),
		OTPSweepInterval:  appValues.Duration("otp_sweep_interval", time.Minute),

		// Accounts
		PendingExpiry:     appValues.Duration("pending_registration_expiry", 24*time.Hour),
		InstitutionDomain: appValues.String("institution_email_domain"),
		SeedDemoUsers:     appValues.Bool("seed_demo_users"),

		// Rides
		TimeZone:        appValues.String("timezone"),
		NearbyRadius:    float64(appValues.Int("nearby_radius_meters")),
		MoneySavedRatio: ratio,

		// Maps
		MapsAPIKey:  appValues.String("maps_api_key"),
		MapsBounds:  appValues.String("maps_bounds"),
		MapsCountry: appValues.String("maps_country"),

		// Events
		AMQPURL: appValues.String("amqp_url"),
	}

	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts overridden from environment", zap.Int("count", n))
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Everything that can be checked without a network round trip is checked
// here so a bad deploy fails before connecting anywhere.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.OTPStore {
	case "mongo", "memory":
	default:
		return fmt.Errorf("otp_store must be 'mongo' or 'memory', got %q", appCfg.OTPStore)
	}

	if _, err := time.LoadLocation(appCfg.TimeZone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", appCfg.TimeZone, err)
	}

	if _, err := maps.ParseBounds(appCfg.MapsBounds); err != nil {
		return fmt.Errorf("invalid maps_bounds: %w", err)
	}

	if appCfg.MoneySavedRatio < 0 || appCfg.MoneySavedRatio > 1 {
		return fmt.Errorf("money_saved_ratio must be between 0 and 1, got %v", appCfg.MoneySavedRatio)
	}

	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.SessionKey == devSessionKey {
		return fmt.Errorf("session_key must be set in production")
	}

	if appCfg.OTPStore == "memory" {
		logger.Warn("OTP codes are kept in memory; run a single instance only")
	}

	return nil
}
