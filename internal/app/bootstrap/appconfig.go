// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP ports,
// TLS, logging and CORS. Everything specific to ride sharing lives here
// and is passed to most lifecycle hooks.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: campusride-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty for Mailpit)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address
	MailFromName string // From display name
	SiteName     string // Product name used in OTP emails

	// OTP registry
	OTPExpiry         time.Duration
	OTPStore          string // "mongo" or "memory"
	OTPResendCooldown time.Duration
	OTPSweepInterval  time.Duration // memory store only

	// Accounts
	PendingExpiry     time.Duration // unverified signups are dropped after this
	InstitutionDomain string        // only addresses at this domain may sign up
	SeedDemoUsers     bool

	// Rides
	TimeZone        string  // IANA zone ride dates are interpreted in
	NearbyRadius    float64 // meters
	MoneySavedRatio float64 // share of the fare credited to a passenger

	// Maps provider (blank key disables geocoding)
	MapsAPIKey  string
	MapsBounds  string // "swLat,swLng,neLat,neLng"
	MapsCountry string

	// Domain events (blank URL disables publishing)
	AMQPURL string
}
