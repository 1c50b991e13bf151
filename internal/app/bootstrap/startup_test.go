package bootstrap

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/campusride/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:          "mongodb://localhost:27017",
		MongoDatabase:     "campus_ride",
		SessionKey:        testutil.TestSessionKey,
		SessionName:       "campusride-session",
		SessionMaxAge:     time.Hour,
		SiteName:          "Student Ride Sharing",
		OTPExpiry:         10 * time.Minute,
		OTPStore:          "memory",
		OTPResendCooldown: 30 * time.Second,
		OTPSweepInterval:  time.Minute,
		PendingExpiry:     24 * time.Hour,
		InstitutionDomain: "vit.edu",
		SeedDemoUsers:     true,
		TimeZone:          "Asia/Kolkata",
		NearbyRadius:      500,
		MoneySavedRatio:   0.5,
		MapsCountry:       "in",
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{name: "valid", mutate: func(*AppConfig) {}},
		{name: "bad mongo uri", mutate: func(c *AppConfig) { c.MongoURI = "postgres://localhost:5432/rides" }, wantErr: true},
		{name: "unknown otp store", mutate: func(c *AppConfig) { c.OTPStore = "redis" }, wantErr: true},
		{name: "mongo otp store", mutate: func(c *AppConfig) { c.OTPStore = "mongo" }},
		{name: "bad timezone", mutate: func(c *AppConfig) { c.TimeZone = "Mars/Olympus" }, wantErr: true},
		{name: "bad bounds", mutate: func(c *AppConfig) { c.MapsBounds = "1,2,3" }, wantErr: true},
		{name: "custom bounds", mutate: func(c *AppConfig) { c.MapsBounds = "18.4,73.7,18.6,73.9" }},
		{name: "ratio above one", mutate: func(c *AppConfig) { c.MoneySavedRatio = 1.5 }, wantErr: true},
		{name: "dev key in prod", env: "prod", mutate: func(c *AppConfig) { c.SessionKey = devSessionKey }, wantErr: true},
		{name: "dev key in dev", env: "dev", mutate: func(c *AppConfig) { c.SessionKey = devSessionKey }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{Env: tt.env}, cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildMaps_DisabledWithoutKey(t *testing.T) {
	svc, enabled, err := buildMaps(validConfig(), testLogger())
	if err != nil {
		t.Fatalf("buildMaps: %v", err)
	}
	if enabled {
		t.Error("maps should be disabled without an API key")
	}
	if svc == nil {
		t.Error("expected a Disabled service, got nil")
	}
}

func TestBuildHandler_RequiresStartup(t *testing.T) {
	_, err := BuildHandler(&config.CoreConfig{}, validConfig(), DBDeps{Services: &Services{}}, testLogger())
	if err == nil {
		t.Fatal("expected an error before Startup has run")
	}
}

// testApp runs the lifecycle hooks against a test database and serves requests
// through the resulting handler, carrying cookies between calls.
type testApp struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func startApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	appCfg := validConfig()
	coreCfg := &config.CoreConfig{Env: "dev"}
	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db, Services: &Services{}}

	if err := EnsureSchema(ctx, coreCfg, appCfg, deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := Startup(ctx, coreCfg, appCfg, deps, testLogger()); err != nil {
		t.Fatalf("Startup: %v", err)
	}
	// The client is shared between tests, so only the services are shut down.
	t.Cleanup(func() {
		_ = Shutdown(ctx, coreCfg, appCfg, DBDeps{Services: deps.Services}, testLogger())
	})

	h, err := BuildHandler(coreCfg, appCfg, deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}
	return &testApp{t: t, handler: h}
}

func (a *testApp) do(method, target string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range a.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	if set := rec.Result().Cookies(); len(set) > 0 {
		a.cookies = set
	}
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return m
}

func TestApp_HealthMetricsAndFallbacks(t *testing.T) {
	a := startApp(t)

	rec := a.do(http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("/health: got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["otpStore"] != "memory" || body["maps"] != "disabled" {
		t.Errorf("/health body = %v", body)
	}

	rec = a.do(http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "campusride_") {
		t.Errorf("/metrics: got %d", rec.Code)
	}

	rec = a.do(http.MethodGet, "/api/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route: got %d, want 404", rec.Code)
	}
	if body := decodeBody(t, rec); body["success"] != false {
		t.Errorf("unknown route body = %v", body)
	}

	rec = a.do(http.MethodGet, "/api/login", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/login: got %d, want 405", rec.Code)
	}
}

func TestApp_DemoRiderPostsRide(t *testing.T) {
	a := startApp(t)

	rec := a.do(http.MethodPost, "/api/save-ride", map[string]any{"from": "VIT Pune", "to": "Swargate"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("save-ride without session: got %d, want 401", rec.Code)
	}

	rec = a.do(http.MethodPost, "/api/login", map[string]string{"email": "rider@demo.com", "password": "rider123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: got %d body %s", rec.Code, rec.Body.String())
	}

	rec = a.do(http.MethodGet, "/api/me", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "rider@demo.com") {
		t.Fatalf("/api/me: got %d body %s", rec.Code, rec.Body.String())
	}

	ist, _ := time.LoadLocation("Asia/Kolkata")
	date := time.Now().In(ist).AddDate(0, 0, 2).Format("2006-01-02")
	rec = a.do(http.MethodPost, "/api/save-ride", map[string]any{
		"from":       "VIT Pune",
		"to":         "Swargate",
		"date":       date,
		"time":       "09:30",
		"seats":      3,
		"price":      60,
		"fromCoords": map[string]float64{"lat": 18.4636, "lng": 73.8682},
		"toCoords":   map[string]float64{"lat": 18.5018, "lng": 73.8636},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save-ride: got %d body %s", rec.Code, rec.Body.String())
	}

	rec = a.do(http.MethodGet, "/api/search-rides?from=vit&date="+date, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search-rides: got %d", rec.Code)
	}
	rides, _ := decodeBody(t, rec)["rides"].([]any)
	if len(rides) != 1 {
		t.Fatalf("search-rides: got %d rides, want 1", len(rides))
	}

	rec = a.do(http.MethodGet, "/api/user/rider@demo.com", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get user: got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["totalRides"]; got != float64(1) {
		t.Errorf("totalRides = %v, want 1", got)
	}

	rec = a.do(http.MethodPost, "/api/logout", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("logout: got %d", rec.Code)
	}
}
