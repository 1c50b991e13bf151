package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/campusride/internal/app/system/jsonio"
	"github.com/dalemusser/campusride/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client   *mongo.Client
	OTPStore string // "mongo" or "memory"
	Maps     bool   // geocoding key configured
	Log      *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client and logger.
func NewHandler(client *mongo.Client, otpStore string, mapsEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{
		Client:   client,
		OTPStore: otpStore,
		Maps:     mapsEnabled,
		Log:      logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	OTPStore string `json:"otpStore,omitempty"`
	Maps     string `json:"maps"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "otpStore":"mongo", "maps":"enabled" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
		OTPStore: h.OTPStore,
		Maps:     "disabled",
	}
	if h.Maps {
		resp.Maps = "enabled"
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		jsonio.Write(w, http.StatusServiceUnavailable, resp)
		return
	}

	jsonio.Write(w, http.StatusOK, resp)
}
