// internal/app/features/maps/handler.go
package maps

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/campusride/internal/app/features/errors"
	"github.com/dalemusser/campusride/internal/app/system/apperr"
	"github.com/dalemusser/campusride/internal/app/system/jsonio"
	"github.com/dalemusser/campusride/internal/app/system/maps"
	"github.com/dalemusser/campusride/internal/app/system/metrics"
	"github.com/dalemusser/campusride/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// minAutocompleteInput is the shortest input sent upstream.
const minAutocompleteInput = 3

type Handler struct {
	Maps   maps.Service
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(svc maps.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Maps: svc, ErrLog: errLog, Log: logger}
}

// HandleGeocode resolves an address to coordinates.
// GET /api/geocode?address=
func (h *Handler) HandleGeocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		h.ErrLog.LogBadRequest(w, r, "Address is required", nil)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, "geocode")
	defer cancel()

	c, err := h.Maps.Geocode(ctx, address)
	if err != nil {
		h.ErrLog.Respond(w, r, "geocode failed", upstreamErr(err, "Could not find that location"))
		return
	}
	jsonio.OK(w, map[string]any{"success": true, "address": address, "coords": c})
}

// HandleAutocomplete suggests places for a partial input. Inputs shorter
// than three characters return an empty list without calling upstream.
// GET /api/autocomplete?input=
func (h *Handler) HandleAutocomplete(w http.ResponseWriter, r *http.Request) {
	input := strings.TrimSpace(r.URL.Query().Get("input"))
	if len([]rune(input)) < minAutocompleteInput {
		jsonio.OK(w, map[string]any{"success": true, "predictions": []maps.Place{}})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, "autocomplete")
	defer cancel()

	places, err := h.Maps.Autocomplete(ctx, input)
	if err != nil && !errors.Is(err, maps.ErrNoResults) {
		h.ErrLog.Respond(w, r, "autocomplete failed", upstreamErr(err, "Place suggestions are unavailable"))
		return
	}
	if places == nil {
		places = []maps.Place{}
	}
	jsonio.OK(w, map[string]any{"success": true, "predictions": places})
}

func upstreamErr(err error, msg string) error {
	switch {
	case errors.Is(err, maps.ErrNoResults):
		return apperr.Wrap(apperr.NotFound, msg, err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.Timeout, "The map service timed out. Please try again.", err)
	default:
		metrics.UpstreamErrors.WithLabelValues("maps").Inc()
		return apperr.Wrap(apperr.Geocoding, msg, err)
	}
}
