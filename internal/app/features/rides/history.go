// internal/app/features/rides/history.go
package rides

import (
	"context"
	"net/http"

	"github.com/dalemusser/campusride/internal/app/system/jsonio"
	"github.com/dalemusser/campusride/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleHistory returns the user's bookings as driver and as passenger.
// GET /api/ride-history/{userEmail}
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	recs, err := h.Rides.History(ctx, chi.URLParam(r, "userEmail"))
	if err != nil {
		h.ErrLog.Respond(w, r, "ride history failed", err)
		return
	}
	jsonio.OK(w, map[string]any{"success": true, "rides": recs})
}

// HandleUserRides returns the user's completed and cancelled rides.
// GET /api/user-rides/{email}
func (h *Handler) HandleUserRides(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Rides.UserRides(ctx, chi.URLParam(r, "email"))
	if err != nil {
		h.ErrLog.Respond(w, r, "user rides failed", err)
		return
	}
	jsonio.OK(w, map[string]any{"success": true, "rides": list})
}

// HandleRoute returns driving distance and duration for a ride.
// GET /api/rides/{rideId}/route
func (h *Handler) HandleRoute(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upstream()+timeouts.Short())
	defer cancel()

	route, err := h.Rides.RouteFor(ctx, chi.URLParam(r, "rideId"))
	if err != nil {
		h.ErrLog.Respond(w, r, "ride route failed", err)
		return
	}
	jsonio.OK(w, map[string]any{"success": true, "route": route})
}
