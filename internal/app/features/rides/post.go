// internal/app/features/rides/post.go
package rides

import (
	"context"
	"net/http"

	ridesvc "github.com/dalemusser/campusride/internal/app/services/rides"
	"github.com/dalemusser/campusride/internal/app/system/auth"
	"github.com/dalemusser/campusride/internal/app/system/jsonio"
	"github.com/dalemusser/campusride/internal/app/system/normalize"
	"github.com/dalemusser/campusride/internal/app/system/timeouts"
)

type postResponse struct {
	Success bool   `json:"success"`
	RideID  string `json:"rideId"`
	Message string `json:"message"`
}

// HandlePost creates a ride driven by the signed-in user.
// POST /api/save-ride
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	cu, _ := auth.CurrentUser(r)

	var in ridesvc.PostInput
	if err := jsonio.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "Invalid request body", err)
		return
	}
	if in.DriverEmail == "" {
		in.DriverEmail = cu.Email
	}
	if normalize.Email(in.DriverEmail) != cu.Email {
		h.ErrLog.LogForbidden(w, r, "You can only post rides as yourself")
		return
	}

	// Geocoding both endpoints can take two upstream calls.
	ctx, cancel := context.WithTimeout(r.Context(), 2*timeouts.Upstream()+timeouts.Short())
	defer cancel()

	ride, err := h.Rides.Post(ctx, in)
	if err != nil {
		h.ErrLog.Respond(w, r, "post ride failed", err)
		return
	}
	jsonio.OK(w, postResponse{Success: true, RideID: ride.ID.Hex(), Message: "Ride posted successfully"})
}
