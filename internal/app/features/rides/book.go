// internal/app/features/rides/book.go
package rides

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/campusride/internal/app/system/auth"
	"github.com/dalemusser/campusride/internal/app/system/jsonio"
	"github.com/dalemusser/campusride/internal/app/system/normalize"
	"github.com/dalemusser/campusride/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

type bookRequest struct {
	UserEmail string `json:"userEmail"`
}

type bookResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	HistoryID string `json:"historyId"`
}

// HandleBook books a ride for the signed-in user.
// POST /api/book-ride/{rideId}
func (h *Handler) HandleBook(w http.ResponseWriter, r *http.Request) {
	cu, _ := auth.CurrentUser(r)

	var req bookRequest
	if err := jsonio.Decode(w, r, &req); err != nil && !errors.Is(err, jsonio.ErrEmptyBody) {
		h.ErrLog.LogBadRequest(w, r, "Invalid request body", err)
		return
	}
	email := normalize.Email(req.UserEmail)
	if email == "" {
		email = cu.Email
	}
	if email != cu.Email {
		h.ErrLog.LogForbidden(w, r, "You can only book rides for yourself")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	b, err := h.Rides.Book(ctx, chi.URLParam(r, "rideId"), email)
	if err != nil {
		h.ErrLog.Respond(w, r, "book ride failed", err)
		return
	}
	jsonio.OK(w, bookResponse{Success: true, Message: "Ride booked successfully", HistoryID: b.HistoryID})
}
