// internal/app/features/accounts/profile.go
package accounts

import (
	"context"
	"net/http"

	"github.com/dalemusser/campusride/internal/app/services/account"
	"github.com/dalemusser/campusride/internal/app/system/auth"
	"github.com/dalemusser/campusride/internal/app/system/jsonio"
	"github.com/dalemusser/campusride/internal/app/system/normalize"
	"github.com/dalemusser/campusride/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleGetUser returns a user's profile and stats.
// GET /api/user/{email}
func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Accounts.GetUser(ctx, chi.URLParam(r, "email"))
	if err != nil {
		h.ErrLog.Respond(w, r, "get user failed", err)
		return
	}
	jsonio.OK(w, u)
}

// HandleUpdateStats overwrites the posted stats. Users may only update
// their own record.
// POST /api/update-user/{email}
func (h *Handler) HandleUpdateStats(w http.ResponseWriter, r *http.Request) {
	email := normalize.Email(chi.URLParam(r, "email"))
	if cu, ok := auth.CurrentUser(r); !ok || cu.Email != email {
		h.ErrLog.LogForbidden(w, r, "You can only update your own stats")
		return
	}

	var patch account.StatsPatch
	if err := jsonio.Decode(w, r, &patch); err != nil {
		h.ErrLog.LogBadRequest(w, r, "Invalid request body", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Accounts.UpdateStats(ctx, email, patch); err != nil {
		h.ErrLog.Respond(w, r, "update stats failed", err)
		return
	}
	jsonio.OK(w, okResponse{Success: true, Message: "User stats updated successfully"})
}
