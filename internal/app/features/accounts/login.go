// internal/app/features/accounts/login.go
package accounts

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/campusride/internal/app/system/auth"
	"github.com/dalemusser/campusride/internal/app/system/jsonio"
	"github.com/dalemusser/campusride/internal/app/system/timeouts"
	"github.com/dalemusser/campusride/internal/domain/models"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success           bool        `json:"success"`
	NeedsVerification bool        `json:"needsVerification,omitempty"`
	Message           string      `json:"message,omitempty"`
	User              userSummary `json:"user"`
}

// HandleLogin checks credentials and signs the user in. An unverified
// account gets a fresh code and needsVerification instead of a session.
// POST /api/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := jsonio.Decode(w, r, &req); err != nil && !errors.Is(err, jsonio.ErrEmptyBody) {
		h.ErrLog.LogBadRequest(w, r, "Invalid request body", err)
		return
	}

	if h.LoginLimiter != nil {
		if ok, reason := h.LoginLimiter.Check(r, req.Email); !ok {
			h.Log.Warn("login throttled", zap.String("email", req.Email))
			jsonio.Write(w, http.StatusTooManyRequests, map[string]any{"success": false, "error": reason})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, err := h.Accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.ErrLog.Respond(w, r, "login failed", err)
		return
	}

	if res.NeedsVerification {
		jsonio.OK(w, loginResponse{
			Success:           true,
			NeedsVerification: true,
			Message:           "Please verify your email. We sent you a new code.",
			User:              summarize(res.User),
		})
		return
	}

	u := res.User
	if err := h.SessionMgr.SignIn(w, r, auth.SessionUser{Email: u.Email, Name: u.Name, Role: u.Role}); err != nil {
		h.ErrLog.LogServerError(w, r, "session save failed", err, "Failed to process login")
		return
	}
	if h.LoginLimiter != nil {
		h.LoginLimiter.ResetEmail(u.Email)
	}
	h.Log.Info("user signed in", zap.String("email", u.Email), zap.String("role", u.Role))
	h.recordLogin(r, u.Email)

	jsonio.OK(w, loginResponse{Success: true, User: summarize(u)})
}

// HandleLogout clears the session.
// POST /api/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("sign out failed", zap.Error(err))
	}
	jsonio.OK(w, okResponse{Success: true, Message: "Logged out"})
}

// HandleMe returns the signed-in user.
// GET /api/me
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	jsonio.OK(w, map[string]any{"success": true, "user": u})
}

func (h *Handler) recordLogin(r *http.Request, email string) {
	if h.Logins == nil {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if err := h.Logins.Record(ctx, r, email, models.LoginMethodPassword); err != nil {
		h.Log.Warn("login record failed", zap.String("email", email), zap.Error(err))
	}
}
