// internal/app/features/accounts/signup.go
package accounts

import (
	"context"
	"net/http"

	"github.com/dalemusser/campusride/internal/app/services/account"
	"github.com/dalemusser/campusride/internal/app/system/jsonio"
	"github.com/dalemusser/campusride/internal/app/system/timeouts"
)

// HandleRegister stores the signup and mails a verification code. The
// account is created by POST /api/verify-otp.
// POST /api/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req account.Registration
	if err := jsonio.Decode(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "Invalid request body", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Accounts.Register(ctx, req); err != nil {
		h.ErrLog.Respond(w, r, "register failed", err)
		return
	}
	jsonio.OK(w, okResponse{Success: true, Message: "Verification code sent. Check your email."})
}

// HandleSaveUser creates an account from a full signup form. It is verified
// only if the email already passed /api/verify-otp.
// POST /api/save-user
func (h *Handler) HandleSaveUser(w http.ResponseWriter, r *http.Request) {
	var req account.Registration
	if err := jsonio.Decode(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "Invalid request body", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Accounts.SaveUser(ctx, req); err != nil {
		h.ErrLog.Respond(w, r, "save user failed", err)
		return
	}
	jsonio.OK(w, okResponse{Success: true})
}
