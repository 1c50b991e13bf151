// internal/app/features/otp/handler.go
package otp

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/campusride/internal/app/features/errors"
	"github.com/dalemusser/campusride/internal/app/services/account"
	"github.com/dalemusser/campusride/internal/app/system/auth"
	"github.com/dalemusser/campusride/internal/app/system/jsonio"
	"github.com/dalemusser/campusride/internal/app/system/timeouts"
	"github.com/dalemusser/campusride/internal/domain/models"
	"go.uber.org/zap"
)

// Issuer sends one-time codes.
type Issuer interface {
	Issue(ctx context.Context, email string) error
}

// Verifier consumes a code and activates the matching account.
type Verifier interface {
	CompleteVerification(ctx context.Context, email, code string) (*account.Session, error)
}

// LoginRecorder stores successful sign-ins.
type LoginRecorder interface {
	Record(ctx context.Context, r *http.Request, email, method string) error
}

type Handler struct {
	Codes      Issuer
	Accounts   Verifier
	SessionMgr *auth.SessionManager
	Logins     LoginRecorder // optional
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger

	expiry int // seconds, echoed to the client for its countdown
}

func NewHandler(codes Issuer, accounts Verifier, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, expirySeconds int, logger *zap.Logger) *Handler {
	return &Handler{
		Codes:      codes,
		Accounts:   accounts,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Log:        logger,
		expiry:     expirySeconds,
	}
}

type sendRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type sendResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type verifyResponse struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	SignedIn bool              `json:"signedIn"`
	User     *auth.SessionUser `json:"user,omitempty"`
}

// HandleSend issues (or reissues) a code for the posted email.
// POST /api/send-otp  {"email": "..."}
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := jsonio.Decode(w, r, &req); err != nil && !errors.Is(err, jsonio.ErrEmptyBody) {
		h.ErrLog.LogBadRequest(w, r, "Invalid request body", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Codes.Issue(ctx, req.Email); err != nil {
		h.ErrLog.Respond(w, r, "send otp failed", err)
		return
	}

	jsonio.OK(w, sendResponse{Success: true, Message: "OTP sent successfully", ExpiresIn: h.expiry})
}

// HandleVerify checks the code. When the verification completes a signup
// or activates an existing account, the user is signed in.
// POST /api/verify-otp  {"email": "...", "otp": "123456"}
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := jsonio.Decode(w, r, &req); err != nil && !errors.Is(err, jsonio.ErrEmptyBody) {
		h.ErrLog.LogBadRequest(w, r, "Invalid request body", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sess, err := h.Accounts.CompleteVerification(ctx, req.Email, req.OTP)
	if err != nil {
		h.ErrLog.Respond(w, r, "verify otp failed", err)
		return
	}

	resp := verifyResponse{Success: true, Message: "OTP verified successfully"}
	if sess != nil {
		u := auth.SessionUser{Email: sess.Email, Name: sess.Name, Role: sess.Role}
		if err := h.SessionMgr.SignIn(w, r, u); err != nil {
			h.ErrLog.LogServerError(w, r, "session save failed", err, "Verified, but could not sign you in. Please log in.")
			return
		}
		resp.SignedIn = true
		resp.User = &u
		h.recordLogin(r, u.Email)
		h.Log.Info("signed in after verification", zap.String("email", u.Email))
	}
	jsonio.OK(w, resp)
}

func (h *Handler) recordLogin(r *http.Request, email string) {
	if h.Logins == nil {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if err := h.Logins.Record(ctx, r, email, models.LoginMethodOTP); err != nil {
		h.Log.Warn("login record failed", zap.String("email", email), zap.Error(err))
	}
}
