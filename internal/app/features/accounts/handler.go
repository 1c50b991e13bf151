// internal/app/features/accounts/handler.go
package accounts

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/campusride/internal/app/features/errors"
	"github.com/dalemusser/campusride/internal/app/services/account"
	"github.com/dalemusser/campusride/internal/app/system/auth"
	"github.com/dalemusser/campusride/internal/app/system/ratelimit"
	"github.com/dalemusser/campusride/internal/domain/models"
	"go.uber.org/zap"
)

// LoginRecorder stores successful sign-ins.
type LoginRecorder interface {
	Record(ctx context.Context, r *http.Request, email, method string) error
}

type Handler struct {
	Accounts     *account.Service
	SessionMgr   *auth.SessionManager
	LoginLimiter *ratelimit.LoginLimiter // nil disables throttling
	Logins       LoginRecorder           // optional
	ErrLog       *uierrors.ErrorLogger
	Log          *zap.Logger
}

func NewHandler(accounts *account.Service, sessionMgr *auth.SessionManager, limiter *ratelimit.LoginLimiter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Accounts:     accounts,
		SessionMgr:   sessionMgr,
		LoginLimiter: limiter,
		ErrLog:       errLog,
		Log:          logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Response shapes                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

type okResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// userSummary is the user snapshot returned by login.
type userSummary struct {
	Email         string  `json:"email"`
	Name          string  `json:"name"`
	Role          string  `json:"role"`
	EmailVerified bool    `json:"emailVerified"`
	TotalRides    int     `json:"totalRides"`
	MoneySaved    float64 `json:"moneySaved"`
	Completed     int     `json:"completed"`
	Rating        float64 `json:"rating"`
}

func summarize(u *models.User) userSummary {
	return userSummary{
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		TotalRides:    u.TotalRides,
		MoneySaved:    u.MoneySaved,
		Completed:     u.Completed,
		Rating:        u.Rating,
	}
}
