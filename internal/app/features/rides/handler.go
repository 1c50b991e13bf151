// internal/app/features/rides/handler.go
package rides

import (
	uierrors "github.com/dalemusser/campusride/internal/app/features/errors"
	ridesvc "github.com/dalemusser/campusride/internal/app/services/rides"
	"go.uber.org/zap"
)

type Handler struct {
	Rides  *ridesvc.Service
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(svc *ridesvc.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Rides:  svc,
		ErrLog: errLog,
		Log:    logger,
	}
}
