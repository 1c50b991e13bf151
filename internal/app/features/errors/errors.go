// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/campusride/internal/app/system/apperr"
	"github.com/dalemusser/campusride/internal/app/system/auth"
	"github.com/dalemusser/campusride/internal/app/system/jsonio"
	"go.uber.org/zap"
)

// Body is the JSON shape of every error response.
type Body struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorLogger logs failures and writes the matching JSON error response.
// Server-side detail stays in the log; clients only see the public message.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// Respond maps err to a status with apperr.Status and writes it. 5xx errors
// are logged at error level with what as the message; the rest at debug.
func (e *ErrorLogger) Respond(w http.ResponseWriter, r *http.Request, what string, err error) {
	status := apperr.Status(err)
	fields := e.requestFields(r, err)
	fields = append(fields, zap.Int("status", status))
	if status >= http.StatusInternalServerError {
		e.Log.Error(what, fields...)
	} else {
		e.Log.Debug(what, fields...)
	}
	jsonio.Write(w, status, Body{
		Error:  apperr.PublicMessage(err),
		Fields: apperr.FieldsOf(err),
	})
}

// LogBadRequest writes a 400 with msg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.Log.Debug("bad request", append(e.requestFields(r, err), zap.String("reason", msg))...)
	jsonio.Write(w, http.StatusBadRequest, Body{Error: msg})
}

// LogForbidden writes a 403 with msg.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg string) {
	e.Log.Warn("forbidden", append(e.requestFields(r, nil), zap.String("reason", msg))...)
	jsonio.Write(w, http.StatusForbidden, Body{Error: msg})
}

// LogServerError logs err and writes a 500 with the public message.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, what string, err error, public string) {
	e.Log.Error(what, e.requestFields(r, err)...)
	jsonio.Write(w, http.StatusInternalServerError, Body{Error: public})
}

func (e *ErrorLogger) requestFields(r *http.Request, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if u, ok := auth.CurrentUser(r); ok {
		fields = append(fields, zap.String("user", u.Email))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	return fields
}
