// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/campusride/internal/app/system/jsonio"
)

// NotFound is the router's fallback for unknown paths.
func NotFound(w http.ResponseWriter, r *http.Request) {
	jsonio.Write(w, http.StatusNotFound, Body{Error: "Not found"})
}

// MethodNotAllowed is the router's fallback for a known path with the wrong
// method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonio.Write(w, http.StatusMethodNotAllowed, Body{Error: "Method not allowed"})
}
