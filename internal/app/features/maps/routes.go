// internal/app/features/maps/routes.go
package maps

import "github.com/go-chi/chi/v5"

// Register adds the map lookup endpoints to the /api router.
func Register(r chi.Router, h *Handler) {
	r.Get("/geocode", h.HandleGeocode)
	r.Get("/autocomplete", h.HandleAutocomplete)
}
