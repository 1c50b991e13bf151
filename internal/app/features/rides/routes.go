// internal/app/features/rides/routes.go
package rides

import (
	"github.com/dalemusser/campusride/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Register adds the ride endpoints to the /api router.
func Register(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Get("/search-rides", h.HandleSearch)
	r.Get("/nearby-rides", h.HandleNearby)
	r.Get("/ride-history/{userEmail}", h.HandleHistory)
	r.Get("/user-ride-history/{userEmail}", h.HandleHistory)
	r.Get("/user-rides/{email}", h.HandleUserRides)
	r.Get("/rides/{rideId}/route", h.HandleRoute)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/save-ride", h.HandlePost)
		pr.Post("/book-ride/{rideId}", h.HandleBook)
	})
}
