// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/dalemusser/campusride/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Register adds the account endpoints to the /api router.
func Register(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Post("/register", h.HandleRegister)
	r.Post("/save-user", h.HandleSaveUser)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)
	r.Get("/user/{email}", h.HandleGetUser)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/me", h.HandleMe)
		pr.Post("/update-user/{email}", h.HandleUpdateStats)
	})
}
