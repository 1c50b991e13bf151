// internal/app/features/otp/routes.go
package otp

import "github.com/go-chi/chi/v5"

// Register adds the OTP endpoints to the /api router.
func Register(r chi.Router, h *Handler) {
	r.Post("/send-otp", h.HandleSend)
	r.Post("/verify-otp", h.HandleVerify)
}
