package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/markyai/studio-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Get("/api/auth/me", handlers.GetMe)
	r.Post("/api/auth/signout", handlers.Signout)
	r.Post("/api/auth/forgot-password", handlers.ForgotPassword)
	r.Post("/api/auth/reset-password", handlers.ResetPassword)

	// Image generation (stateless relay; saving is a separate call)
	r.Post("/api/generate-image", handlers.GenerateImage)

	// Generated-image gallery
	r.Post("/api/images", handlers.SaveImage)
	r.Get("/api/images", handlers.ListImages)
	r.Delete("/api/images", handlers.DeleteImage)

	// Onboarding wizard
	r.Post("/api/onboarding/start", handlers.StartOnboarding)
	r.Post("/api/onboarding/next", handlers.OnboardingNext)
	r.Post("/api/onboarding/back", handlers.OnboardingBack)
	r.Post("/api/onboarding/jump", handlers.OnboardingJump)
	r.Post("/api/onboarding/skip", handlers.OnboardingSkip)
	r.Post("/api/onboarding/complete", handlers.OnboardingComplete)

	// Onboarding profile
	r.Get("/api/profile", handlers.GetProfile)
	r.Put("/api/profile", handlers.SaveProfile)

	// Reference photo upload
	r.Post("/api/upload", handlers.UploadFile)

	// Transactional email relay (legacy path kept for older frontends)
	r.Post("/api/send-email", handlers.SendEmail)
	r.Post("/send-email", handlers.SendEmail)
}
