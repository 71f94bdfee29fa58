package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/profile"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Health     *handlers.HealthHandler
	Legal      *handlers.LegalHandler
	Webhook    *handlers.WebhookHandler
	Profile    *handlers.ProfileHandler
	Results    *handlers.ResultsHandler
	Scan       *handlers.ScanHandler
	Onboarding *handlers.OnboardingHandler
	Coach      *handlers.CoachHandler
	Future     *handlers.FutureHandler
}

func Setup(app *fiber.App, cfg *config.Config, profiles *profile.Manager, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	api.Get("/legal/privacy", h.Legal.PrivacyPolicy)
	api.Get("/legal/terms", h.Legal.TermsOfService)

	// Device auth: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)

	// Coach articles are static content
	api.Get("/coach/articles", h.Coach.Articles)

	api.Post("/webhooks/revenuecat", h.Webhook.HandleRevenueCat)

	me := api.Group("/me", middleware.JWTProtected(cfg))
	me.Get("/profile", h.Profile.GetProfile)
	me.Patch("/profile", h.Profile.UpdateProfile)
	me.Delete("/", h.Profile.ClearAll)
	me.Get("/premium", h.Profile.GetPremium)
	me.Post("/premium/activate", h.Profile.ActivatePremium)
	me.Get("/history", h.Profile.GetHistory)

	me.Get("/onboarding", h.Onboarding.Get)
	me.Post("/onboarding/back", h.Onboarding.Back)
	me.Post("/onboarding/:step", h.Onboarding.Advance)

	// Scans call the vision vendor: 10 req/min per device
	scans := me.Group("/scans", limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return "scan:" + c.IP() + ":" + c.Get(fiber.HeaderAuthorization)
		},
	}))
	scans.Post("/face", h.Scan.Face)
	scans.Post("/body", h.Scan.Body)
	me.Get("/images/:variant", h.Scan.Images)

	me.Get("/results/face", h.Results.Face)
	me.Get("/results/body", h.Results.Body)
	me.Get("/plan/face", h.Results.FacePlan)
	me.Get("/plan/body", h.Results.BodyPlan)

	me.Get("/coach/messages", h.Coach.Messages)
	me.Post("/coach/messages", h.Coach.Send)

	me.Post("/future", middleware.PremiumRequired(profiles), h.Future.Project)
}
