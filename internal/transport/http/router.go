package http

import (
	"context"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mubs-locator/internal/application/directions"
	"github.com/mubs-locator/internal/application/feedback"
	"github.com/mubs-locator/internal/application/notification"
	"github.com/mubs-locator/internal/application/otp"
	"github.com/mubs-locator/internal/application/user"
	"github.com/mubs-locator/internal/config"
	"github.com/mubs-locator/internal/pkg/clock"
	"github.com/mubs-locator/internal/transport/http/handler"
	appmiddleware "github.com/mubs-locator/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	OTPStore     otp.Store
	UserRepo     UserRepository
	FeedbackRepo FeedbackRepository
	Mailer       otp.Mailer
	Pusher       notification.Pusher
	Verifier     appmiddleware.TokenVerifier
	Directions   DirectionsClient
	Clock        clock.Clocker

	// TrustedProxies may set forwarding headers for rate limiting. Empty trusts none.
	TrustedProxies []netip.Prefix
}

// NewRouter builds and returns the application router. ctx bounds the
// lifetime of background work owned by middleware.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.Verifier)

	// 5 requests/second, burst of 10 per client IP on the OTP endpoints.
	otpRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10, deps.TrustedProxies)

	otpSvc := otp.NewService(otp.ServiceDeps{
		Store:     deps.OTPStore,
		Mailer:    deps.Mailer,
		Generator: otp.NumericGenerator{Digits: cfg.OTPCodeDigits},
		Clock:     deps.Clock,
		Config: otp.Config{
			Window:      cfg.OTPValidity,
			MaxAttempts: cfg.OTPMaxAttempts,
			Subject:     cfg.OTPEmailSubject,
		},
	})
	notifSvc := notification.NewService(notification.ServiceDeps{
		Pusher:   deps.Pusher,
		UserRepo: deps.UserRepo,
		Config: notification.Config{
			AppName:         cfg.AppName,
			Topic:           cfg.PushTopic,
			ClickAction:     cfg.PushClickAction,
			BroadcastPrefix: cfg.BroadcastPrefix,
		},
	})
	feedbackSvc := feedback.NewService(feedback.ServiceDeps{
		FeedbackRepo: deps.FeedbackRepo,
		Notifier:     notifSvc,
		Clock:        deps.Clock,
	})
	userSvc := user.NewService(user.ServiceDeps{
		UserRepo:   deps.UserRepo,
		Subscriber: deps.Pusher,
		Topic:      cfg.PushTopic,
	})
	directionsSvc := directions.NewService(deps.Directions)

	healthH := handler.NewHealthHandler()
	otpH := handler.NewOTPHandler(otpSvc, cfg.OTPAcceptClientCode)
	notifH := handler.NewNotificationHandler(notifSvc)
	feedbackH := handler.NewFeedbackHandler(feedbackSvc)
	userH := handler.NewUserHandler(userSvc)
	directionsH := handler.NewDirectionsHandler(directionsSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.Get("/directions", directionsH.Get)

		r.Group(func(r chi.Router) {
			r.Use(otpRL.Limit)
			r.Post("/otp/send", otpH.Send)
			r.Post("/otp/resend", otpH.Resend)
			r.Post("/otp/verify", otpH.Verify)
		})

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Put("/users/me/push-token", userH.RegisterPushToken)
			r.Post("/feedback", feedbackH.Submit)
			r.Post("/notifications/simple", notifH.Simple)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireAdmin)

				r.Post("/notifications/global", notifH.Global)
				r.Post("/notifications/feedback-reply", notifH.FeedbackReply)
			})
		})
	})

	// Paths used by app builds released before /v1.
	r.With(otpRL.Limit).Post("/sendOTPEmailV2", otpH.Send)
	r.Get("/directions", directionsH.Get)

	return r
}
