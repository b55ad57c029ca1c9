package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/joho/godotenv"
	"github.com/mubs-locator/internal/application/notification"
	"github.com/mubs-locator/internal/config"
	"github.com/mubs-locator/internal/infrastructure/dynamo"
	firebaseinfra "github.com/mubs-locator/internal/infrastructure/firebase"
	"github.com/mubs-locator/internal/infrastructure/google"
	jwtinfra "github.com/mubs-locator/internal/infrastructure/jwt"
	"github.com/mubs-locator/internal/infrastructure/memory"
	redisinfra "github.com/mubs-locator/internal/infrastructure/redis"
	"github.com/mubs-locator/internal/infrastructure/smtp"
	"github.com/mubs-locator/internal/infrastructure/sns"
	transporthttp "github.com/mubs-locator/internal/transport/http"
	appmiddleware "github.com/mubs-locator/internal/transport/http/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	trusted, err := appmiddleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	deps := &transporthttp.Deps{
		Mailer:         smtp.NewMailer(cfg),
		Directions:     google.NewDirectionsClient(cfg),
		TrustedProxies: trusted,
	}
	if err := wireStores(ctx, cfg, deps); err != nil {
		log.Fatalf("storage: %v", err)
	}

	// Firebase is shared by the default auth and push providers.
	var app *firebase.App
	if cfg.AuthProvider == "firebase" || cfg.PushProvider == "fcm" {
		a, err := firebaseinfra.NewApp(ctx, cfg)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
		app = a
	}

	verifier, err := newVerifier(ctx, cfg, app)
	if err != nil {
		log.Fatalf("auth provider: %v", err)
	}
	deps.Verifier = verifier

	pusher, err := newPusher(ctx, cfg, app)
	if err != nil {
		log.Fatalf("push provider: %v", err)
	}
	deps.Pusher = pusher

	router := transporthttp.NewRouter(ctx, cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, otp_store=%s, auth=%s, push=%s)",
			cfg.AppPort, cfg.AppEnv, cfg.OTPStore, cfg.AuthProvider, cfg.PushProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

// wireStores selects the OTP store from OTP_STORE. Users and feedback live in
// DynamoDB unless everything runs in memory.
func wireStores(ctx context.Context, cfg *config.Config, deps *transporthttp.Deps) error {
	if cfg.OTPStore == "memory" {
		log.Println("WARN: using in-memory stores; data is lost on restart")
		deps.OTPStore = memory.NewOTPStore()
		deps.UserRepo = memory.NewUserStore()
		deps.FeedbackRepo = memory.NewFeedbackStore()
		return nil
	}

	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)
	deps.UserRepo = dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
	deps.FeedbackRepo = dynamo.NewFeedbackRepo(dynamoClient, cfg.DynamoTables.Feedback)

	switch cfg.OTPStore {
	case "dynamo":
		deps.OTPStore = dynamo.NewOTPRepo(dynamoClient, cfg.DynamoTables.OTPCodes)
	case "redis":
		rdb, err := redisinfra.NewClient(ctx, cfg)
		if err != nil {
			return err
		}
		deps.OTPStore = redisinfra.NewOTPStore(rdb)
	default:
		return fmt.Errorf("unknown OTP_STORE %q", cfg.OTPStore)
	}
	return nil
}

func newVerifier(ctx context.Context, cfg *config.Config, app *firebase.App) (appmiddleware.TokenVerifier, error) {
	switch cfg.AuthProvider {
	case "firebase":
		return firebaseinfra.NewAuth(ctx, app)
	case "jwt":
		return jwtinfra.NewProvider(cfg)
	}
	return nil, fmt.Errorf("unknown AUTH_PROVIDER %q", cfg.AuthProvider)
}

func newPusher(ctx context.Context, cfg *config.Config, app *firebase.App) (notification.Pusher, error) {
	switch cfg.PushProvider {
	case "fcm":
		return firebaseinfra.NewPusher(ctx, app, cfg.PushAndroidChannelID)
	case "sns":
		return sns.NewPusher(ctx, cfg)
	}
	return nil, fmt.Errorf("unknown PUSH_PROVIDER %q", cfg.PushProvider)
}
