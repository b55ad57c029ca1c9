package firebaseinfra

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/mubs-locator/internal/domain"
)

type authClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
}

// Auth verifies Firebase ID tokens and manages custom claims.
type Auth struct {
	client authClient
}

func NewAuth(ctx context.Context, app *firebase.App) (*Auth, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &Auth{client: client}, nil
}

// Verify validates a Firebase ID token and maps it to a Principal.
// Returns a domain.ErrUnauthorized-wrapped error if the token is invalid.
func (a *Auth) Verify(ctx context.Context, idToken string) (*domain.Principal, error) {
	tok, err := a.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("invalid firebase token: %w", domain.ErrUnauthorized)
	}
	email, _ := tok.Claims["email"].(string)
	admin, _ := tok.Claims[domain.ClaimAdmin].(bool)
	return &domain.Principal{
		UserID: tok.UID,
		Email:  domain.NormalizeIdentity(email),
		Admin:  admin,
	}, nil
}

// SetCustomClaims replaces the user's custom claims.
func (a *Auth) SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error {
	if err := a.client.SetCustomUserClaims(ctx, uid, claims); err != nil {
		if auth.IsUserNotFound(err) {
			return fmt.Errorf("user %s: %w", uid, domain.ErrNotFound)
		}
		return fmt.Errorf("set custom claims for %s: %w", uid, err)
	}
	return nil
}

// CustomClaims reads the user's current custom claims.
func (a *Auth) CustomClaims(ctx context.Context, uid string) (map[string]interface{}, error) {
	u, err := a.client.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, fmt.Errorf("user %s: %w", uid, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user %s: %w", uid, err)
	}
	if u.CustomClaims == nil {
		return map[string]interface{}{}, nil
	}
	return u.CustomClaims, nil
}
