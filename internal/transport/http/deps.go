package http

import (
	"context"
	"encoding/json"

	"github.com/mubs-locator/internal/domain"
)

// UserRepository is the minimal interface the router requires from a user profile store.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error)
	SetPushToken(ctx context.Context, email, token string) error
}

// FeedbackRepository is the minimal interface the router requires from a feedback store.
type FeedbackRepository interface {
	Put(ctx context.Context, f *domain.Feedback) error
}

// DirectionsClient fetches a raw directions document from the maps provider.
type DirectionsClient interface {
	Route(ctx context.Context, origin, destination, mode string) (json.RawMessage, error)
}
