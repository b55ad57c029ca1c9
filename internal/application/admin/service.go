package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/mubs-locator/internal/domain"
)

type claimsManager interface {
	SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error
	CustomClaims(ctx context.Context, uid string) (map[string]interface{}, error)
}

// Service grants and revokes the admin custom claim. Other claims on the
// user are preserved.
type Service interface {
	Grant(ctx context.Context, uid string) (map[string]interface{}, error)
	Revoke(ctx context.Context, uid string) (map[string]interface{}, error)
}

type service struct {
	claims claimsManager
}

func NewService(cm claimsManager) Service {
	return &service{claims: cm}
}

func (s *service) Grant(ctx context.Context, uid string) (map[string]interface{}, error) {
	return s.update(ctx, uid, func(c map[string]interface{}) { c[domain.ClaimAdmin] = true })
}

func (s *service) Revoke(ctx context.Context, uid string) (map[string]interface{}, error) {
	return s.update(ctx, uid, func(c map[string]interface{}) { delete(c, domain.ClaimAdmin) })
}

func (s *service) update(ctx context.Context, uid string, apply func(map[string]interface{})) (map[string]interface{}, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, fmt.Errorf("uid is required: %w", domain.ErrInvalidArgument)
	}
	current, err := s.claims.CustomClaims(ctx, uid)
	if err != nil {
		return nil, err
	}
	next := make(map[string]interface{}, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	apply(next)
	if err := s.claims.SetCustomClaims(ctx, uid, next); err != nil {
		return nil, err
	}
	return s.claims.CustomClaims(ctx, uid)
}
