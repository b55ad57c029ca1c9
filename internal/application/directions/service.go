package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mubs-locator/internal/domain"
	"github.com/mubs-locator/internal/pkg/validate"
)

const DefaultMode = "walking"

type router interface {
	Route(ctx context.Context, origin, destination, mode string) (json.RawMessage, error)
}

type Service interface {
	Get(ctx context.Context, origin, destination, mode string) (json.RawMessage, error)
}

type service struct {
	router router
}

func NewService(r router) Service {
	return &service{router: r}
}

func (s *service) Get(ctx context.Context, origin, destination, mode string) (json.RawMessage, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return nil, fmt.Errorf("missing origin or destination: %w", domain.ErrInvalidArgument)
	}
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = DefaultMode
	}
	if err := validate.Var("mode", mode, "oneof=walking driving bicycling transit"); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidArgument)
	}
	return s.router.Route(ctx, origin, destination, mode)
}
