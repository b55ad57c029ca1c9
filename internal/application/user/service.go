package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mubs-locator/internal/domain"
)

type Service interface {
	RegisterPushToken(ctx context.Context, email, token string) error
}

type userStore interface {
	SetPushToken(ctx context.Context, email, token string) error
}

type subscriber interface {
	SubscribeToTopic(ctx context.Context, tokens []string, topic string) error
}

type ServiceDeps struct {
	UserRepo   userStore
	Subscriber subscriber
	Topic      string
}

type service struct {
	repo  userStore
	sub   subscriber
	topic string
}

func NewService(deps ServiceDeps) Service {
	topic := deps.Topic
	if topic == "" {
		topic = domain.TopicAllUsers
	}
	return &service{repo: deps.UserRepo, sub: deps.Subscriber, topic: topic}
}

// RegisterPushToken stores the device token and subscribes it to the broadcast
// topic. A failed subscription is logged; the token stays registered.
func (s *service) RegisterPushToken(ctx context.Context, email, token string) error {
	email = domain.NormalizeIdentity(email)
	token = strings.TrimSpace(token)
	if email == "" || token == "" {
		return fmt.Errorf("email and token are required: %w", domain.ErrInvalidArgument)
	}
	if err := s.repo.SetPushToken(ctx, email, token); err != nil {
		return fmt.Errorf("save push token: %w", err)
	}
	if s.sub != nil {
		if err := s.sub.SubscribeToTopic(ctx, []string{token}, s.topic); err != nil {
			slog.Warn("topic subscription failed", "email", email, "topic", s.topic, "err", err)
		}
	}
	return nil
}
