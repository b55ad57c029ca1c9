package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mubs-locator/internal/domain"
	"github.com/mubs-locator/internal/pkg/validate"
)

const (
	defaultCategory    = "General"
	feedbackAckBody    = "Thank you! Your feedback has been sent successfully."
	defaultSimpleBody  = "New notification from %s!"
	defaultSimpleTitle = "%s Update"
)

// Pusher is implemented by the FCM and SNS push providers.
type Pusher interface {
	Send(ctx context.Context, msg *domain.PushMessage) (string, error)
	SubscribeToTopic(ctx context.Context, tokens []string, topic string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error)
}

type Service interface {
	Broadcast(ctx context.Context, req domain.BroadcastRequest) (string, error)
	SendSimple(ctx context.Context, req domain.SimpleNotificationRequest) (*domain.SimpleNotificationResult, error)
	NotifyFeedbackReceived(ctx context.Context, email string) error
	ReplyToFeedback(ctx context.Context, req domain.FeedbackReplyRequest) (string, error)
}

type Config struct {
	AppName         string
	Topic           string
	ClickAction     string
	BroadcastPrefix string
}

type ServiceDeps struct {
	Pusher   Pusher
	UserRepo userStore
	Config   Config
}

type service struct {
	pusher Pusher
	users  userStore
	cfg    Config
}

func NewService(deps ServiceDeps) Service {
	cfg := deps.Config
	if cfg.Topic == "" {
		cfg.Topic = domain.TopicAllUsers
	}
	if cfg.AppName == "" {
		cfg.AppName = "MUBS Locator"
	}
	if cfg.BroadcastPrefix == "" {
		cfg.BroadcastPrefix = "MUBS"
	}
	return &service{pusher: deps.Pusher, users: deps.UserRepo, cfg: cfg}
}

func (s *service) Broadcast(ctx context.Context, req domain.BroadcastRequest) (string, error) {
	category := strings.TrimSpace(req.Title)
	if category == "" {
		category = defaultCategory
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return "", fmt.Errorf("message is required: %w", domain.ErrInvalidArgument)
	}
	return s.send(ctx, &domain.PushMessage{
		Topic:       s.cfg.Topic,
		Title:       fmt.Sprintf("%s: %s", s.cfg.BroadcastPrefix, category),
		Body:        body,
		Data:        map[string]string{"category": category, "click_action": s.cfg.ClickAction},
		ClickAction: s.cfg.ClickAction,
	})
}

func (s *service) SendSimple(ctx context.Context, req domain.SimpleNotificationRequest) (*domain.SimpleNotificationResult, error) {
	title := orDefault(req.Title, fmt.Sprintf(defaultSimpleTitle, s.cfg.AppName))
	body := orDefault(req.Body, fmt.Sprintf(defaultSimpleBody, s.cfg.AppName))
	category := orDefault(req.Category, defaultCategory)

	id, err := s.send(ctx, &domain.PushMessage{
		Topic: s.cfg.Topic,
		Title: title,
		Body:  body,
		Data: map[string]string{
			"title":        title,
			"body":         body,
			"category":     category,
			"click_action": s.cfg.ClickAction,
		},
		ClickAction: s.cfg.ClickAction,
		APNSAlert:   true,
	})
	if err != nil {
		return nil, err
	}
	return &domain.SimpleNotificationResult{ID: id, Title: title, Body: body, Category: category}, nil
}

// NotifyFeedbackReceived acknowledges a feedback submission on the sender's
// device. Users without a registered token are skipped.
func (s *service) NotifyFeedbackReceived(ctx context.Context, email string) error {
	email = domain.NormalizeIdentity(email)
	if email == "" {
		return nil
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load user %s: %w", email, err)
	}
	if u.FCMToken == "" {
		return nil
	}
	_, err = s.send(ctx, &domain.PushMessage{
		Token: u.FCMToken,
		Title: s.cfg.AppName,
		Body:  feedbackAckBody,
	})
	return err
}

func (s *service) ReplyToFeedback(ctx context.Context, req domain.FeedbackReplyRequest) (string, error) {
	req.UserEmail = domain.NormalizeIdentity(req.UserEmail)
	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	if err := validate.Struct(req); err != nil {
		return "", fmt.Errorf("%v: %w", err, domain.ErrInvalidArgument)
	}

	u, err := s.users.GetByEmail(ctx, req.UserEmail)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("user %s: %w", req.UserEmail, domain.ErrNotFound)
		}
		return "", fmt.Errorf("load user %s: %w", req.UserEmail, err)
	}
	if u.FCMToken == "" {
		return "", fmt.Errorf("user %s has no push token: %w", req.UserEmail, domain.ErrNotFound)
	}
	return s.send(ctx, &domain.PushMessage{
		Token:       u.FCMToken,
		Title:       req.Title,
		Body:        req.Body,
		Data:        map[string]string{"type": "feedback_reply"},
		ClickAction: s.cfg.ClickAction,
	})
}

func (s *service) send(ctx context.Context, msg *domain.PushMessage) (string, error) {
	id, err := s.pusher.Send(ctx, msg)
	if err != nil {
		slog.Error("push send failed", "topic", msg.Topic, "has_token", msg.Token != "", "err", err)
		return "", fmt.Errorf("push: %w: %w", domain.ErrUpstream, err)
	}
	return id, nil
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
