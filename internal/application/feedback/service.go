package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mubs-locator/internal/domain"
	"github.com/mubs-locator/internal/pkg/clock"
	"github.com/mubs-locator/internal/pkg/id"
	"github.com/mubs-locator/internal/pkg/validate"
)

type Service interface {
	Submit(ctx context.Context, email string, req domain.SubmitFeedbackRequest) (*domain.Feedback, error)
}

type feedbackStore interface {
	Put(ctx context.Context, f *domain.Feedback) error
}

// notifier acknowledges a submission on the user's device.
type notifier interface {
	NotifyFeedbackReceived(ctx context.Context, email string) error
}

type ServiceDeps struct {
	FeedbackRepo feedbackStore
	Notifier     notifier
	Clock        clock.Clocker
}

type service struct {
	repo     feedbackStore
	notifier notifier
	clock    clock.Clocker
}

func NewService(deps ServiceDeps) Service {
	clk := deps.Clock
	if clk == nil {
		clk = clock.System{}
	}
	return &service{repo: deps.FeedbackRepo, notifier: deps.Notifier, clock: clk}
}

func (s *service) Submit(ctx context.Context, email string, req domain.SubmitFeedbackRequest) (*domain.Feedback, error) {
	email = domain.NormalizeIdentity(email)
	if email == "" {
		return nil, fmt.Errorf("caller has no email: %w", domain.ErrInvalidArgument)
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidArgument)
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "General"
	}

	now := s.clock.Now().UTC()
	f := &domain.Feedback{
		FeedbackID: id.NewAt(now),
		UserEmail:  email,
		Category:   category,
		Message:    req.Message,
		CreatedAt:  now,
	}
	if err := s.repo.Put(ctx, f); err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyFeedbackReceived(ctx, email); err != nil {
			slog.Warn("feedback acknowledgement push failed", "feedback_id", f.FeedbackID, "err", err)
		}
	}
	return f, nil
}
