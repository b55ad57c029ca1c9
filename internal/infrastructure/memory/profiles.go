package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mubs-locator/internal/domain"
)

type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.UserProfile
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.UserProfile)}
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return &u, nil
}

func (s *UserStore) SetPushToken(_ context.Context, email, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = domain.UserProfile{Email: email, FCMToken: token, UpdatedAt: time.Now().UTC()}
	return nil
}

type FeedbackStore struct {
	mu    sync.Mutex
	items map[string]domain.Feedback
}

func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{items: make(map[string]domain.Feedback)}
}

func (s *FeedbackStore) Put(_ context.Context, f *domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[f.FeedbackID]; ok {
		return fmt.Errorf("feedback %s already exists: %w", f.FeedbackID, domain.ErrConflict)
	}
	s.items[f.FeedbackID] = *f
	return nil
}

// ByUser returns every feedback item submitted by email, in no particular order.
func (s *FeedbackStore) ByUser(email string) []domain.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Feedback
	for _, f := range s.items {
		if f.UserEmail == email {
			out = append(out, f)
		}
	}
	return out
}
