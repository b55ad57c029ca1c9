package feedback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mubs-locator/internal/domain"
	"github.com/mubs-locator/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFeedbackStore struct{ mock.Mock }

func (m *mockFeedbackStore) Put(ctx context.Context, f *domain.Feedback) error {
	return m.Called(ctx, f).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) NotifyFeedbackReceived(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

var t0 = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

func TestSubmit_PersistsThenNotifies(t *testing.T) {
	fs := &mockFeedbackStore{}
	n := &mockNotifier{}
	fs.On("Put", mock.Anything, mock.AnythingOfType("*domain.Feedback")).Return(nil)
	n.On("NotifyFeedbackReceived", mock.Anything, "a@mubs.ac.ug").Return(nil)

	svc := NewService(ServiceDeps{FeedbackRepo: fs, Notifier: n, Clock: &clock.Fixed{T: t0}})
	f, err := svc.Submit(context.Background(), "A@mubs.ac.ug ", domain.SubmitFeedbackRequest{Message: " Map is wrong near Block C "})

	require.NoError(t, err)
	assert.NotEmpty(t, f.FeedbackID)
	assert.Equal(t, "a@mubs.ac.ug", f.UserEmail)
	assert.Equal(t, "General", f.Category)
	assert.Equal(t, "Map is wrong near Block C", f.Message)
	assert.Equal(t, t0, f.CreatedAt)
	fs.AssertExpectations(t)
	n.AssertExpectations(t)
}

func TestSubmit_NotifyFailureIsNotReturned(t *testing.T) {
	fs := &mockFeedbackStore{}
	n := &mockNotifier{}
	fs.On("Put", mock.Anything, mock.Anything).Return(nil)
	n.On("NotifyFeedbackReceived", mock.Anything, mock.Anything).Return(errors.New("fcm down"))

	_, err := NewService(ServiceDeps{FeedbackRepo: fs, Notifier: n}).
		Submit(context.Background(), "a@mubs.ac.ug", domain.SubmitFeedbackRequest{Message: "hi"})
	require.NoError(t, err)
}

func TestSubmit_EmptyMessage(t *testing.T) {
	fs := &mockFeedbackStore{}
	_, err := NewService(ServiceDeps{FeedbackRepo: fs}).
		Submit(context.Background(), "a@mubs.ac.ug", domain.SubmitFeedbackRequest{Message: "   "})

	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	fs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestSubmit_StoreFailureSkipsNotify(t *testing.T) {
	fs := &mockFeedbackStore{}
	n := &mockNotifier{}
	fs.On("Put", mock.Anything, mock.Anything).Return(errors.New("throttled"))

	_, err := NewService(ServiceDeps{FeedbackRepo: fs, Notifier: n}).
		Submit(context.Background(), "a@mubs.ac.ug", domain.SubmitFeedbackRequest{Message: "hi"})

	require.Error(t, err)
	n.AssertNotCalled(t, "NotifyFeedbackReceived", mock.Anything, mock.Anything)
}
