package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mubs-locator/internal/domain"
	"github.com/mubs-locator/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockNotificationSvc struct{ mock.Mock }

func (m *mockNotificationSvc) Broadcast(ctx context.Context, req domain.BroadcastRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockNotificationSvc) SendSimple(ctx context.Context, req domain.SimpleNotificationRequest) (*domain.SimpleNotificationResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*domain.SimpleNotificationResult)
	return res, args.Error(1)
}

func (m *mockNotificationSvc) NotifyFeedbackReceived(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockNotificationSvc) ReplyToFeedback(ctx context.Context, req domain.FeedbackReplyRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type mockFeedbackSvc struct{ mock.Mock }

func (m *mockFeedbackSvc) Submit(ctx context.Context, email string, req domain.SubmitFeedbackRequest) (*domain.Feedback, error) {
	args := m.Called(ctx, email, req)
	f, _ := args.Get(0).(*domain.Feedback)
	return f, args.Error(1)
}

type mockUserSvc struct{ mock.Mock }

func (m *mockUserSvc) RegisterPushToken(ctx context.Context, email, token string) error {
	return m.Called(ctx, email, token).Error(0)
}

type mockDirectionsSvc struct{ mock.Mock }

func (m *mockDirectionsSvc) Get(ctx context.Context, origin, destination, mode string) (json.RawMessage, error) {
	args := m.Called(ctx, origin, destination, mode)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

// --- helpers ---

func asUser(r *http.Request, email string) *http.Request {
	return r.WithContext(middleware.WithPrincipal(r.Context(), &domain.Principal{UserID: "u1", Email: email}))
}

func jsonReq(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return httptest.NewRequest(method, target, bytes.NewReader(raw))
}

// --- notifications ---

func TestNotificationGlobal_OK(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("Broadcast", mock.Anything, domain.BroadcastRequest{Title: "Events", Body: "Open day"}).Return("msg-1", nil)

	rr := httptest.NewRecorder()
	NewNotificationHandler(svc).Global(rr, jsonReq(t, http.MethodPost, "/", domain.BroadcastRequest{Title: "Events", Body: "Open day"}))

	assert.Equal(t, http.StatusOK, rr.Code)
	var env MessageEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "msg-1", env.ID)
}

func TestNotificationGlobal_MissingBody(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("Broadcast", mock.Anything, mock.Anything).Return("", domain.ErrInvalidArgument)

	rr := httptest.NewRecorder()
	NewNotificationHandler(svc).Global(rr, jsonReq(t, http.MethodPost, "/", domain.BroadcastRequest{Title: "Events"}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNotificationSimple_EmptyBodyUsesDefaults(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("SendSimple", mock.Anything, domain.SimpleNotificationRequest{}).Return(&domain.SimpleNotificationResult{
		ID: "msg-2", Title: "MUBS Locator Update", Body: "New notification from MUBS Locator!", Category: "General",
	}, nil)

	rr := httptest.NewRecorder()
	NewNotificationHandler(svc).Simple(rr, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var env SimpleNotificationEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "General", env.Category)
}

func TestNotificationFeedbackReply_UnknownUser(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("ReplyToFeedback", mock.Anything, mock.Anything).Return("", domain.ErrNotFound)

	rr := httptest.NewRecorder()
	NewNotificationHandler(svc).FeedbackReply(rr, jsonReq(t, http.MethodPost, "/", domain.FeedbackReplyRequest{
		UserEmail: "ghost@mubs.ac.ug", Title: "t", Body: "b",
	}))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNotificationFeedbackReply_PushFailure(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("ReplyToFeedback", mock.Anything, mock.Anything).Return("", errors.Join(domain.ErrUpstream, errors.New("fcm")))

	rr := httptest.NewRecorder()
	NewNotificationHandler(svc).FeedbackReply(rr, jsonReq(t, http.MethodPost, "/", domain.FeedbackReplyRequest{}))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

// --- feedback ---

func TestFeedbackSubmit_UsesCallerEmail(t *testing.T) {
	svc := &mockFeedbackSvc{}
	req := domain.SubmitFeedbackRequest{Category: "Maps", Message: "Block C is missing"}
	svc.On("Submit", mock.Anything, "a@mubs.ac.ug", req).Return(&domain.Feedback{FeedbackID: "01J", UserEmail: "a@mubs.ac.ug"}, nil)

	rr := httptest.NewRecorder()
	NewFeedbackHandler(svc).Submit(rr, asUser(jsonReq(t, http.MethodPost, "/", req), "a@mubs.ac.ug"))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":"01J"`)
	svc.AssertExpectations(t)
}

func TestFeedbackSubmit_NoPrincipal(t *testing.T) {
	rr := httptest.NewRecorder()
	NewFeedbackHandler(&mockFeedbackSvc{}).Submit(rr, jsonReq(t, http.MethodPost, "/", domain.SubmitFeedbackRequest{}))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

// --- users ---

func TestRegisterPushToken_OK(t *testing.T) {
	svc := &mockUserSvc{}
	svc.On("RegisterPushToken", mock.Anything, "a@mubs.ac.ug", "tok").Return(nil)

	rr := httptest.NewRecorder()
	NewUserHandler(svc).RegisterPushToken(rr, asUser(jsonReq(t, http.MethodPut, "/", domain.RegisterPushTokenRequest{Token: "tok"}), "a@mubs.ac.ug"))

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

// --- directions ---

func TestDirectionsGet_PassesThroughBody(t *testing.T) {
	svc := &mockDirectionsSvc{}
	svc.On("Get", mock.Anything, "Library", "Main Hall", "").Return(json.RawMessage(`{"status":"OK","routes":[]}`), nil)

	rr := httptest.NewRecorder()
	NewDirectionsHandler(svc).Get(rr, httptest.NewRequest(http.MethodGet, "/directions?origin=Library&destination=Main+Hall", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"OK","routes":[]}`, rr.Body.String())
}

func TestDirectionsGet_MissingParams(t *testing.T) {
	svc := &mockDirectionsSvc{}
	svc.On("Get", mock.Anything, "", "", "").Return(nil, domain.ErrInvalidArgument)

	rr := httptest.NewRecorder()
	NewDirectionsHandler(svc).Get(rr, httptest.NewRequest(http.MethodGet, "/directions", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- health ---

func TestHealthPing(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/health-check/{action}", NewHealthHandler().Ping)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health-check/ping", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pong")

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health-check/nope", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
