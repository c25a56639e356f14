package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-pomodoro-api/internal/domain"
	jwtinfra "github.com/go-pomodoro-api/internal/infrastructure/jwt"
	"github.com/go-pomodoro-api/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVerificationService struct{ mock.Mock }

func (m *mockVerificationService) Request(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *mockVerificationService) Verify(ctx context.Context, userID, secret string) (bool, error) {
	args := m.Called(ctx, userID, secret)
	return args.Bool(0), args.Error(1)
}
func (m *mockVerificationService) ClearStale(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// verificationRequest builds an authenticated request with the chi action
// param set.
func verificationRequest(action, body, userID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/user/verification/"+action, strings.NewReader(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("action", action)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userID != "" {
		ctx = context.WithValue(ctx, middleware.ClaimsKey, &jwtinfra.Claims{UserID: userID})
	}
	return req.WithContext(ctx)
}

func TestVerificationAction_Unauthenticated(t *testing.T) {
	h := NewVerificationHandler(&mockVerificationService{})
	rec := httptest.NewRecorder()
	h.Action(rec, verificationRequest("request", "", ""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerificationAction_Request(t *testing.T) {
	svc := &mockVerificationService{}
	svc.On("Request", mock.Anything, "u1").Return(nil)

	h := NewVerificationHandler(svc)
	rec := httptest.NewRecorder()
	h.Action(rec, verificationRequest("request", "", "u1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestVerificationAction_VerifyMissingSecret(t *testing.T) {
	h := NewVerificationHandler(&mockVerificationService{})
	rec := httptest.NewRecorder()
	h.Action(rec, verificationRequest("verify", `{}`, "u1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerificationAction_VerifyWrongSecret(t *testing.T) {
	svc := &mockVerificationService{}
	svc.On("Verify", mock.Anything, "u1", "wrong").Return(false, nil)

	h := NewVerificationHandler(svc)
	rec := httptest.NewRecorder()
	h.Action(rec, verificationRequest("verify", `{"secret":"wrong"}`, "u1"))

	require.Equal(t, http.StatusOK, rec.Code)
	var env VerifyEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.False(t, env.Verified)
}

func TestVerificationAction_VerifyAlreadyAccepted(t *testing.T) {
	svc := &mockVerificationService{}
	svc.On("Verify", mock.Anything, "u1", "s3cret").Return(false, domain.ErrUnprocessable)

	h := NewVerificationHandler(svc)
	rec := httptest.NewRecorder()
	h.Action(rec, verificationRequest("verify", `{"secret":"s3cret"}`, "u1"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestVerificationAction_VerifyHappyPath(t *testing.T) {
	svc := &mockVerificationService{}
	svc.On("Verify", mock.Anything, "u1", "s3cret").Return(true, nil)

	h := NewVerificationHandler(svc)
	rec := httptest.NewRecorder()
	h.Action(rec, verificationRequest("verify", `{"secret":"s3cret"}`, "u1"))

	require.Equal(t, http.StatusOK, rec.Code)
	var env VerifyEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.True(t, env.Verified)
}

func TestVerificationAction_UnknownAction(t *testing.T) {
	h := NewVerificationHandler(&mockVerificationService{})
	rec := httptest.NewRecorder()
	h.Action(rec, verificationRequest("resend", "", "u1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
