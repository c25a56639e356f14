package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-pomodoro-api/internal/application/auth"
	"github.com/go-pomodoro-api/internal/domain"
	"github.com/go-pomodoro-api/internal/pkg/validate"
)

// AuthHandler handles login, registration, token refresh and logout.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	result, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	http.SetCookie(w, h.svc.RefreshCookie(result.RefreshToken))
	writeJSON(w, http.StatusOK, AuthEnvelope{User: result.User, AccessToken: result.AccessToken})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	result, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	http.SetCookie(w, h.svc.RefreshCookie(result.RefreshToken))
	writeJSON(w, http.StatusOK, AuthEnvelope{User: result.User, AccessToken: result.AccessToken})
}

// Refresh exchanges the refresh cookie for a fresh token pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(auth.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "refresh token not passed")
		return
	}
	result, err := h.svc.Refresh(r.Context(), cookie.Value)
	if err != nil {
		// A dead refresh token is cleared so the client stops resending it.
		http.SetCookie(w, h.svc.ClearRefreshCookie())
		writeDomainError(w, err)
		return
	}
	http.SetCookie(w, h.svc.RefreshCookie(result.RefreshToken))
	writeJSON(w, http.StatusOK, AuthEnvelope{User: result.User, AccessToken: result.AccessToken})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, h.svc.ClearRefreshCookie())
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (domain.AuthRequest, bool) {
	var req domain.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}
