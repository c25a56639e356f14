package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-pomodoro-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AuthEnvelope wraps login/register/refresh responses. The refresh token
// travels only in the httpOnly cookie, never in the body.
type AuthEnvelope struct {
	User        *domain.User `json:"user,omitempty"`
	AccessToken string       `json:"accessToken,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// VerifyEnvelope wraps verification submit responses.
type VerifyEnvelope struct {
	Verified bool   `json:"verified"`
	Error    string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeDomainError maps a service error onto an HTTP status via the domain
// sentinels.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnprocessable):
		status = http.StatusUnprocessableEntity
	}
	writeError(w, status, err.Error())
}
