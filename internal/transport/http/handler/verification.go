package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-pomodoro-api/internal/application/verification"
	"github.com/go-pomodoro-api/internal/transport/http/middleware"
)

// VerificationHandler handles email verification flow endpoints.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

func (h *VerificationHandler) Action(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	switch chi.URLParam(r, "action") {
	case "request":
		if err := h.svc.Request(r.Context(), userID); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "verification email sent"})
	case "verify":
		var body struct {
			Secret string `json:"secret"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Secret == "" {
			writeError(w, http.StatusBadRequest, "secret required")
			return
		}
		verified, err := h.svc.Verify(r.Context(), userID, body.Secret)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, VerifyEnvelope{Verified: verified})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
