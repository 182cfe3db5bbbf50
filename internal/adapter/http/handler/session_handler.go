package handler

import (
	"context"
	"net/http"

	"github.com/iho/restoledger/internal/adapter/http/dto"
	"github.com/iho/restoledger/internal/adapter/http/middleware"
	"github.com/iho/restoledger/internal/domain"
)

// SessionService defines the behavior needed by SessionHandler.
type SessionService interface {
	Login(ctx context.Context, email, password string) (string, *domain.Session, error)
	Verify(ctx context.Context, token string) (*domain.Session, error)
}

// SessionHandler handles login and session lookup.
type SessionHandler struct {
	sessionUC SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionUC SessionService) *SessionHandler {
	return &SessionHandler{sessionUC: sessionUC}
}

// Login exchanges credentials for a session token.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	token, session, err := h.sessionUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, "login failed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token:     token,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
	})
}

// Me describes the session of the bearer token.
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		token, found := middleware.BearerToken(r)
		if !found {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		var err error
		if session, err = h.sessionUC.Verify(r.Context(), token); err != nil {
			writeDomainError(w, "unauthorized", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}
