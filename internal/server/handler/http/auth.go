// Package http provides the chi router and HTTP handlers of the SmartBrain API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/SmartBrain/internal/models"
)

// AuthService defines the authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates the credential and profile and returns the profile.
	Register(ctx context.Context, email, name, password string) (*models.Profile, error)
	// SignIn verifies the password and returns the matching profile.
	SignIn(ctx context.Context, email, password string) (*models.Profile, error)
}

// AuthHandler handles HTTP requests for registration and sign-in.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Log receives server-side error details.
	Log *zap.Logger
}

// SignInRequest represents the JSON payload for sign-in.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents the JSON payload for registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// SignIn handles POST /signin. It answers with the profile on success and
// with the same 400 message for an unknown email and a wrong password.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "incorrect form submission", http.StatusBadRequest)
		return
	}

	profile, err := h.AuthService.SignIn(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, profile)
	case errors.Is(err, models.ErrInvalidInput):
		JSONError(w, "incorrect form submission", http.StatusBadRequest)
	case errors.Is(err, models.ErrAuthFailed):
		JSONError(w, "wrong credentials", http.StatusBadRequest)
	default:
		orNop(h.Log).Error("sign-in failed",
			zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}

// Register handles POST /register. It answers with the new profile, 400 for
// missing fields or an email that is already registered, and 500 otherwise.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "incorrect form submission", http.StatusBadRequest)
		return
	}

	profile, err := h.AuthService.Register(r.Context(), req.Email, req.Name, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, profile)
	case errors.Is(err, models.ErrInvalidInput):
		JSONError(w, "incorrect form submission", http.StatusBadRequest)
	case errors.Is(err, models.ErrConflict):
		JSONError(w, "unable to register", http.StatusBadRequest)
	default:
		orNop(h.Log).Error("registration failed",
			zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}
