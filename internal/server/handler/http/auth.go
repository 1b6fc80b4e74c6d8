// Package http provides the HTTP handlers and routing for the project
// tracker API.
package http

import (
	"context"
	"encoding/json"
	"net/http"
)

// AuthService defines the interface for onboarding operations required by
// the HTTP handlers.
type AuthService interface {
	// Register creates an account and returns a token for it.
	Register(ctx context.Context, username, password string) (string, error)
	// Login verifies credentials and returns a token.
	Login(ctx context.Context, username, password string) (string, error)
}

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	// AuthService performs the underlying onboarding operations.
	AuthService AuthService
}

// credentialsRequest represents the JSON payload for registration and login.
type credentialsRequest struct {
	// Username is the login name of the account.
	Username string `json:"username"`
	// Password is the raw account password.
	Password string `json:"password"`
}

// tokenResponse carries a freshly issued bearer token.
type tokenResponse struct {
	Token string `json:"token"`
}

// Register handles POST /api/auth/register.
// It expects a JSON body with "username" and "password" and responds with
// 201 and a token, or 400 when the username is blank, out of range or
// already taken.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}

	token, err := h.AuthService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

// Login handles POST /api/auth/login.
// It expects a JSON body with "username" and "password" and responds with
// 200 and a token, or 401 on bad credentials.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}

	token, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
