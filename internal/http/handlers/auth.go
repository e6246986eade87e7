package handlers

import (
	"fmt"
	"net/http"

	apierrors "github.com/pribylovaa/warranty-api/internal/errors"
	"github.com/pribylovaa/warranty-api/internal/http/middleware"
	"github.com/pribylovaa/warranty-api/internal/service"
)

type registerRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

type loginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type meResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	switch {
	case in.Username == nil:
		apierrors.WriteError(w, r, fieldRequired("username"))
		return
	case in.Email == nil:
		apierrors.WriteError(w, r, fieldRequired("email"))
		return
	case in.Password == nil:
		apierrors.WriteError(w, r, fieldRequired("password"))
		return
	}

	id, err := h.auth.Register(r.Context(), *in.Username, *in.Email, *in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{Message: "User registered successfully", UserID: id})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	switch {
	case in.Username == nil:
		apierrors.WriteError(w, r, fieldRequired("username"))
		return
	case in.Password == nil:
		apierrors.WriteError(w, r, fieldRequired("password"))
		return
	}

	tok, err := h.auth.Login(r.Context(), *in.Username, *in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{AccessToken: tok.Token, TokenType: "bearer"})
}

// Me не проверяет сессию в кэше: достаточно валидного токена.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, fmt.Errorf("handlers.Me: %w", service.ErrNotAuthenticated))
		return
	}

	user, err := h.auth.WhoAmI(r.Context(), token)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{Username: user.Username, Email: user.Email})
}

// Logout идемпотентен: повторный вызов с тем же токеном тоже 200.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, fmt.Errorf("handlers.Logout: %w", service.ErrNotAuthenticated))
		return
	}

	if err := h.auth.Logout(r.Context(), token); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logout successful"})
}
