package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saalikmubeen/serverless-marketplace-app/internal/domain"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/repository"
)

type UserHandler struct {
	users   UserStore
	log     *zap.Logger
	timeout time.Duration
}

func NewUserHandler(users UserStore, log *zap.Logger, timeout time.Duration) *UserHandler {
	return &UserHandler{users: users, log: log, timeout: timeout}
}

type RegisterUserRequestDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Username == "" || !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "invalid_request", "username and a valid email are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := &domain.User{
		ID:         uuid.New().String(),
		Username:   req.Username,
		Email:      req.Email,
		Registered: true,
	}
	if err := h.users.CreateUser(ctx, user); err != nil {
		h.log.Error("register user failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "create_failed", "failed to register user")
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, err := h.users.GetUser(ctx, chi.URLParam(r, "userID"))
	if errors.Is(err, repository.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "user_not_found", "user not found")
		return
	}
	if err != nil {
		h.log.Error("get user failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "fetch_failed", "failed to fetch user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// VerifyEmail marks the authenticated user's address as verified. The
// verification link itself is handled by the identity provider; this
// endpoint records the outcome.
func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.users.SetEmailVerified(ctx, user.ID, true); err != nil {
		h.log.Error("verify email failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "update_failed", "failed to verify email")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}
