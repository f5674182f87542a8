package handlers

import (
	"context"

	"github.com/janhq/dm-server/internal/domain/user"
	"github.com/janhq/dm-server/internal/infrastructure/metrics"
	"github.com/janhq/dm-server/internal/interfaces/httpserver/requests"
)

// AuthHandler covers registration, login and user lookups.
type AuthHandler struct {
	users user.Service
}

func NewAuthHandler(users user.Service) *AuthHandler {
	return &AuthHandler{users: users}
}

func (h *AuthHandler) Register(ctx context.Context, req *requests.RegisterRequest) (*user.User, error) {
	u, err := h.users.Register(ctx, user.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.Confirmation(),
	})
	metrics.RecordAuth("register", outcome(err))
	return u, err
}

// Login verifies the credentials and returns the user with a session token.
func (h *AuthHandler) Login(ctx context.Context, req *requests.LoginRequest) (*user.User, string, error) {
	u, token, err := h.users.Authenticate(ctx, req.Email, req.Password)
	metrics.RecordAuth("login", outcome(err))
	return u, token, err
}

func (h *AuthHandler) Me(ctx context.Context, userID string) (*user.User, error) {
	return h.users.Get(ctx, userID)
}

func (h *AuthHandler) SearchUsers(ctx context.Context, term, currentUserID string) ([]*user.User, error) {
	return h.users.Search(ctx, term, currentUserID)
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
