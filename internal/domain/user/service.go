package user

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/janhq/dm-server/internal/domain/session"
	"github.com/janhq/dm-server/internal/utils/platformerrors"
	"github.com/janhq/dm-server/internal/utils/redact"
)

// Service covers registration, login and user lookups.
type Service interface {
	Register(ctx context.Context, in RegisterInput) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, string, error)
	Get(ctx context.Context, id string) (*User, error)
	GetMany(ctx context.Context, ids []string) ([]*User, error)
	Search(ctx context.Context, term, excludeID string) ([]*User, error)
}

type service struct {
	repo   Repository
	hasher PasswordHasher
	tokens session.Codec
	log    zerolog.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, hasher PasswordHasher, tokens session.Codec, log zerolog.Logger) Service {
	return &service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		log:    log.With().Str("component", "user-service").Logger(),
	}
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"name, email and password are required", nil, "2f0e3c1a-register-missing-fields")
	}
	if in.Password != in.ConfirmPassword {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"password and confirmation do not match", nil, "5b7d9c44-register-password-mismatch")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.log.Debug().Str("email", redact.Email(email)).Msg("registration with taken email")
		return nil, duplicateEmail(ctx)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to hash password", err, "9a1f6e20-register-hash")
	}

	u := &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, duplicateEmail(ctx)
		}
		return nil, err
	}

	s.log.Info().Str("user_id", u.ID).Msg("user registered")
	return u, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		s.log.Info().Str("email", redact.Email(email)).Msg("login for unknown email")
		return nil, "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"user not found", nil, "c3e81b5d-login-user-not-found")
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		s.log.Warn().Str("user_id", u.ID).Msg("login with wrong password")
		return nil, "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			"invalid credentials", nil, "61d4a0f7-login-bad-password")
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to issue session", err, "e07b52a9-login-issue-token")
	}

	return u, token, nil
}

func (s *service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"user not found", nil, "8d2c7f31-user-not-found")
	}
	return u, nil
}

func (s *service) GetMany(ctx context.Context, ids []string) ([]*User, error) {
	if len(ids) == 0 {
		return []*User{}, nil
	}
	users, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	SortByName(users)
	return users, nil
}

func (s *service) Search(ctx context.Context, term, excludeID string) ([]*User, error) {
	users, err := s.repo.Search(ctx, strings.TrimSpace(term), excludeID)
	if err != nil {
		return nil, err
	}
	SortByName(users)
	return users, nil
}

// SortByName orders users by name, then id, for stable listings.
func SortByName(users []*User) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func duplicateEmail(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
		"email already registered", nil, "47aa9b13-register-duplicate-email")
}
