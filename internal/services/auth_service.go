package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/openshelf/library-api/internal/apperr"
	"github.com/openshelf/library-api/internal/auth"
	"github.com/openshelf/library-api/internal/models"
	repo "github.com/openshelf/library-api/internal/repository"
)

type AuthService struct {
	users  repo.Users
	tokens *auth.TokenManager
	log    *slog.Logger
}

func NewAuthService(users repo.Users, tokens *auth.TokenManager, log *slog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Login checks credentials and issues a signed access token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return "", apperr.Unauthorized("Invalid credentials.")
	}
	if err != nil {
		s.log.Error("login: load user", "username", username, "err", err)
		return "", err
	}
	if auth.VerifyPassword(password, u.PasswordHash) != nil {
		return "", apperr.Unauthorized("Invalid credentials.")
	}

	token, err := s.tokens.Generate(u)
	if err != nil {
		s.log.Error("login: sign token", "username", username, "err", err)
		return "", err
	}
	return token, nil
}

// Register creates a Client account. Librarian accounts are seeded only.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	u := models.User{Username: strings.TrimSpace(username), Role: models.RoleClient}
	if err := u.Validate(); err != nil {
		return apperr.InvalidRequest(err.Error())
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	if _, err := s.users.Create(ctx, u.Username, hash, u.Role); err != nil {
		if errors.Is(err, repo.ErrDuplicateUsername) {
			return apperr.InvalidRequest("Username already exists")
		}
		s.log.Error("register", "username", username, "err", err)
		return err
	}
	return nil
}
