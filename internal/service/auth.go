package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/DermCareGo/internal/auth"
	"github.com/utafrali/DermCareGo/internal/domain"
	apperrors "github.com/utafrali/DermCareGo/pkg/errors"
)

// TokenIssuer signs bearer tokens for authenticated accounts.
type TokenIssuer interface {
	Issue(username string, role domain.Role) (string, error)
}

// TokenResult is the issued bearer token.
type TokenResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthService exchanges credentials for bearer tokens.
type AuthService struct {
	store  auth.CredentialStore
	tokens TokenIssuer
	logger *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store auth.CredentialStore, tokens TokenIssuer, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

// Login verifies the credentials and issues a signed bearer token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenResult, error) {
	if username == "" || password == "" {
		return nil, apperrors.Unauthorized("incorrect username or password")
	}

	account, err := s.store.Authenticate(ctx, username, password)
	if err != nil {
		s.logger.WarnContext(ctx, "login failed",
			slog.String("username", username),
		)
		return nil, err
	}

	token, err := s.tokens.Issue(account.Username, account.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "token issued",
		slog.String("username", account.Username),
		slog.String("role", account.Role.String()),
	)

	return &TokenResult{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}
