// Package services contains server-side business logic. This file implements
// UserService, which checks the store account's credentials and issues,
// validates and revokes session tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/watchkeeper/internal/common"
	"github.com/dmitrijs2005/watchkeeper/internal/cryptox"
	"github.com/dmitrijs2005/watchkeeper/internal/logging"
	"github.com/dmitrijs2005/watchkeeper/internal/server/auth"
	"github.com/dmitrijs2005/watchkeeper/internal/server/config"
	"github.com/dmitrijs2005/watchkeeper/internal/server/models"
	"github.com/dmitrijs2005/watchkeeper/internal/server/repositories/repomanager"
)

const (
	MsgEmptyUsername      = "Username cannot be empty"
	MsgEmptyPassword      = "Password cannot be empty"
	MsgInvalidCredentials = "Authentication failed: Invalid username or password"
	MsgAuthenticated      = "Authentication successful"
	MsgLoggedOut          = "Logged out successfully"
)

// AuthResult is the outcome of an authentication attempt. A failed attempt
// carries the reason in Message and no token.
type AuthResult struct {
	Success bool
	Message string
	Token   string
}

// UserService provides authentication-related operations:
// - Authenticate: verify credentials and mint a session token
// - ValidateToken: check signature, expiry and revocation
// - Logout: revoke a session token
// - SeedAccount: create the configured account on first start
type UserService struct {
	db               *sql.DB
	repomanager      repomanager.RepositoryManager
	jwtSecret        []byte
	validityDuration time.Duration
	revocations      *auth.Revocations
	logger           logging.Logger
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, l logging.Logger) *UserService {
	if l == nil {
		l = logging.Nop()
	}
	return &UserService{
		db:               db,
		repomanager:      m,
		jwtSecret:        []byte(cfg.SecretKey),
		validityDuration: cfg.SessionValidityDuration,
		revocations:      auth.NewRevocations(),
		logger:           l.With("module", "user_service"),
	}
}

// Authenticate checks username and password against the stored verifier.
// Rejected credentials are reported through the result; the error is
// non-nil only for storage or signing failures.
func (s *UserService) Authenticate(ctx context.Context, username string, password []byte) (*AuthResult, error) {
	defer common.WipeByteArray(password)

	if strings.TrimSpace(username) == "" {
		return &AuthResult{Message: MsgEmptyUsername}, nil
	}
	if len(strings.TrimSpace(string(password))) == 0 {
		return &AuthResult{Message: MsgEmptyPassword}, nil
	}

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "unknown user", "username", username)
			return &AuthResult{Message: MsgInvalidCredentials}, nil
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	if !cryptox.CheckPassword(password, user.Salt, user.Verifier) {
		s.logger.Info(ctx, "wrong password", "username", username)
		return &AuthResult{Message: MsgInvalidCredentials}, nil
	}

	token, jti, err := auth.GenerateToken(user.UserName, s.jwtSecret, s.validityDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "authenticated", "username", user.UserName, "jti", jti)
	return &AuthResult{Success: true, Message: MsgAuthenticated, Token: token}, nil
}

// ValidateToken returns the claims of a usable token. Revoked tokens yield
// common.ErrTokenRevoked.
func (s *UserService) ValidateToken(token string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	if s.revocations.IsRevoked(claims.ID) {
		return nil, common.ErrTokenRevoked
	}
	return claims, nil
}

// Logout revokes token. Tokens that are already unusable are ignored.
func (s *UserService) Logout(ctx context.Context, token string) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		s.logger.Debug(ctx, "logout without a usable token", "error", err)
		return
	}
	s.revocations.Revoke(claims.ID, claims.ExpiresAt.Time)
	s.logger.Info(ctx, "logged out", "username", claims.Subject, "jti", claims.ID)
}

// SeedAccount creates the account if it does not exist yet. An existing
// account keeps its password.
func (s *UserService) SeedAccount(ctx context.Context, username string, password []byte) error {
	defer common.WipeByteArray(password)

	if strings.TrimSpace(username) == "" || len(password) == 0 {
		return common.ErrEmptyCredentials
	}

	repo := s.repomanager.Users(s.db)
	_, err := repo.GetUserByLogin(ctx, username)
	if err == nil {
		s.logger.Info(ctx, "account already present", "username", username)
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("error looking up account: %w", err)
	}

	salt, verifier := cryptox.NewVerifier(password)
	if _, err := repo.Create(ctx, &models.User{UserName: username, Salt: salt, Verifier: verifier}); err != nil {
		return fmt.Errorf("error creating account: %w", err)
	}

	s.logger.Info(ctx, "account created", "username", username)
	return nil
}
