// Package services contains the hunt server's business logic. This file
// implements UserService: registration, login with rate limiting, and
// issuing/refreshing JWTs plus server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
	"github.com/dmitrijs2005/schnitzeljagd/internal/dbx"
	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/auth"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/cache"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/config"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/models"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/repositories/repomanager"
)

const minPasswordLen = 6

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RateLimitedError is returned by Login when the caller has used up its
// attempts. It matches common.ErrTooManyRequests.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many requests, retry in %s", e.RetryAfter.Round(time.Second))
}

func (e *RateLimitedError) Unwrap() error { return common.ErrTooManyRequests }

// UserService provides authentication-related operations:
//   - Register: create users together with their hunt profile
//   - Login: verify credentials, make sure a profile exists and mint tokens
//   - RefreshToken: rotate refresh tokens and mint new access tokens
//   - Logout: revoke a refresh token
type UserService struct {
	db                   *sql.DB
	repomanager          repomanager.RepositoryManager
	limiter              cache.Limiter
	jwtSecret            []byte
	accessTokenValidity  time.Duration
	refreshTokenValidity time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, limiter cache.Limiter, cfg *config.Config) *UserService {
	return &UserService{
		db:                   db,
		repomanager:          m,
		limiter:              limiter,
		jwtSecret:            []byte(cfg.SecretKey),
		accessTokenValidity:  cfg.AccessTokenValidity,
		refreshTokenValidity: cfg.RefreshTokenValidity,
	}
}

// Register creates the user and a progress-0 profile in one transaction.
func (s *UserService) Register(ctx context.Context, email, password, nickname string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	salt := auth.NewSalt()
	user := &models.User{Email: email, PasswordHash: auth.HashPassword(password, salt), Salt: salt}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		user = u
		return s.repomanager.Profiles(tx).Create(ctx, &hunt.Profile{
			ID:       u.ID,
			Email:    u.Email,
			Nickname: strings.TrimSpace(nickname),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Login verifies the password and returns a new TokenPair. clientKey
// identifies the caller for rate limiting, usually its IP address.
func (s *UserService) Login(ctx context.Context, clientKey, email, password string) (*TokenPair, error) {
	if s.limiter != nil {
		ok, retry, err := s.limiter.Allow(ctx, clientKey)
		if err == nil && !ok {
			return nil, &RateLimitedError{RetryAfter: retry}
		}
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !auth.VerifyPassword(password, user.Salt, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	// Accounts created before profiles existed get one on first login.
	if err := s.repomanager.Profiles(s.db).EnsureExists(ctx, user.ID, user.Email); err != nil {
		return nil, common.ErrorInternal
	}

	return s.generateTokenPair(ctx, user.ID, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken)
}

// Authenticate maps an access token to its user id.
func (s *UserService) Authenticate(accessToken string) (string, error) {
	return auth.GetUserIDFromToken(accessToken, s.jwtSecret)
}

// --- helpers below ---

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must have at least %d characters", common.ErrorValidation, minPasswordLen)
	}
	return nil
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, s.refreshTokenValidity); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
