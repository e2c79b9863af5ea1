// Package services contains application services for the scanner CLI.
// This file defines the authentication service: register, login, session
// resume across restarts and logout. The refresh token and email live in
// the local metadata table.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/schnitzeljagd/internal/client/client"
	"github.com/dmitrijs2005/schnitzeljagd/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
	"github.com/dmitrijs2005/schnitzeljagd/internal/dbx"
	"github.com/dmitrijs2005/schnitzeljagd/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Resume reads the stored refresh token and exchanges it for a fresh token
// pair. It returns the stored email, or client.ErrNotLoggedIn when there is
// no usable session.
type AuthService interface {
	Register(ctx context.Context, email, password, nickname string) error
	Login(ctx context.Context, email, password string) error
	Resume(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
	logger logging.Logger
}

// NewAuthService binds the service to the API client and local DB. Every
// rotated refresh token is persisted, including the ones the client obtains
// on its own.
func NewAuthService(c client.Client, db *sql.DB, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Nop{}
	}
	a := &authService{client: c, db: db, logger: logger.With("module", "auth")}
	c.OnTokenRefresh(a.saveRefreshToken)
	return a
}

func (a *authService) getMetadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (a *authService) saveRefreshToken(token string) {
	ctx := context.Background()
	if err := a.getMetadataRepo(a.db).Set(ctx, metadata.KeyRefreshToken, token); err != nil {
		a.logger.Error(ctx, "saving refresh token", "error", err)
	}
}

func (a *authService) Register(ctx context.Context, email, password, nickname string) error {
	id, err := a.client.Register(ctx, email, password, nickname)
	if err != nil {
		return err
	}
	a.logger.Debug(ctx, "registered", "user_id", id)
	return nil
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	if err := a.client.Login(ctx, email, password); err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.getMetadataRepo(tx)
		if err := repo.Set(ctx, metadata.KeyEmail, email); err != nil {
			return err
		}
		return repo.Set(ctx, metadata.KeyRefreshToken, a.client.RefreshTokenValue())
	})
}

func (a *authService) Resume(ctx context.Context) (string, error) {
	repo := a.getMetadataRepo(a.db)

	token, err := repo.Get(ctx, metadata.KeyRefreshToken)
	if errors.Is(err, common.ErrorNotFound) {
		return "", client.ErrNotLoggedIn
	}
	if err != nil {
		return "", err
	}

	if err := a.client.Resume(ctx, token); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			// revoked or expired on the server, start over
			if cerr := repo.Clear(ctx); cerr != nil {
				a.logger.Warn(ctx, "clearing stale session", "error", cerr)
			}
			return "", client.ErrNotLoggedIn
		}
		return "", err
	}

	email, err := repo.Get(ctx, metadata.KeyEmail)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return "", err
	}
	return email, nil
}

// Logout revokes the session on the server and wipes the local metadata in
// any case.
func (a *authService) Logout(ctx context.Context) error {
	logoutErr := a.client.Logout(ctx)
	clearErr := a.getMetadataRepo(a.db).Clear(ctx)
	return errors.Join(logoutErr, clearErr)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
