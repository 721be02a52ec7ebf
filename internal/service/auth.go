package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/show-catalog/internal/model"
	"github.com/iliyamo/show-catalog/internal/repository"
	"github.com/iliyamo/show-catalog/internal/utils"
)

// UserStore looks users up by email.  *repository.UserRepo implements it.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// Authenticator is the login gate: it checks an email/password pair and
// issues a signed, expiring token.
type Authenticator struct {
	users  UserStore
	secret string
	ttlMin int
}

func NewAuthenticator(users UserStore, secret string, ttlMin int) *Authenticator {
	return &Authenticator{users: users, secret: secret, ttlMin: ttlMin}
}

// Login returns a token for the user whose email matches exactly and whose
// stored hash accepts password.
func (a *Authenticator) Login(ctx context.Context, email, password string) (utils.AccessToken, error) {
	if email == "" || password == "" {
		return utils.AccessToken{}, ErrInvalidCredentials
	}
	u, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return utils.AccessToken{}, ErrInvalidCredentials
		}
		return utils.AccessToken{}, fmt.Errorf("load user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return utils.AccessToken{}, ErrInvalidCredentials
	}
	tok, err := utils.NewAccessToken(a.secret, u.ID, a.ttlMin)
	if err != nil {
		return utils.AccessToken{}, fmt.Errorf("issue token: %w", err)
	}
	return tok, nil
}

// Verify returns the user ID carried by a token issued by Login.
func (a *Authenticator) Verify(raw string) (int64, error) {
	return utils.ParseAccessToken(a.secret, raw)
}
