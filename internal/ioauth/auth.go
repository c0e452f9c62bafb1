// Package ioauth registers users, checks their passwords with bcrypt and
// issues JWT bearer tokens.
package ioauth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gnames/gnforms/pkg/config"
	"github.com/gnames/gnforms/pkg/errcode"
	"github.com/gnames/gnforms/pkg/identity"
	"github.com/gnames/gnforms/pkg/schema"
	"github.com/gnames/gnforms/pkg/store"
	"golang.org/x/crypto/bcrypt"
)

// Auth manages accounts on top of a store.
type Auth struct {
	users  store.Users
	tokens *Tokens
	cost   int
}

// New creates Auth with the token settings of the configuration.
func New(cfg *config.Config, users store.Users) *Auth {
	ttl := time.Duration(cfg.Server.TokenTTLHours) * time.Hour
	return &Auth{
		users:  users,
		tokens: NewTokens(cfg.Server.JWTSecret, ttl),
		cost:   bcrypt.DefaultCost,
	}
}

// Tokens returns the token signer and verifier.
func (a *Auth) Tokens() *Tokens {
	return a.tokens
}

// Register creates a user. All fields are required, a taken username or
// email is a conflict.
func (a *Auth) Register(
	ctx context.Context,
	username, email, password string,
) (*schema.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, MissingFieldsError("username, email and password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, HashError(err)
	}

	u := &schema.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err = a.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	slog.Info("User registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Login checks the password of the user with the email and returns a
// signed token.
func (a *Auth) Login(
	ctx context.Context,
	email, password string,
) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", MissingFieldsError("email and password")
	}

	u, err := a.users.UserByEmail(ctx, email)
	if err != nil {
		if errcode.Of(err) == errcode.NotFoundError {
			return "", CredentialsError()
		}
		return "", err
	}
	err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	if err != nil {
		slog.Warn("Failed login", "email", email)
		return "", CredentialsError()
	}

	return a.tokens.Sign(identity.Identity{UserID: u.ID, Username: u.Username})
}

// Parse verifies a bearer token.
func (a *Auth) Parse(token string) (identity.Identity, error) {
	return a.tokens.Parse(token)
}

// Lookup resolves a username to an identity. The command line uses it
// instead of tokens.
func (a *Auth) Lookup(
	ctx context.Context,
	username string,
) (identity.Identity, error) {
	var res identity.Identity
	username = strings.TrimSpace(username)
	if username == "" {
		return res, identity.UnauthenticatedError()
	}
	u, err := a.users.UserByUsername(ctx, username)
	if err != nil {
		if errcode.Of(err) == errcode.NotFoundError {
			return res, UnknownUserError(username)
		}
		return res, err
	}
	return identity.Identity{UserID: u.ID, Username: u.Username}, nil
}

// Profile returns the account of an authenticated user.
func (a *Auth) Profile(
	ctx context.Context,
	who identity.Identity,
) (*schema.User, error) {
	if err := identity.Require(who); err != nil {
		return nil, err
	}
	return a.users.UserByID(ctx, who.UserID)
}

// ChangePassword replaces the password after checking the current one.
func (a *Auth) ChangePassword(
	ctx context.Context,
	who identity.Identity,
	current, next string,
) error {
	u, err := a.Profile(ctx, who)
	if err != nil {
		return err
	}
	if next == "" {
		return MissingFieldsError("new password")
	}
	err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current))
	if err != nil {
		return identity.UnauthorizedError(u.Username, "change the password without the current one")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), a.cost)
	if err != nil {
		return HashError(err)
	}
	if err = a.users.SetPasswordHash(ctx, u.ID, string(hash)); err != nil {
		return err
	}
	slog.Info("Password changed", "user_id", u.ID)
	return nil
}
