package ioauth

import (
	"errors"
	"strconv"
	"time"

	"github.com/gnames/gnforms/pkg/identity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "gnforms"

// Claims are the JWT claims of a bearer token. Subject holds the user ID.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 bearer tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates Tokens with a signing secret and a token lifetime.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign issues a token for the identity.
func (t *Tokens) Sign(id identity.Identity) (string, error) {
	now := t.now()
	claims := Claims{
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatUint(uint64(id.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			ID:        uuid.NewString(),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	res, err := tok.SignedString(t.secret)
	if err != nil {
		return "", SignError(err)
	}
	return res, nil
}

// Parse verifies a token and returns the identity it carries.
func (t *Tokens) Parse(token string) (identity.Identity, error) {
	var res identity.Identity
	tok, err := jwt.ParseWithClaims(
		token,
		&Claims{},
		func(tok *jwt.Token) (any, error) {
			if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return t.secret, nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return res, TokenError(err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return res, TokenError(errors.New("invalid token"))
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 || claims.Username == "" {
		return res, TokenError(errors.New("token without a user"))
	}

	res = identity.Identity{UserID: uint(id), Username: claims.Username}
	return res, nil
}
