package ioauth

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnforms/pkg/errcode"
)

// MissingFieldsError is returned when required account fields are empty.
func MissingFieldsError(fields string) error {
	msg := "Fields <em>%s</em> are required"

	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Vars: []any{fields},
		Err:  fmt.Errorf("missing %s", fields),
	}
}

// CredentialsError is returned for a wrong email or password.
func CredentialsError() error {
	msg := "Invalid login credentials"

	return &gn.Error{
		Code: errcode.UnauthenticatedError,
		Msg:  msg,
		Err:  errors.New("invalid credentials"),
	}
}

// UnknownUserError is returned when the command line user does not exist.
func UnknownUserError(username string) error {
	msg := `User <em>%s</em> does not exist

<em>How to fix:</em>
  Register the user first:
    <em>gnforms user register</em>`

	return &gn.Error{
		Code: errcode.UnauthenticatedError,
		Msg:  msg,
		Vars: []any{username},
		Err:  fmt.Errorf("unknown user %q", username),
	}
}

// TokenError is returned for a bearer token that cannot be verified.
func TokenError(err error) error {
	msg := "Bearer token is invalid or expired"

	return &gn.Error{
		Code: errcode.UnauthenticatedError,
		Msg:  msg,
		Err:  fmt.Errorf("invalid token: %w", err),
	}
}

// SignError is returned when a token cannot be signed.
func SignError(err error) error {
	msg := "Cannot issue a bearer token"

	return &gn.Error{
		Code: errcode.ServerError,
		Msg:  msg,
		Err:  fmt.Errorf("sign token: %w", err),
	}
}

// HashError is returned when a password cannot be hashed.
func HashError(err error) error {
	msg := "Cannot store the password"

	return &gn.Error{
		Code: errcode.ServerError,
		Msg:  msg,
		Err:  fmt.Errorf("hash password: %w", err),
	}
}
