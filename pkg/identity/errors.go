package identity

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnforms/pkg/errcode"
)

// UnauthenticatedError is returned when an operation needs a user and
// none was given.
func UnauthenticatedError() error {
	msg := `This operation requires a user

<em>How to fix:</em>
  Pass <em>--user NAME</em>, set <em>GNFORMS_USER</em>, or log in
  and send the bearer token`

	return &gn.Error{
		Code: errcode.UnauthenticatedError,
		Msg:  msg,
		Err:  errors.New("unauthenticated"),
	}
}

// UnauthorizedError is returned when the caller is not the author of the
// resource.
func UnauthorizedError(username, action string) error {
	msg := "User <em>%s</em> is not allowed to %s"

	return &gn.Error{
		Code: errcode.UnauthorizedError,
		Msg:  msg,
		Vars: []any{username, action},
		Err:  fmt.Errorf("user %q is not allowed to %s", username, action),
	}
}
