package iorest

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnforms/pkg/errcode"
)

// BadIDError is returned for a path parameter that is not a positive
// integer.
func BadIDError(name, val string) error {
	msg := "Parameter <em>%s</em> must be a positive integer, got <em>%s</em>"

	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Vars: []any{name, val},
		Err:  fmt.Errorf("bad %s %q", name, val),
	}
}

// BodyError is returned for a request body that cannot be decoded.
func BodyError(err error) error {
	msg := "Request body is not valid JSON for this endpoint"

	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Err:  fmt.Errorf("decode body: %w", err),
	}
}

// NoFileError is returned for an upload without a file part.
func NoFileError() error {
	msg := "No file uploaded"

	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Err:  errors.New("multipart field file is missing"),
	}
}

// UploadError is returned when an uploaded file cannot be read.
func UploadError(err error) error {
	msg := "Cannot read the uploaded file"

	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Err:  fmt.Errorf("read upload: %w", err),
	}
}

// AuthHeaderError is returned for an Authorization header without a
// bearer token.
func AuthHeaderError() error {
	msg := "Authorization header must be <em>Bearer TOKEN</em>"

	return &gn.Error{
		Code: errcode.UnauthenticatedError,
		Msg:  msg,
		Err:  errors.New("malformed authorization header"),
	}
}

// ListenError is returned when the server cannot listen.
func ListenError(addr string, err error) error {
	msg := "Cannot start the server on <em>%s</em>"

	return &gn.Error{
		Code: errcode.ServerError,
		Msg:  msg,
		Vars: []any{addr},
		Err:  fmt.Errorf("listen on %s: %w", addr, err),
	}
}
