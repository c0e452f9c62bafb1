/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnforms/pkg/errcode"
)

// IDError is returned for an argument that is not a record ID.
func IDError(s string) error {
	msg := "<em>%s</em> is not a valid ID, use a positive integer"
	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Vars: []any{s},
		Err:  fmt.Errorf("bad id %q", s),
	}
}

// FormatError is returned for an unsupported output format.
func FormatError(format string, allowed string) error {
	msg := "Unknown format <em>%s</em>, use one of: %s"
	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Vars: []any{format, allowed},
		Err:  fmt.Errorf("unknown format %q", format),
	}
}

// SetFlagError is returned for a --set value without "=".
func SetFlagError(s string) error {
	msg := `Cannot parse <em>--set %s</em>

<em>How to fix:</em>
  Use FIELD=VALUE, for example --set label="Age in years"`
	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Vars: []any{s},
		Err:  fmt.Errorf("bad set flag %q", s),
	}
}

// DefinitionError is returned for a form definition file that cannot
// be parsed.
func DefinitionError(path string, err error) error {
	msg := "Cannot parse form definition <em>%s</em>"
	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("parse %s: %w", path, err),
	}
}

// DefaultSecretError is returned when the server would sign tokens with
// the published placeholder secret.
func DefaultSecretError() error {
	msg := `JWT secret is the built-in placeholder

<em>How to fix:</em>
  Set <em>server.jwt_secret</em> in config.yaml, or export
  GNFORMS_SERVER_JWT_SECRET with a long random value`
	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Err:  errors.New("refusing to serve with the default jwt secret"),
	}
}
