package qversion

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnforms/pkg/errcode"
)

// NoEditsError is returned when an edit changes nothing.
func NoEditsError() error {
	msg := "No changes given for the new question version"

	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Err:  errors.New("no new data provided"),
	}
}

// ImmutableFieldError is returned for fields that identify a question.
func ImmutableFieldError(field string) error {
	msg := "Field <em>%s</em> cannot be changed by an edit"

	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Vars: []any{field},
		Err:  fmt.Errorf("field %s is immutable", field),
	}
}

// UnknownFieldError is returned for a field name that questions do not
// have.
func UnknownFieldError(field string) error {
	msg := `Unknown question field <em>%s</em>

<em>How to fix:</em>
  Use snake_case names such as label, field_type, choices, required`

	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Vars: []any{field},
		Err:  fmt.Errorf("unknown field %s", field),
	}
}
