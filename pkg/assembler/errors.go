package assembler

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnforms/pkg/errcode"
)

// MissingFieldError is returned when a required field of a form
// definition is empty.
func MissingFieldError(field string) error {
	msg := "Form definition is missing <em>%s</em>"

	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Vars: []any{field},
		Err:  fmt.Errorf("missing required field %s", field),
	}
}

// EmptySectionError is returned for a section without questions.
func EmptySectionError(title string) error {
	msg := "Section <em>%s</em> has no questions"

	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Vars: []any{title},
		Err:  fmt.Errorf("section %q has no questions", title),
	}
}

// DuplicateVariableError is returned when a section defines the same
// variable twice.
func DuplicateVariableError(section, name string) error {
	msg := "Variable <em>%s</em> appears twice in section <em>%s</em>"

	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Vars: []any{name, section},
		Err:  fmt.Errorf("duplicate variable %q in section %q", name, section),
	}
}

// VersionError is returned for a version that is not "<major>" or
// "<major>.<minor>".
func VersionError(name, ver string) error {
	msg := `Question <em>%s</em> has invalid version <em>%s</em>

<em>How to fix:</em>
  Use a number like 1 or 1.0`

	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Vars: []any{name, ver},
		Err:  fmt.Errorf("invalid version %q of %q", ver, name),
	}
}
