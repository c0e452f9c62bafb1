package schema

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnforms/pkg/errcode"
)

// ChangeTypeError is returned for change types outside of
// imported, created, fixed and changed.
func ChangeTypeError(s string) error {
	msg := `Unknown change type <em>%s</em>

<em>How to fix:</em>
  Use one of: imported, created, fixed, changed`

	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Vars: []any{s},
		Err:  fmt.Errorf("unknown change type %q", s),
	}
}

// DependenciesError is returned when dependencies are not valid JSON.
func DependenciesError() error {
	msg := "Question dependencies must be a valid JSON document"

	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Err:  errors.New("invalid dependencies json"),
	}
}
