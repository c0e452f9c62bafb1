package formbuilder

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnforms/pkg/errcode"
)

// MissingInputError is returned when a required argument is empty.
func MissingInputError(field string) error {
	msg := "Required input <em>%s</em> is missing"

	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Vars: []any{field},
		Err:  fmt.Errorf("missing %s", field),
	}
}
