package store

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnforms/pkg/errcode"
)

// NotFoundError is returned for a missing entity.
func NotFoundError(entity string, id any) error {
	msg := "Cannot find %s <em>%v</em>"

	return &gn.Error{
		Code: errcode.NotFoundError,
		Msg:  msg,
		Vars: []any{entity, id},
		Err:  fmt.Errorf("%s %v not found", entity, id),
	}
}

// ConflictError is returned when a unique value is already taken.
func ConflictError(entity, field, value string) error {
	msg := "A %s with %s <em>%s</em> already exists"

	return &gn.Error{
		Code: errcode.ConflictError,
		Msg:  msg,
		Vars: []any{entity, field, value},
		Err:  fmt.Errorf("%s with %s %q already exists", entity, field, value),
	}
}

// StoreError wraps a failure of the database.
func StoreError(op string, err error) error {
	msg := `Database operation failed: <em>%s</em>

<em>How to fix:</em>
  Check the log file for details, the change was not saved`

	return &gn.Error{
		Code: errcode.StoreError,
		Msg:  msg,
		Vars: []any{op},
		Err:  fmt.Errorf("%s: %w", op, err),
	}
}
