package redcap

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnforms/pkg/errcode"
)

// EmptyCSVError is returned when a file has no header row.
func EmptyCSVError() error {
	msg := `CSV file is empty

<em>How to fix:</em>
  Export the data dictionary from REDCap again, the first line
  has to contain column headers`

	return &gn.Error{
		Code: errcode.ValidationError,
		Msg:  msg,
		Err:  errors.New("csv has no header row"),
	}
}

// DecodeError wraps a structural CSV problem.
func DecodeError(err error) error {
	msg := "Cannot read CSV file: <em>%s</em>"
	vars := []any{err.Error()}

	return &gn.Error{
		Code: errcode.CSVDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("decode csv: %w", err),
	}
}

// EncodeError wraps a failure of the CSV writer.
func EncodeError(err error) error {
	msg := "Cannot write CSV data"

	return &gn.Error{
		Code: errcode.CSVEncodeError,
		Msg:  msg,
		Err:  fmt.Errorf("encode csv: %w", err),
	}
}
