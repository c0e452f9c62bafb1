package iofs

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnforms/pkg/errcode"
)

// CreateDirError is returned when a config, data, log or export
// directory cannot be made.
func CreateDirError(dir string, err error) error {
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  "Cannot create directory <em>%s</em>",
		Vars: []any{dir},
		Err:  fmt.Errorf("mkdir %s: %w", dir, err),
	}
}

// CopyFileError is returned when the default config.yaml cannot be
// written.
func CopyFileError(path string, err error) error {
	msg := `Cannot write default configuration to <em>%s</em>

<em>How to fix:</em>
  Check permissions of the directory, or create the file by hand`

	return &gn.Error{
		Code: errcode.CopyFileError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("write default config %s: %w", path, err),
	}
}

// ReadFileError is returned for an unreadable CSV upload or form
// definition.
func ReadFileError(path string, err error) error {
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  "Cannot read <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("read %s: %w", path, err),
	}
}

// WriteFileError is returned when an export cannot be saved.
func WriteFileError(path string, err error) error {
	return &gn.Error{
		Code: errcode.WriteFileError,
		Msg:  "Cannot write <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("write %s: %w", path, err),
	}
}
