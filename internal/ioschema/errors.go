package ioschema

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnforms/pkg/errcode"
)

// NotConnectedError is returned when the operator has no open database.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "No database connection for schema changes",
		Err:  errors.New("schema manager: operator is not connected"),
	}
}

// CreateSchemaError wraps a failure to create the form tables.
func CreateSchemaError(driver string, err error) error {
	msg := `Cannot create forms, sections and questions tables in <em>%s</em>

<em>How to fix:</em>
  Make sure the database user may create tables, or run
  <em>gnforms create --force</em> to start from an empty schema`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: []any{driver},
		Err:  fmt.Errorf("create %s schema: %w", driver, err),
	}
}

// MigrateSchemaError wraps a failure to bring existing tables up to date.
func MigrateSchemaError(driver string, err error) error {
	msg := `Cannot update the <em>%s</em> schema

<em>How to fix:</em>
  Export forms with <em>gnforms export form ID</em>, then recreate
  the schema with <em>gnforms create --force</em> and import them again`

	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Vars: []any{driver},
		Err:  fmt.Errorf("migrate %s schema: %w", driver, err),
	}
}
