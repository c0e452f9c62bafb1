package ioschema

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnforms/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaErrors(t *testing.T) {
	cause := errors.New("permission denied for schema public")
	tests := []struct {
		msg  string
		err  error
		code gn.ErrorCode
		vars []any
	}{
		{"not connected", NotConnectedError(), errcode.DBNotConnectedError, nil},
		{"create", CreateSchemaError("postgres", cause),
			errcode.SchemaCreateError, []any{"postgres"}},
		{"migrate", MigrateSchemaError("sqlite", cause),
			errcode.SchemaMigrateError, []any{"sqlite"}},
	}

	for _, v := range tests {
		var gnErr *gn.Error
		require.ErrorAs(t, v.err, &gnErr, v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
		assert.Equal(t, v.vars, gnErr.Vars, v.msg)
		if v.vars != nil {
			assert.ErrorIs(t, gnErr.Err, cause, v.msg)
			assert.Contains(t, gnErr.Err.Error(), v.vars[0], v.msg)
		}
	}
}
