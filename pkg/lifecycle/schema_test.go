package lifecycle_test

import (
	"testing"

	"github.com/gnames/gnforms/internal/iodb"
	"github.com/gnames/gnforms/internal/ioschema"
	"github.com/gnames/gnforms/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
)

// TestSchemaManagerContract ensures that the ioschema manager satisfies
// the lifecycle.SchemaManager interface.
func TestSchemaManagerContract(t *testing.T) {
	var mgr lifecycle.SchemaManager = ioschema.NewManager(iodb.NewOperator())
	assert.NotNil(t, mgr)
}
