package db_test

import (
	"testing"

	"github.com/gnames/gnforms/internal/iodb"
	"github.com/gnames/gnforms/pkg/db"
	"github.com/stretchr/testify/assert"
)

// TestOperatorImplementsInterface verifies that the GORM operator
// implements the db.Operator interface.
func TestOperatorImplementsInterface(t *testing.T) {
	var op db.Operator = iodb.NewOperator()
	assert.Nil(t, op.DB())
	assert.Empty(t, op.Driver())
}
