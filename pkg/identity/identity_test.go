package identity_test

import (
	"testing"

	"github.com/gnames/gnforms/pkg/errcode"
	"github.com/gnames/gnforms/pkg/identity"
	"github.com/stretchr/testify/assert"
)

func TestRequire(t *testing.T) {
	tests := []struct {
		msg string
		id  identity.Identity
		err bool
	}{
		{"empty", identity.Identity{}, true},
		{"blank name", identity.Identity{Username: "  "}, true},
		{"name only", identity.Identity{Username: "alice"}, false},
		{"full", identity.Identity{UserID: 3, Username: "alice"}, false},
	}

	for _, v := range tests {
		err := identity.Require(v.id)
		if v.err {
			assert.Equal(t, errcode.UnauthenticatedError, errcode.Of(err), v.msg)
			continue
		}
		assert.NoError(t, err, v.msg)
	}
}

func TestIDPtr(t *testing.T) {
	assert.Nil(t, identity.Identity{Username: "bob"}.IDPtr())
	p := identity.Identity{UserID: 7}.IDPtr()
	if assert.NotNil(t, p) {
		assert.Equal(t, uint(7), *p)
	}
}

func TestUnauthorizedError(t *testing.T) {
	err := identity.UnauthorizedError("bob", "delete this version")
	assert.Equal(t, errcode.UnauthorizedError, errcode.Of(err))
	assert.Contains(t, err.Error(), "bob")
}
