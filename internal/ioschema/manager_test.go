package ioschema_test

import (
	"context"
	"testing"

	"github.com/gnames/gnforms/internal/iodb"
	"github.com/gnames/gnforms/internal/ioschema"
	"github.com/gnames/gnforms/internal/iotesting"
	"github.com/gnames/gnforms/pkg/errcode"
	"github.com/gnames/gnforms/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	ctx := context.Background()
	op := iodb.NewOperator()
	require.NoError(t, op.Connect(ctx, iotesting.Config(t)))
	defer op.Close()

	mgr := ioschema.NewManager(op)
	require.NoError(t, mgr.Create(ctx, false))

	has, err := op.HasTables(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	// data survives Create without force
	form := schema.Form{Name: "keep"}
	require.NoError(t, op.DB().Create(&form).Error)
	require.NoError(t, mgr.Create(ctx, false))
	var count int64
	op.DB().Model(&schema.Form{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// and is removed with force
	require.NoError(t, mgr.Create(ctx, true))
	op.DB().Model(&schema.Form{}).Count(&count)
	assert.Zero(t, count)
}

func TestMigrate(t *testing.T) {
	op := iotesting.Operator(t)
	mgr := ioschema.NewManager(op)
	assert.NoError(t, mgr.Migrate(context.Background()))
}

func TestNotConnected(t *testing.T) {
	mgr := ioschema.NewManager(iodb.NewOperator())
	err := mgr.Create(context.Background(), false)
	assert.Equal(t, errcode.DBNotConnectedError, errcode.Of(err))
	err = mgr.Migrate(context.Background())
	assert.Equal(t, errcode.DBNotConnectedError, errcode.Of(err))
}
