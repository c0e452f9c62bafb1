/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/gnames/gnforms/internal/ioauth"
	"github.com/gnames/gnforms/internal/iodb"
	"github.com/gnames/gnforms/internal/ioschema"
	"github.com/gnames/gnforms/internal/iostore"
	"github.com/gnames/gnforms/pkg/db"
	"github.com/gnames/gnforms/pkg/formbuilder"
	"github.com/gnames/gnforms/pkg/identity"
	"github.com/gnames/gnforms/pkg/store"
)

// appEnv holds the services a command works with.
type appEnv struct {
	op    db.Operator
	store store.Store
	auth  *ioauth.Auth
	fb    *formbuilder.Builder
}

// openApp connects to the configured database and wires the services.
// An empty database gets the schema first. The caller closes the
// environment.
func openApp(ctx context.Context, fbOpts ...formbuilder.Option) (*appEnv, error) {
	op := iodb.NewOperator()
	if err := op.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	hasTables, err := op.HasTables(ctx)
	if err != nil {
		op.Close()
		return nil, err
	}
	if !hasTables {
		gn.Info("Database is empty, creating schema")
		if err = ioschema.NewManager(op).Create(ctx, false); err != nil {
			op.Close()
			return nil, err
		}
	}

	s := iostore.New(op.DB())
	return &appEnv{
		op:    op,
		store: s,
		auth:  ioauth.New(cfg, s),
		fb:    formbuilder.New(cfg, s, fbOpts...),
	}, nil
}

func (e *appEnv) Close() error {
	return e.op.Close()
}

// actor resolves the configured user. Commands that change data call it
// before doing anything else.
func (e *appEnv) actor(ctx context.Context) (identity.Identity, error) {
	if cfg.User == "" {
		return identity.Identity{}, identity.UnauthenticatedError()
	}
	return e.auth.Lookup(ctx, cfg.User)
}

// withApp runs fn with an open environment and prints its error.
func withApp(
	fn func(ctx context.Context, env *appEnv) error,
	fbOpts ...formbuilder.Option,
) error {
	ctx := context.Background()
	env, err := openApp(ctx, fbOpts...)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer env.Close()

	if err = fn(ctx, env); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return nil
}
