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
	"github.com/gnames/gnforms/internal/iorest"
	"github.com/gnames/gnforms/pkg/config"
	"github.com/spf13/cobra"
)

// getServeCmd returns the serve command.
func getServeCmd() *cobra.Command {
	var addr string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API",
		Long: `Serve runs the GNforms REST API until interrupted.

Read-only endpoints are public. Endpoints that change data need an
"Authorization: Bearer TOKEN" header, get the token from
POST /api/login or 'gnforms user login'. Prometheus metrics are
available at /metrics.

Examples:
  gnforms serve
  gnforms serve --addr :9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Update([]config.Option{config.OptServerAddr(addr)})
			}
			return runServe()
		},
	}

	serveCmd.Flags().StringVarP(&addr, "addr", "a", "",
		"listen address (default from config, :8080)")

	return serveCmd
}

func runServe() error {
	if err := checkSecret(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return withApp(func(ctx context.Context, env *appEnv) error {
		gn.Info("Serving GNforms API on <em>%s</em>", cfg.Server.Addr)
		return iorest.New(cfg, env.fb, env.auth).Run(ctx)
	})
}

// checkSecret rejects the placeholder JWT secret, anyone could sign
// tokens with it.
func checkSecret(c *config.Config) error {
	if c.Server.JWTSecret == config.DefaultJWTSecret {
		return DefaultSecretError()
	}
	return nil
}
