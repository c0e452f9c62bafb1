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
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getUserCmd returns the user command with its subcommands.
func getUserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Register users, log in and change passwords",
		Long: `User manages accounts. Commands that change data act as the user
given by --user or GNFORMS_USER. The REST API authenticates with the
bearer token printed by 'gnforms user login'.

Examples:
  gnforms user register alice alice@example.org -p secret
  gnforms user login alice@example.org -p secret
  gnforms user profile -u alice
  gnforms user passwd -u alice --current secret --new better`,
	}

	var regPassword string
	registerCmd := &cobra.Command{
		Use:   "register USERNAME EMAIL",
		Short: "Register a new user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserRegister(args[0], args[1], regPassword)
		},
	}
	registerCmd.Flags().StringVarP(&regPassword, "password", "p", "", "password")
	_ = registerCmd.MarkFlagRequired("password")

	var loginPassword string
	loginCmd := &cobra.Command{
		Use:   "login EMAIL",
		Short: "Print a bearer token for the REST API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserLogin(args[0], loginPassword)
		},
	}
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password")
	_ = loginCmd.MarkFlagRequired("password")

	var current, next string
	passwdCmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the password of the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserPasswd(current, next)
		},
	}
	passwdCmd.Flags().StringVar(&current, "current", "", "current password")
	passwdCmd.Flags().StringVar(&next, "new", "", "new password")
	_ = passwdCmd.MarkFlagRequired("current")
	_ = passwdCmd.MarkFlagRequired("new")

	userCmd.AddCommand(
		registerCmd,
		loginCmd,
		&cobra.Command{
			Use:   "profile",
			Short: "Show the current user",
			Args:  cobra.NoArgs,
			RunE:  runUserProfile,
		},
		passwdCmd,
	)

	return userCmd
}

func runUserRegister(username, email, password string) error {
	return withApp(func(ctx context.Context, env *appEnv) error {
		u, err := env.auth.Register(ctx, username, email, password)
		if err != nil {
			return err
		}
		gn.Info("Registered user <em>%s</em> (id %d)", u.Username, u.ID)
		return nil
	})
}

func runUserLogin(email, password string) error {
	return withApp(func(ctx context.Context, env *appEnv) error {
		token, err := env.auth.Login(ctx, email, password)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	})
}

func runUserProfile(_ *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, env *appEnv) error {
		who, err := env.actor(ctx)
		if err != nil {
			return err
		}
		u, err := env.auth.Profile(ctx, who)
		if err != nil {
			return err
		}
		fmt.Printf("ID:       %d\nUsername: %s\nEmail:    %s\nJoined:   %s\n",
			u.ID, u.Username, u.Email, humanize.Time(u.CreatedAt))
		return nil
	})
}

func runUserPasswd(current, next string) error {
	return withApp(func(ctx context.Context, env *appEnv) error {
		who, err := env.actor(ctx)
		if err != nil {
			return err
		}
		if err = env.auth.ChangePassword(ctx, who, current, next); err != nil {
			return err
		}
		gn.Info("Password changed")
		return nil
	})
}
