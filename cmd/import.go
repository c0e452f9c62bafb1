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
	"path/filepath"
	"strconv"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnforms/internal/iofs"
	"github.com/spf13/cobra"
)

// getImportCmd returns the import command with its subcommands.
func getImportCmd() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import REDCap data dictionaries",
		Long: `Import stores REDCap data dictionary CSV files and assembles a
form from each of them. Repeated variable names get numeric suffixes
(age, age_1, age_2) within the configured name scope.

Importing needs a user (--user or GNFORMS_USER).

Examples:
  gnforms import intake.csv
  gnforms import -u alice intake.csv followup.csv
  gnforms import list
  gnforms import delete 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	importCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List imported files",
			Args:  cobra.NoArgs,
			RunE:  runImportList,
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete an imported file with the forms built from it",
			Args:  cobra.ExactArgs(1),
			RunE:  runImportDelete,
		},
	)

	return importCmd
}

func runImport(_ *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, env *appEnv) error {
		who, err := env.actor(ctx)
		if err != nil {
			return err
		}

		var bar *pb.ProgressBar
		if len(args) > 1 {
			bar = pb.Full.Start(len(args))
			bar.Set("prefix", "Importing files: ")
			defer bar.Finish()
		}

		start := time.Now()
		var rows int
		for _, path := range args {
			if bar != nil {
				bar.Increment()
			}
			data, err := iofs.ReadFile(path)
			if err != nil {
				return err
			}
			res, err := env.fb.ImportCSV(ctx, filepath.Base(path), data, who)
			if err != nil {
				return err
			}
			if res.Form == nil {
				gn.Warn("File <em>%s</em> has no rows, no form created", path)
				continue
			}
			var n int
			for _, s := range res.Form.Sections {
				n += len(s.Questions)
			}
			rows += n
			if len(res.Duplicates) > 0 {
				gn.Warn("File <em>%s</em> was imported before as %v", path, res.Duplicates)
			}
			gn.Info(
				"Imported <em>%s</em> as form <em>%d</em> (%s questions)",
				path, res.Form.ID, humanize.Comma(int64(n)),
			)
		}

		gn.Info(
			"Imported %s questions from %d file(s) in %s",
			humanize.Comma(int64(rows)), len(args),
			gnfmt.TimeString(time.Since(start).Seconds()),
		)
		return nil
	})
}

func runImportList(_ *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, env *appEnv) error {
		list, err := env.fb.ListImports(ctx)
		if err != nil {
			return err
		}
		for _, v := range list {
			fmt.Printf("%d\t%s\t%s\n", v.ID, v.Filename, humanize.Time(v.CreatedAt))
		}
		return nil
	})
}

func runImportDelete(_ *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return withApp(func(ctx context.Context, env *appEnv) error {
		who, err := env.actor(ctx)
		if err != nil {
			return err
		}
		if err = env.fb.DeleteImport(ctx, id, who); err != nil {
			return err
		}
		gn.Info("Import <em>%d</em> deleted", id)
		return nil
	})
}

// parseID converts a command line argument to a record ID.
func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 0)
	if err != nil || id == 0 {
		return 0, IDError(s)
	}
	return uint(id), nil
}
