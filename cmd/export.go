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
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnforms/internal/iofs"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// getExportCmd returns the export command with its subcommands.
func getExportCmd() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export forms and imported files",
		Long: `Export writes a form as a REDCap data dictionary (latest version of
every question), or an imported file back as it was uploaded.

Without --output the file is saved in the current directory under its
suggested name. Use --output - to write to STDOUT.

Examples:
  gnforms export form 1
  gnforms export form 1 -o intake.csv
  gnforms export form 1 --format yaml -o -
  gnforms export import 2`,
	}

	var formOut, formFormat string
	formCmd := &cobra.Command{
		Use:   "form ID",
		Short: "Export a form as CSV, JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportForm(args[0], formOut, formFormat)
		},
	}
	formCmd.Flags().StringVarP(&formOut, "output", "o", "",
		"output file, '-' for STDOUT")
	formCmd.Flags().StringVarP(&formFormat, "format", "f", "csv",
		"output format: csv, json, yaml")

	var importOut string
	importCmd := &cobra.Command{
		Use:   "import ID",
		Short: "Export an imported file as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportImport(args[0], importOut)
		},
	}
	importCmd.Flags().StringVarP(&importOut, "output", "o", "",
		"output file, '-' for STDOUT")

	exportCmd.AddCommand(formCmd, importCmd)
	return exportCmd
}

func runExportForm(arg, out, format string) error {
	id, err := parseID(arg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	format = strings.ToLower(strings.TrimSpace(format))

	return withApp(func(ctx context.Context, env *appEnv) error {
		var name string
		var data []byte
		switch format {
		case "csv":
			name, data, err = env.fb.ExportForm(ctx, id)
		case "json", "yaml":
			form, ferr := env.fb.FormTree(ctx, id)
			if ferr != nil {
				return ferr
			}
			name = fmt.Sprintf("form_%d.%s", id, format)
			data, err = encode(form, format)
		default:
			return FormatError(format, "csv, json, yaml")
		}
		if err != nil {
			return err
		}
		return save(name, out, data)
	})
}

func runExportImport(arg, out string) error {
	id, err := parseID(arg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return withApp(func(ctx context.Context, env *appEnv) error {
		name, data, err := env.fb.ExportImport(ctx, id)
		if err != nil {
			return err
		}
		return save(name, out, data)
	})
}

// encode renders v as pretty JSON or YAML.
func encode(v any, format string) ([]byte, error) {
	if format == "yaml" {
		return yaml.Marshal(v)
	}
	enc := gnfmt.GNjson{Pretty: true}
	return enc.Encode(v)
}

// save writes data to out, to the suggested name when out is empty, or
// to STDOUT when out is "-".
func save(name, out string, data []byte) error {
	switch out {
	case "-":
		_, err := os.Stdout.Write(data)
		return err
	case "":
		out = name
	}
	if err := iofs.WriteFile(out, data); err != nil {
		return err
	}
	gn.Info("Saved <em>%s</em>", out)
	return nil
}
