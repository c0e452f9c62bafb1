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

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnforms/internal/iofs"
	"github.com/gnames/gnforms/pkg/assembler"
	"github.com/gnames/gnforms/pkg/formbuilder"
	"github.com/gnames/gnforms/pkg/schema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// getFormCmd returns the form command with its subcommands.
func getFormCmd() *cobra.Command {
	formCmd := &cobra.Command{
		Use:   "form",
		Short: "List, show, build and delete forms",
		Long: `Form manages forms, their sections and question versions.

Commands that create or delete forms need a user (--user or
GNFORMS_USER).

Examples:
  gnforms form list
  gnforms form show 1
  gnforms form history 1
  gnforms form new intake.yaml
  gnforms form from-questions "Short intake" 4 7 9
  gnforms form from-imports
  gnforms form delete 1`,
	}

	var showFormat string
	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a form with its sections and questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormShow(args[0], showFormat)
		},
	}
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "text",
		"output format: text, json, yaml")

	var description string
	fromQuestionsCmd := &cobra.Command{
		Use:   "from-questions NAME QUESTION_ID...",
		Short: "Build a form from copies of existing questions",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormFromQuestions(args, description)
		},
	}
	fromQuestionsCmd.Flags().StringVarP(&description, "description", "d", "",
		"form description")

	formCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List forms",
			Args:  cobra.NoArgs,
			RunE:  runFormList,
		},
		showCmd,
		&cobra.Command{
			Use:   "history ID",
			Short: "Show every version of every question of a form",
			Args:  cobra.ExactArgs(1),
			RunE:  runFormHistory,
		},
		&cobra.Command{
			Use:   "new FILE",
			Short: "Create a form from a YAML or JSON definition",
			Args:  cobra.ExactArgs(1),
			RunE:  runFormNew,
		},
		fromQuestionsCmd,
		&cobra.Command{
			Use:   "from-imports",
			Short: "Build a new form from every imported file",
			Args:  cobra.NoArgs,
			RunE:  runFormFromImports,
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a form with its sections and questions",
			Args:  cobra.ExactArgs(1),
			RunE:  runFormDelete,
		},
	)

	return formCmd
}

func runFormList(_ *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, env *appEnv) error {
		forms, err := env.fb.ListForms(ctx)
		if err != nil {
			return err
		}
		for _, v := range forms {
			fmt.Printf("%d\t%s\t%s\n", v.ID, v.Name, humanize.Time(v.CreatedAt))
		}
		return nil
	})
}

func runFormShow(arg, format string) error {
	id, err := parseID(arg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	format = strings.ToLower(strings.TrimSpace(format))

	return withApp(func(ctx context.Context, env *appEnv) error {
		form, err := env.fb.FormTree(ctx, id)
		if err != nil {
			return err
		}
		switch format {
		case "text":
			printForm(form)
			return nil
		case "json", "yaml":
			data, err := encode(form, format)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		default:
			return FormatError(format, "text, json, yaml")
		}
	})
}

// printForm shows the latest version of every question.
func printForm(form *schema.Form) {
	fmt.Printf("Form %d: %s\n", form.ID, form.Name)
	if form.Description != "" {
		fmt.Println(form.Description)
	}
	for _, s := range form.Sections {
		fmt.Printf("\n[%d] %s\n", s.ID, s.Title)
		for _, q := range assembler.Latest(s.Questions) {
			fmt.Printf("  %d\t%s\tv%s\t%s\t%s\n",
				q.ID, q.VariableName, q.Version, q.FieldType, q.Label)
		}
	}
}

func runFormHistory(_ *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return withApp(func(ctx context.Context, env *appEnv) error {
		hist, err := env.fb.History(ctx, id)
		if err != nil {
			return err
		}
		for _, s := range hist {
			fmt.Printf("[%d] %s\n", s.SectionID, s.Title)
			for _, v := range s.Variables {
				fmt.Printf("  %s\n", v.VariableName)
				for _, q := range v.Versions {
					fmt.Printf("    %d\tv%s\t%s\t%s\t%s\n",
						q.ID, q.Version, q.ChangeType, q.ModifiedBy,
						humanize.Time(q.LastModified))
				}
			}
		}
		return nil
	})
}

func runFormNew(_ *cobra.Command, args []string) error {
	path := args[0]
	data, err := iofs.ReadFile(path)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	// JSON is a subset of YAML, one decoder serves both.
	var def assembler.FormDefinition
	if err = yaml.Unmarshal(data, &def); err != nil {
		err = DefinitionError(path, err)
		gn.PrintErrorMessage(err)
		return err
	}

	return withApp(func(ctx context.Context, env *appEnv) error {
		who, err := env.actor(ctx)
		if err != nil {
			return err
		}
		form, err := env.fb.CreateForm(ctx, def, who)
		if err != nil {
			return err
		}
		gn.Info("Created form <em>%d</em> (%s)", form.ID, form.Name)
		return nil
	})
}

func runFormFromQuestions(args []string, description string) error {
	name := args[0]
	ids := make([]uint, 0, len(args)-1)
	for _, v := range args[1:] {
		id, err := parseID(v)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		ids = append(ids, id)
	}

	return withApp(func(ctx context.Context, env *appEnv) error {
		who, err := env.actor(ctx)
		if err != nil {
			return err
		}
		form, err := env.fb.CreateFormFromQuestions(ctx, name, description, ids, who)
		if err != nil {
			return err
		}
		var n int
		for _, s := range form.Sections {
			n += len(s.Questions)
		}
		gn.Info("Created form <em>%d</em> (%s) with %d question(s)",
			form.ID, form.Name, n)
		return nil
	})
}

func runFormFromImports(_ *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, env *appEnv) error {
		who, err := env.actor(ctx)
		if err != nil {
			return err
		}
		forms, err := env.fb.ConvertImports(ctx, who)
		if err != nil {
			return err
		}
		for _, v := range forms {
			gn.Info("Created form <em>%d</em> (%s)", v.ID, v.Name)
		}
		gn.Info("Converted %s import(s)", humanize.Comma(int64(len(forms))))
		return nil
	}, formbuilder.OptProgress(true))
}

func runFormDelete(_ *cobra.Command, args []string) error {
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
		if err = env.fb.DeleteForm(ctx, id, who); err != nil {
			return err
		}
		gn.Info("Form <em>%d</em> deleted", id)
		return nil
	})
}
