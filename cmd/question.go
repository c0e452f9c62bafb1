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
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnforms/pkg/qversion"
	"github.com/spf13/cobra"
)

// getQuestionCmd returns the question command with its subcommands.
func getQuestionCmd() *cobra.Command {
	questionCmd := &cobra.Command{
		Use:   "question",
		Short: "Edit questions and manage their versions",
		Long: `Question edits create new versions. The original row is never
changed, the new version gets the next major number of its
(section, variable name) pair.

Fields for --set: label, field_type, choices, required, dependencies,
validation_type, validation_min, validation_max, identifier,
branching_logic, field_annotation, field_note, custom_alignment,
question_number, matrix_group_name, matrix_ranking.

Examples:
  gnforms question edit 12 --set label="Age in years"
  gnforms question edit 12 --set choices="1, Yes | 0, No" --note "binary"
  gnforms question versions 3 age
  gnforms question delete 15`,
	}

	var sets []string
	var changeType, note string
	editCmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Create the next version of a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuestionEdit(cmd, args[0], sets, changeType, note)
		},
	}
	editCmd.Flags().StringArrayVarP(&sets, "set", "s", nil,
		"FIELD=VALUE to change, can be repeated")
	editCmd.Flags().StringVar(&changeType, "change-type", "",
		"imported, created, fixed or changed (default changed)")
	editCmd.Flags().StringVarP(&note, "note", "n", "",
		"change annotation of the new version")

	questionCmd.AddCommand(
		editCmd,
		&cobra.Command{
			Use:   "versions SECTION_ID VARIABLE_NAME",
			Short: "List versions of a question, newest first",
			Args:  cobra.ExactArgs(2),
			RunE:  runQuestionVersions,
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a question version you authored",
			Args:  cobra.ExactArgs(1),
			RunE:  runQuestionDelete,
		},
	)

	return questionCmd
}

// parseEdits turns --set, --change-type and --note into edits.
func parseEdits(sets []string, changeType, note string, noteSet bool) (qversion.Edits, error) {
	var res qversion.Edits
	for _, v := range sets {
		field, val, ok := strings.Cut(v, "=")
		if !ok {
			return res, SetFlagError(v)
		}
		if err := res.Set(strings.TrimSpace(field), val); err != nil {
			return res, err
		}
	}
	if changeType != "" {
		if err := res.Set("change_type", changeType); err != nil {
			return res, err
		}
	}
	if noteSet {
		if err := res.Set("change_annotation", note); err != nil {
			return res, err
		}
	}
	return res, nil
}

func runQuestionEdit(
	cmd *cobra.Command,
	arg string,
	sets []string,
	changeType, note string,
) error {
	id, err := parseID(arg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	edits, err := parseEdits(sets, changeType, note, cmd.Flags().Changed("note"))
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	return withApp(func(ctx context.Context, env *appEnv) error {
		who, err := env.actor(ctx)
		if err != nil {
			return err
		}
		q, err := env.fb.UpdateQuestion(ctx, id, edits, who)
		if err != nil {
			return err
		}
		gn.Info("Created version <em>%s</em> of <em>%s</em> (question %d)",
			q.Version, q.VariableName, q.ID)
		return nil
	})
}

func runQuestionVersions(_ *cobra.Command, args []string) error {
	sectionID, err := parseID(args[0])
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return withApp(func(ctx context.Context, env *appEnv) error {
		qs, err := env.fb.ListVersions(ctx, sectionID, args[1])
		if err != nil {
			return err
		}
		for _, q := range qs {
			fmt.Printf("%d\tv%s\t%s\t%s\t%s\t%s\n",
				q.ID, q.Version, q.ChangeType, q.ModifiedBy,
				humanize.Time(q.LastModified), q.Label)
		}
		return nil
	})
}

func runQuestionDelete(_ *cobra.Command, args []string) error {
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
		if err = env.fb.DeleteQuestionVersion(ctx, id, who); err != nil {
			return err
		}
		gn.Info("Question version <em>%d</em> deleted", id)
		return nil
	})
}
