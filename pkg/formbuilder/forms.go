package formbuilder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/gnames/gnforms/pkg/assembler"
	"github.com/gnames/gnforms/pkg/identity"
	"github.com/gnames/gnforms/pkg/redcap"
	"github.com/gnames/gnforms/pkg/schema"
	"github.com/gnames/gnforms/pkg/store"
	"golang.org/x/text/unicode/norm"
)

// CreateForm stores a form built by hand.
func (fb *Builder) CreateForm(
	ctx context.Context,
	def assembler.FormDefinition,
	who identity.Identity,
) (*schema.Form, error) {
	if err := identity.Require(who); err != nil {
		return nil, err
	}
	form, err := assembler.FromDefinition(def)
	if err != nil {
		return nil, err
	}
	assembler.Stamp(form, who.Username, fb.now().UTC())
	form.ImportedByID = who.IDPtr()

	if err = fb.store.CreateForm(ctx, form); err != nil {
		return nil, err
	}
	slog.Info("Form created", "form_id", form.ID, "name", form.Name)
	return form, nil
}

// CreateFormFromQuestions copies existing questions into a new form with
// one section. Copies are named <variable_name>_<form ID>. Unknown ids are
// skipped.
func (fb *Builder) CreateFormFromQuestions(
	ctx context.Context,
	name, description string,
	questionIDs []uint,
	who identity.Identity,
) (*schema.Form, error) {
	if err := identity.Require(who); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, MissingInputError("name")
	}
	if len(questionIDs) == 0 {
		return nil, MissingInputError("question ids")
	}

	form := &schema.Form{
		Name:         name,
		Description:  description,
		ImportedByID: who.IDPtr(),
		Sections: []schema.Section{
			{Title: FromQuestionsSection, Order: 1},
		},
	}

	err := fb.store.Transaction(ctx, func(tx store.Store) error {
		src, err := tx.QuestionsByIDs(ctx, questionIDs)
		if err != nil {
			return err
		}
		if len(src) < len(questionIDs) {
			slog.Warn("Some questions do not exist",
				"requested", len(questionIDs), "found", len(src))
		}
		if err = tx.CreateForm(ctx, form); err != nil {
			return err
		}

		sec := &form.Sections[0]
		now := fb.now().UTC()
		for _, q := range src {
			q.ID = 0
			q.SectionID = sec.ID
			q.VariableName = fmt.Sprintf("%s_%d", q.VariableName, form.ID)
			q.Version = assembler.InitialVersion
			q.ChangeType = schema.ChangeCreated
			q.ChangeAnnotation = ""
			q.ModifiedBy = who.Username
			q.LastModified = now
			if err = tx.CreateQuestion(ctx, &q); err != nil {
				return err
			}
			sec.Questions = append(sec.Questions, q)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Form created from questions",
		"form_id", form.ID, "questions", len(form.Sections[0].Questions))
	return form, nil
}

// ExportForm renders the latest version of every question of a form as a
// REDCap CSV file named form_<id>.csv.
func (fb *Builder) ExportForm(
	ctx context.Context,
	id uint,
) (string, []byte, error) {
	form, err := fb.store.FormTree(ctx, id)
	if err != nil {
		return "", nil, err
	}
	data, err := redcap.EncodeREDCap(assembler.ToRows(form))
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("form_%d.csv", id), data, nil
}

// ExportImport returns the rows of an upload as they were imported, in
// UTF-8 with a byte-order mark. The filename is folded to ASCII.
func (fb *Builder) ExportImport(
	ctx context.Context,
	id uint,
) (string, []byte, error) {
	imp, err := fb.store.Import(ctx, id)
	if err != nil {
		return "", nil, err
	}
	header := imp.Header
	if len(header) == 0 {
		header = redcap.Columns()
	}
	data, err := redcap.EncodeBOM(imp.Content, header)
	if err != nil {
		return "", nil, err
	}
	return ASCIIFilename(imp.Filename), data, nil
}

// ASCIIFilename decomposes a name and drops everything that is not ASCII,
// so "Fragebögen.csv" becomes "Fragebogen.csv". An empty result becomes
// "export.csv".
func ASCIIFilename(name string) string {
	var sb strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r <= unicode.MaxASCII {
			sb.WriteRune(r)
		}
	}
	res := strings.TrimSpace(sb.String())
	if res == "" {
		return "export.csv"
	}
	return res
}
