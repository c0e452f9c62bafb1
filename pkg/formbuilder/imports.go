package formbuilder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/gnforms/pkg/assembler"
	"github.com/gnames/gnforms/pkg/identity"
	"github.com/gnames/gnforms/pkg/redcap"
	"github.com/gnames/gnforms/pkg/schema"
	"github.com/gnames/gnforms/pkg/store"
	"github.com/gnames/gnuuid"
)

// ImportResult describes a stored upload.
type ImportResult struct {
	// Import is the stored file without its rows.
	Import *schema.ImportedCSV `json:"import"`

	// Form is assembled from the rows, nil for a file without rows.
	Form *schema.Form `json:"form,omitempty"`

	// Duplicates are earlier uploads with identical bytes.
	Duplicates []uint `json:"duplicates,omitempty"`
}

// ImportCSV stores an uploaded REDCap file and assembles a form from it.
// The form is named after the first row's Form Name, or the filename.
func (fb *Builder) ImportCSV(
	ctx context.Context,
	filename string,
	data []byte,
	who identity.Identity,
) (*ImportResult, error) {
	if err := identity.Require(who); err != nil {
		return nil, err
	}
	if strings.TrimSpace(filename) == "" {
		return nil, MissingInputError("filename")
	}

	tbl, err := redcap.Decode(data)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{}
	digest := gnuuid.New(string(data)).String()
	dups, err := fb.store.ImportsByDigest(ctx, digest)
	if err != nil {
		return nil, err
	}
	for _, v := range dups {
		res.Duplicates = append(res.Duplicates, v.ID)
	}
	if len(dups) > 0 {
		slog.Warn("Identical file was imported before",
			"filename", filename, "digest", digest, "imports", res.Duplicates)
	}

	imp := &schema.ImportedCSV{
		Filename:     filename,
		Header:       tbl.Header,
		Content:      tbl.Rows,
		Digest:       digest,
		ImportedByID: who.IDPtr(),
	}

	err = fb.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.CreateImport(ctx, imp); err != nil {
			return err
		}
		if len(tbl.Rows) == 0 {
			return nil
		}

		name := strings.TrimSpace(tbl.Rows[0].Get(redcap.ColFormName))
		if name == "" {
			name = filename
		}
		form, err := fb.assemble(ctx, tx, tbl.Rows, name, who)
		if err != nil {
			return err
		}
		form.ImportSourceID = &imp.ID
		form.ImportedByID = who.IDPtr()
		if err = tx.CreateForm(ctx, form); err != nil {
			return err
		}
		res.Form = form
		return nil
	})
	if err != nil {
		return nil, err
	}

	imp.Content = nil
	res.Import = imp
	slog.Info("CSV imported",
		"import_id", imp.ID,
		"filename", filename,
		"rows", len(tbl.Rows),
		"user", who.Username,
	)
	return res, nil
}

// assemble builds an unsaved form tree from rows, stamped by who.
func (fb *Builder) assemble(
	ctx context.Context,
	tx store.Store,
	rows []redcap.Row,
	name string,
	who identity.Identity,
) (*schema.Form, error) {
	names, err := fb.nameSet(ctx, tx)
	if err != nil {
		return nil, err
	}
	form := assembler.FromRows(rows, name, names)
	assembler.Stamp(form, who.Username, fb.now().UTC())
	return form, nil
}

// ListImports returns all uploads without their rows.
func (fb *Builder) ListImports(ctx context.Context) ([]schema.ImportedCSV, error) {
	return fb.store.ListImports(ctx)
}

// Import returns an upload with its rows.
func (fb *Builder) Import(ctx context.Context, id uint) (*schema.ImportedCSV, error) {
	return fb.store.Import(ctx, id)
}

// DeleteImport removes an upload and every form assembled from it. Only
// the user that uploaded the file may delete it.
func (fb *Builder) DeleteImport(
	ctx context.Context,
	id uint,
	who identity.Identity,
) error {
	if err := identity.Require(who); err != nil {
		return err
	}

	return fb.store.Transaction(ctx, func(tx store.Store) error {
		imp, err := tx.Import(ctx, id)
		if err != nil {
			return err
		}
		if imp.ImportedByID == nil || *imp.ImportedByID != who.UserID {
			return identity.UnauthorizedError(
				who.Username, "delete a file imported by someone else",
			)
		}
		if err = tx.DeleteImport(ctx, id); err != nil {
			return err
		}
		slog.Info("Import deleted", "import_id", id, "user", who.Username)
		return nil
	})
}

// ConvertImports assembles a new form from every stored upload that has
// rows. The form is named after the first row's Form Name or
// "Imported Form <id>".
func (fb *Builder) ConvertImports(
	ctx context.Context,
	who identity.Identity,
) ([]schema.Form, error) {
	if err := identity.Require(who); err != nil {
		return nil, err
	}

	list, err := fb.store.ListImports(ctx)
	if err != nil {
		return nil, err
	}

	var bar *pb.ProgressBar
	if fb.progress && len(list) > 0 {
		bar = pb.Full.Start(len(list))
		bar.Set("prefix", "Converting imports: ")
		bar.Set(pb.CleanOnFinish, true)
		defer bar.Finish()
	}

	var res []schema.Form
	err = fb.store.Transaction(ctx, func(tx store.Store) error {
		for _, v := range list {
			if bar != nil {
				bar.Increment()
			}
			imp, err := tx.Import(ctx, v.ID)
			if err != nil {
				return err
			}
			if len(imp.Content) == 0 {
				continue
			}

			name := strings.TrimSpace(imp.Content[0].Get(redcap.ColFormName))
			if name == "" {
				name = fmt.Sprintf("Imported Form %d", imp.ID)
			}
			form, err := fb.assemble(ctx, tx, imp.Content, name, who)
			if err != nil {
				return err
			}
			form.Description = "Imported on " + imp.CreatedAt.Format("2006-01-02")
			form.ImportSourceID = &imp.ID
			form.ImportedByID = who.IDPtr()
			if err = tx.CreateForm(ctx, form); err != nil {
				return err
			}
			res = append(res, *form)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Imports converted to forms", "forms", len(res), "user", who.Username)
	return res, nil
}
