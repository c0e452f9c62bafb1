// Package formbuilder is the application service of GNforms. It imports
// REDCap files, assembles and exports forms and manages question versions
// on top of a store. Every operation that writes more than one row runs in
// one transaction.
package formbuilder

import (
	"context"
	"time"

	"github.com/gnames/gnforms/pkg/config"
	"github.com/gnames/gnforms/pkg/identity"
	"github.com/gnames/gnforms/pkg/qversion"
	"github.com/gnames/gnforms/pkg/schema"
	"github.com/gnames/gnforms/pkg/store"
	"github.com/gnames/gnforms/pkg/varname"
)

const (
	// ScopeGlobal disambiguates imported names against all stored names.
	ScopeGlobal = "global"

	// ScopeForm disambiguates imported names within one form only.
	ScopeForm = "form"

	// FromQuestionsSection is the title of the only section of a form
	// made from existing questions.
	FromQuestionsSection = "Default Section"
)

// Builder implements form operations.
type Builder struct {
	store     store.Store
	versions  *qversion.Manager
	nameScope string
	progress  bool
	now       func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// OptProgress shows a progress bar for operations over many imports.
func OptProgress(b bool) Option {
	return func(fb *Builder) {
		fb.progress = b
	}
}

// OptNow replaces the clock.
func OptNow(now func() time.Time) Option {
	return func(fb *Builder) {
		fb.now = now
	}
}

// New creates a Builder.
func New(cfg *config.Config, s store.Store, opts ...Option) *Builder {
	res := &Builder{
		store:     s,
		versions:  qversion.New(s),
		nameScope: cfg.Import.NameScope,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// nameSet returns the set imported names are claimed in.
func (fb *Builder) nameSet(ctx context.Context, tx store.Store) (*varname.Set, error) {
	if fb.nameScope == ScopeForm {
		return varname.NewSet(), nil
	}
	names, err := tx.VariableNames(ctx)
	if err != nil {
		return nil, err
	}
	return varname.NewSet(names...), nil
}

// ListForms returns all forms without their sections.
func (fb *Builder) ListForms(ctx context.Context) ([]schema.Form, error) {
	return fb.store.ListForms(ctx)
}

// FormTree returns a form with sections and every question version.
func (fb *Builder) FormTree(ctx context.Context, id uint) (*schema.Form, error) {
	return fb.store.FormTree(ctx, id)
}

// DeleteForm removes a form with its sections and questions.
func (fb *Builder) DeleteForm(
	ctx context.Context,
	id uint,
	who identity.Identity,
) error {
	if err := identity.Require(who); err != nil {
		return err
	}
	return fb.store.DeleteForm(ctx, id)
}

// UpdateQuestion creates the next version of a question.
func (fb *Builder) UpdateQuestion(
	ctx context.Context,
	id uint,
	edits qversion.Edits,
	who identity.Identity,
) (*schema.Question, error) {
	return fb.versions.CreateNextVersion(ctx, id, edits, who)
}

// DeleteQuestionVersion removes a version authored by who.
func (fb *Builder) DeleteQuestionVersion(
	ctx context.Context,
	id uint,
	who identity.Identity,
) error {
	return fb.versions.DeleteVersion(ctx, id, who)
}

// ListVersions returns versions of one question, newest first.
func (fb *Builder) ListVersions(
	ctx context.Context,
	sectionID uint,
	name string,
) ([]schema.Question, error) {
	return fb.versions.ListVersions(ctx, sectionID, name)
}

// History returns all versions of a form grouped by section and variable.
func (fb *Builder) History(
	ctx context.Context,
	formID uint,
) ([]qversion.SectionHistory, error) {
	return fb.versions.History(ctx, formID)
}
