// Package store defines persistence of users, imported files and form
// trees. Implementations run every multi-row write inside one transaction.
package store

import (
	"context"

	"github.com/gnames/gnforms/pkg/schema"
)

// Store gives access to persisted entities. Methods return a NotFound
// error for missing ids and a Store error when the backend fails.
type Store interface {
	// Transaction runs fn with a Store bound to one transaction. The
	// transaction is committed when fn returns nil and rolled back
	// otherwise. Nested calls reuse the outer transaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	Users
	Imports
	Forms
	Questions
}

// Users persists accounts.
type Users interface {
	// CreateUser inserts a user. A taken username or email is a Conflict.
	CreateUser(ctx context.Context, u *schema.User) error
	UserByID(ctx context.Context, id uint) (*schema.User, error)
	UserByUsername(ctx context.Context, username string) (*schema.User, error)
	UserByEmail(ctx context.Context, email string) (*schema.User, error)

	// SetPasswordHash replaces the stored password hash of a user.
	SetPasswordHash(ctx context.Context, id uint, hash string) error
}

// Imports persists uploaded CSV files.
type Imports interface {
	CreateImport(ctx context.Context, imp *schema.ImportedCSV) error
	Import(ctx context.Context, id uint) (*schema.ImportedCSV, error)

	// ImportsByDigest returns files with identical content.
	ImportsByDigest(ctx context.Context, digest string) ([]schema.ImportedCSV, error)

	// ListImports returns all files by ID without their content.
	ListImports(ctx context.Context) ([]schema.ImportedCSV, error)

	// DeleteImport removes a file with the forms assembled from it.
	DeleteImport(ctx context.Context, id uint) error
}

// Forms persists form trees.
type Forms interface {
	// CreateForm inserts a form with its sections and questions.
	CreateForm(ctx context.Context, f *schema.Form) error

	// Form returns a form without sections.
	Form(ctx context.Context, id uint) (*schema.Form, error)

	// FormTree returns a form with sections by order then ID, and
	// questions by ID.
	FormTree(ctx context.Context, id uint) (*schema.Form, error)

	// ListForms returns all forms by ID without sections.
	ListForms(ctx context.Context) ([]schema.Form, error)

	// DeleteForm removes a form with its sections and questions.
	DeleteForm(ctx context.Context, id uint) error

	Section(ctx context.Context, id uint) (*schema.Section, error)
}

// Questions persists question versions.
type Questions interface {
	// CreateQuestion inserts a new version.
	CreateQuestion(ctx context.Context, q *schema.Question) error
	Question(ctx context.Context, id uint) (*schema.Question, error)

	// QuestionsByIDs returns the existing questions among ids, by ID.
	QuestionsByIDs(ctx context.Context, ids []uint) ([]schema.Question, error)

	// QuestionsByKey returns all versions of one logical question, by ID.
	QuestionsByKey(ctx context.Context, sectionID uint, variableName string) ([]schema.Question, error)

	// QuestionsByForm returns every version of every question of a form,
	// by section order, section ID and question ID.
	QuestionsByForm(ctx context.Context, formID uint) ([]schema.Question, error)

	// VariableNames returns all distinct stored variable names.
	VariableNames(ctx context.Context) ([]string, error)

	// DeleteQuestion removes one version.
	DeleteQuestion(ctx context.Context, id uint) error
}
