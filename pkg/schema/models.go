// Package schema provides the database models of GNforms.
// Forms own sections, sections own question versions. Imported CSV files
// are kept verbatim and own the forms assembled from them.
package schema

import (
	"time"

	"github.com/gnames/gnforms/pkg/redcap"
)

// User is an account that imports files and edits questions.
type User struct {
	// ID is the primary key.
	ID uint `gorm:"primaryKey" json:"id" yaml:"id"`

	// Username is the unique login handle, recorded as the author of
	// question versions.
	Username string `gorm:"size:80;not null;uniqueIndex" json:"username" yaml:"username"`

	// Email is the unique address used to log in.
	Email string `gorm:"size:120;not null;uniqueIndex" json:"email" yaml:"email"`

	// PasswordHash is a bcrypt hash, never serialized.
	PasswordHash string `gorm:"size:255;not null" json:"-" yaml:"-"`

	// CreatedAt is set on insert.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// ImportedCSV is an uploaded REDCap data dictionary kept as decoded rows.
// It does not change after upload.
type ImportedCSV struct {
	// ID is the primary key.
	ID uint `gorm:"primaryKey" json:"id" yaml:"id"`

	// Filename is the name of the uploaded file.
	Filename string `gorm:"size:255;not null" json:"filename" yaml:"filename"`

	// Header is the header row in file order.
	Header []string `gorm:"serializer:json;type:text" json:"header" yaml:"header"`

	// Content holds the decoded records.
	Content []redcap.Row `gorm:"serializer:json;type:text" json:"content" yaml:"content"`

	// Digest is a UUID v5 of the raw uploaded bytes.
	Digest string `gorm:"size:36;index" json:"digest" yaml:"digest"`

	// ImportedByID is the user that uploaded the file.
	ImportedByID *uint `gorm:"index" json:"imported_by_id" yaml:"imported_by_id"`

	// CreatedAt is the upload time.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Forms were assembled from this file.
	Forms []Form `gorm:"foreignKey:ImportSourceID;constraint:OnDelete:CASCADE" json:"-" yaml:"-"`
}

// TableName returns the table name of imported files.
func (ImportedCSV) TableName() string {
	return "imported_csvs"
}

// Form is a named instrument made of ordered sections.
type Form struct {
	// ID is the primary key.
	ID uint `gorm:"primaryKey" json:"id" yaml:"id"`

	// Name is the form name, REDCap "Form Name" for imports.
	Name string `gorm:"size:255;not null" json:"name" yaml:"name"`

	// Description is free text.
	Description string `gorm:"type:text" json:"description" yaml:"description"`

	// CreatedAt is set on insert.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// ImportSourceID links an assembled form to its CSV file.
	ImportSourceID *uint `gorm:"index" json:"import_source_id,omitempty" yaml:"import_source_id,omitempty"`

	// ImportedByID is the user that created the form.
	ImportedByID *uint `gorm:"index" json:"imported_by_id,omitempty" yaml:"imported_by_id,omitempty"`

	// Sections of the form.
	Sections []Section `gorm:"constraint:OnDelete:CASCADE" json:"sections,omitempty" yaml:"sections,omitempty"`
}

// Section is a titled group of questions.
type Section struct {
	// ID is the primary key.
	ID uint `gorm:"primaryKey" json:"id" yaml:"id"`

	// Title is the REDCap section header, "General" when blank.
	Title string `gorm:"size:255;not null" json:"title" yaml:"title"`

	// Order defines display and export order. Values do not need to be
	// unique, ties are broken by ID.
	Order int `gorm:"column:sort_order;not null" json:"order" yaml:"order"`

	// FormID is the owning form.
	FormID uint `gorm:"not null;index" json:"form_id" yaml:"form_id"`

	// Questions hold every stored version of every question.
	Questions []Question `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty" yaml:"questions,omitempty"`
}

// Question is one immutable version of a question. All versions of a
// logical question share SectionID and VariableName.
type Question struct {
	ID uint `gorm:"primaryKey" json:"id" yaml:"id"`

	VariableName string `gorm:"size:255;not null;index:idx_questions_key,priority:2" json:"variable_name" yaml:"variable_name"`
	Label        string `gorm:"type:text" json:"label" yaml:"label"`

	// FieldType is a REDCap field type, text, radio, checkbox and so on.
	// The set is open.
	FieldType    string         `gorm:"size:50" json:"field_type" yaml:"field_type"`
	Choices      redcap.Choices `gorm:"serializer:json;type:text" json:"choices" yaml:"choices"`
	Required     bool           `json:"required" yaml:"required"`
	Dependencies JSONBlob       `gorm:"type:text" json:"dependencies" yaml:"dependencies"`

	ValidationType  string `gorm:"size:100" json:"validation_type" yaml:"validation_type"`
	ValidationMin   string `gorm:"size:100" json:"validation_min" yaml:"validation_min"`
	ValidationMax   string `gorm:"size:100" json:"validation_max" yaml:"validation_max"`
	Identifier      string `gorm:"size:10" json:"identifier" yaml:"identifier"`
	BranchingLogic  string `gorm:"type:text" json:"branching_logic" yaml:"branching_logic"`
	FieldAnnotation string `gorm:"type:text" json:"field_annotation" yaml:"field_annotation"`
	FieldNote       string `gorm:"type:text" json:"field_note" yaml:"field_note"`
	CustomAlignment string `gorm:"size:10" json:"custom_alignment" yaml:"custom_alignment"`
	QuestionNumber  string `gorm:"size:50" json:"question_number" yaml:"question_number"`
	MatrixGroupName string `gorm:"size:100" json:"matrix_group_name" yaml:"matrix_group_name"`
	MatrixRanking   bool   `json:"matrix_ranking" yaml:"matrix_ranking"`

	// Version is "<major>" or "<major>.<minor>".
	Version          string     `gorm:"size:20;not null" json:"version" yaml:"version"`
	LastModified     time.Time  `json:"last_modified" yaml:"last_modified"`
	ModifiedBy       string     `gorm:"size:80;index" json:"modified_by" yaml:"modified_by"`
	ChangeType       ChangeType `gorm:"size:20;not null" json:"change_type" yaml:"change_type"`
	ChangeAnnotation string     `gorm:"type:text" json:"change_annotation" yaml:"change_annotation"`

	SectionID uint `gorm:"not null;index:idx_questions_key,priority:1" json:"section_id" yaml:"section_id"`
}
