// Package redcap reads and writes REDCap data dictionaries: the flat
// 18-column CSV files REDCap uses to describe instruments, together with
// the small value syntaxes embedded in them (choice strings and y/n flags).
package redcap

// Standard REDCap data dictionary headers.
const (
	ColVariable        = "Variable / Field Name"
	ColFormName        = "Form Name"
	ColSectionHeader   = "Section Header"
	ColFieldType       = "Field Type"
	ColFieldLabel      = "Field Label"
	ColChoices         = "Choices, Calculations, OR Slider Labels"
	ColFieldNote       = "Field Note"
	ColValidationType  = "Text Validation Type OR Show Slider Number"
	ColValidationMin   = "Text Validation Min"
	ColValidationMax   = "Text Validation Max"
	ColIdentifier      = "Identifier?"
	ColBranchingLogic  = "Branching Logic (Show field only if...)"
	ColRequired        = "Required Field?"
	ColCustomAlignment = "Custom Alignment"
	ColQuestionNumber  = "Question Number (surveys only)"
	ColMatrixGroup     = "Matrix Group Name"
	ColMatrixRanking   = "Matrix Ranking?"
	ColFieldAnnotation = "Field Annotation"
)

// Columns returns the 18 standard headers in the order REDCap writes them.
func Columns() []string {
	return []string{
		ColVariable,
		ColFormName,
		ColSectionHeader,
		ColFieldType,
		ColFieldLabel,
		ColChoices,
		ColFieldNote,
		ColValidationType,
		ColValidationMin,
		ColValidationMax,
		ColIdentifier,
		ColBranchingLogic,
		ColRequired,
		ColCustomAlignment,
		ColQuestionNumber,
		ColMatrixGroup,
		ColMatrixRanking,
		ColFieldAnnotation,
	}
}

// Row is one data dictionary record keyed by header name.
type Row map[string]string

// Get returns the value of a column, or an empty string when the column
// is absent.
func (r Row) Get(col string) string {
	return r[col]
}

// Table is a decoded CSV file: its header in file order and its records.
type Table struct {
	Header []string
	Rows   []Row
}
