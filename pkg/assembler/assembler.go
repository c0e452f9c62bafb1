// Package assembler converts between flat REDCap rows and form trees.
package assembler

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gnames/gnforms/pkg/redcap"
	"github.com/gnames/gnforms/pkg/schema"
	"github.com/gnames/gnforms/pkg/varname"
	"github.com/gnames/gnforms/pkg/version"
)

const (
	// DefaultSection is the title of rows without a section header.
	DefaultSection = "General"

	// DefaultFieldType is used when a row has no field type.
	DefaultFieldType = "text"

	// InitialVersion is the version of imported and created questions.
	InitialVersion = "1.0"
)

// FromRows builds a form tree from rows in file order.
//
// A section is created for every distinct section header in order of first
// appearance, blank headers go to "General". Every row becomes one question
// of its section. Variable names are claimed in names, so they are unique
// against everything names already holds and against each other. Blank
// names become var_<index> before claiming. When names is nil a fresh set
// is used.
func FromRows(rows []redcap.Row, formName string, names *varname.Set) *schema.Form {
	if names == nil {
		names = varname.NewSet()
	}

	res := &schema.Form{Name: formName}
	idx := make(map[string]int)
	for i, row := range rows {
		title := strings.TrimSpace(row.Get(redcap.ColSectionHeader))
		if title == "" {
			title = DefaultSection
		}
		secIdx, ok := idx[title]
		if !ok {
			secIdx = len(res.Sections)
			idx[title] = secIdx
			res.Sections = append(res.Sections, schema.Section{
				Title: title,
				Order: secIdx + 1,
			})
		}

		q := fromRow(row)
		if q.VariableName == "" {
			q.VariableName = "var_" + strconv.Itoa(i)
		}
		q.VariableName = names.Claim(q.VariableName)
		q.Version = InitialVersion
		q.ChangeType = schema.ChangeImported

		sec := &res.Sections[secIdx]
		sec.Questions = append(sec.Questions, q)
	}
	return res
}

func fromRow(row redcap.Row) schema.Question {
	get := func(col string) string {
		return strings.TrimSpace(row.Get(col))
	}

	fieldType := get(redcap.ColFieldType)
	if fieldType == "" {
		fieldType = DefaultFieldType
	}

	return schema.Question{
		VariableName:    get(redcap.ColVariable),
		Label:           get(redcap.ColFieldLabel),
		FieldType:       fieldType,
		Choices:         redcap.ParseChoices(row.Get(redcap.ColChoices)),
		Required:        redcap.ParseBool(row.Get(redcap.ColRequired)),
		ValidationType:  get(redcap.ColValidationType),
		ValidationMin:   get(redcap.ColValidationMin),
		ValidationMax:   get(redcap.ColValidationMax),
		Identifier:      get(redcap.ColIdentifier),
		BranchingLogic:  get(redcap.ColBranchingLogic),
		FieldAnnotation: get(redcap.ColFieldAnnotation),
		FieldNote:       get(redcap.ColFieldNote),
		CustomAlignment: get(redcap.ColCustomAlignment),
		QuestionNumber:  get(redcap.ColQuestionNumber),
		MatrixGroupName: get(redcap.ColMatrixGroup),
		MatrixRanking:   redcap.ParseBool(row.Get(redcap.ColMatrixRanking)),
	}
}

// Stamp sets author and time on every question of the form.
func Stamp(form *schema.Form, author string, now time.Time) {
	for i := range form.Sections {
		qs := form.Sections[i].Questions
		for j := range qs {
			qs[j].ModifiedBy = author
			qs[j].LastModified = now
		}
	}
}

// ToRows flattens a form tree into REDCap rows.
//
// Sections go by order then ID, questions by ID. A section can hold several
// versions of the same variable, only the latest one is written, at the
// place of the earliest one.
func ToRows(form *schema.Form) []redcap.Row {
	secs := slices.Clone(form.Sections)
	slices.SortStableFunc(secs, func(a, b schema.Section) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	var res []redcap.Row
	for _, sec := range secs {
		for _, q := range Latest(sec.Questions) {
			res = append(res, toRow(form.Name, sec.Title, q))
		}
	}
	return res
}

// Latest keeps one question per variable name: the one with the highest
// version, ties broken by the highest ID. The result is ordered by the
// smallest ID of each variable.
func Latest(qs []schema.Question) []schema.Question {
	sorted := slices.Clone(qs)
	slices.SortStableFunc(sorted, func(a, b schema.Question) int {
		return cmp.Compare(a.ID, b.ID)
	})

	var res []schema.Question
	idx := make(map[string]int)
	for _, q := range sorted {
		i, ok := idx[q.VariableName]
		if !ok {
			idx[q.VariableName] = len(res)
			res = append(res, q)
			continue
		}
		if newer(q, res[i]) {
			res[i] = q
		}
	}
	return res
}

func newer(a, b schema.Question) bool {
	if c := version.CompareStrings(a.Version, b.Version); c != 0 {
		return c > 0
	}
	return a.ID > b.ID
}

func toRow(formName, section string, q schema.Question) redcap.Row {
	choices := ""
	if len(q.Choices) > 0 {
		choices = q.Choices.String()
	}
	return redcap.Row{
		redcap.ColVariable:        q.VariableName,
		redcap.ColFormName:        formName,
		redcap.ColSectionHeader:   section,
		redcap.ColFieldType:       q.FieldType,
		redcap.ColFieldLabel:      q.Label,
		redcap.ColChoices:         choices,
		redcap.ColFieldNote:       q.FieldNote,
		redcap.ColValidationType:  q.ValidationType,
		redcap.ColValidationMin:   q.ValidationMin,
		redcap.ColValidationMax:   q.ValidationMax,
		redcap.ColIdentifier:      q.Identifier,
		redcap.ColBranchingLogic:  q.BranchingLogic,
		redcap.ColRequired:        redcap.FormatBool(q.Required),
		redcap.ColCustomAlignment: q.CustomAlignment,
		redcap.ColQuestionNumber:  q.QuestionNumber,
		redcap.ColMatrixGroup:     q.MatrixGroupName,
		redcap.ColMatrixRanking:   redcap.FormatBool(q.MatrixRanking),
		redcap.ColFieldAnnotation: q.FieldAnnotation,
	}
}
