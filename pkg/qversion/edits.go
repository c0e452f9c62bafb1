package qversion

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/gnames/gnforms/pkg/redcap"
	"github.com/gnames/gnforms/pkg/schema"
)

// Edits lists the fields a new version changes. Nil fields keep the value
// of the source version. Variable name and section cannot change, they
// identify the question.
type Edits struct {
	Label            *string          `json:"label,omitempty"`
	FieldType        *string          `json:"field_type,omitempty"`
	Choices          *redcap.Choices  `json:"choices,omitempty"`
	Required         *bool            `json:"required,omitempty"`
	Dependencies     *schema.JSONBlob `json:"dependencies,omitempty"`
	ValidationType   *string          `json:"validation_type,omitempty"`
	ValidationMin    *string          `json:"validation_min,omitempty"`
	ValidationMax    *string          `json:"validation_max,omitempty"`
	Identifier       *string          `json:"identifier,omitempty"`
	BranchingLogic   *string          `json:"branching_logic,omitempty"`
	FieldAnnotation  *string          `json:"field_annotation,omitempty"`
	FieldNote        *string          `json:"field_note,omitempty"`
	CustomAlignment  *string          `json:"custom_alignment,omitempty"`
	QuestionNumber   *string          `json:"question_number,omitempty"`
	MatrixGroupName  *string          `json:"matrix_group_name,omitempty"`
	MatrixRanking    *bool            `json:"matrix_ranking,omitempty"`
	ChangeType       *string          `json:"change_type,omitempty"`
	ChangeAnnotation *string          `json:"change_annotation,omitempty"`
}

// UnmarshalJSON reads edits from a request body. An explicit null for
// choices or dependencies clears the field, an absent key keeps it.
func (e *Edits) UnmarshalJSON(data []byte) error {
	type plain Edits
	var res plain
	if err := json.Unmarshal(data, &res); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	null := []byte("null")
	if v, ok := keys["choices"]; ok && bytes.Equal(bytes.TrimSpace(v), null) {
		res.Choices = new(redcap.Choices)
	}
	if v, ok := keys["dependencies"]; ok && bytes.Equal(bytes.TrimSpace(v), null) {
		res.Dependencies = new(schema.JSONBlob)
	}

	*e = Edits(res)
	return nil
}

// IsEmpty reports whether no field is set.
func (e Edits) IsEmpty() bool {
	return e == Edits{}
}

// Set assigns a field by its snake_case name from a string, the way
// command line flags give it. Booleans use REDCap flag syntax, choices use
// the "key, label | key, label" syntax, dependencies must be JSON.
func (e *Edits) Set(field, value string) error {
	field = strings.ToLower(strings.TrimSpace(field))
	str := func(p **string) error {
		*p = &value
		return nil
	}

	switch field {
	case "label":
		return str(&e.Label)
	case "field_type":
		return str(&e.FieldType)
	case "validation_type":
		return str(&e.ValidationType)
	case "validation_min":
		return str(&e.ValidationMin)
	case "validation_max":
		return str(&e.ValidationMax)
	case "identifier":
		return str(&e.Identifier)
	case "branching_logic":
		return str(&e.BranchingLogic)
	case "field_annotation":
		return str(&e.FieldAnnotation)
	case "field_note":
		return str(&e.FieldNote)
	case "custom_alignment":
		return str(&e.CustomAlignment)
	case "question_number":
		return str(&e.QuestionNumber)
	case "matrix_group_name":
		return str(&e.MatrixGroupName)
	case "change_annotation":
		return str(&e.ChangeAnnotation)
	case "change_type":
		if _, err := schema.ParseChangeType(value); err != nil {
			return err
		}
		return str(&e.ChangeType)
	case "required":
		b := redcap.ParseBool(value)
		e.Required = &b
	case "matrix_ranking":
		b := redcap.ParseBool(value)
		e.MatrixRanking = &b
	case "choices":
		cs := redcap.ParseChoices(value)
		e.Choices = &cs
	case "dependencies":
		blob, err := schema.NewJSONBlob([]byte(value))
		if err != nil {
			return err
		}
		e.Dependencies = &blob
	case "variable_name", "section", "section_id", "version":
		return ImmutableFieldError(field)
	default:
		return UnknownFieldError(field)
	}
	return nil
}

// apply copies set fields into q and validates them.
func (e Edits) apply(q *schema.Question) error {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&q.Label, e.Label)
	setStr(&q.FieldType, e.FieldType)
	setStr(&q.ValidationType, e.ValidationType)
	setStr(&q.ValidationMin, e.ValidationMin)
	setStr(&q.ValidationMax, e.ValidationMax)
	setStr(&q.Identifier, e.Identifier)
	setStr(&q.BranchingLogic, e.BranchingLogic)
	setStr(&q.FieldAnnotation, e.FieldAnnotation)
	setStr(&q.FieldNote, e.FieldNote)
	setStr(&q.CustomAlignment, e.CustomAlignment)
	setStr(&q.QuestionNumber, e.QuestionNumber)
	setStr(&q.MatrixGroupName, e.MatrixGroupName)

	if e.Choices != nil {
		q.Choices = *e.Choices
		if len(q.Choices) == 0 {
			q.Choices = nil
		}
	}
	if e.Required != nil {
		q.Required = *e.Required
	}
	if e.MatrixRanking != nil {
		q.MatrixRanking = *e.MatrixRanking
	}
	if e.Dependencies != nil {
		blob, err := schema.NewJSONBlob(*e.Dependencies)
		if err != nil {
			return err
		}
		q.Dependencies = blob
	}

	q.ChangeType = schema.ChangeChanged
	if e.ChangeType != nil {
		ct, err := schema.ParseChangeType(*e.ChangeType)
		if err != nil {
			return err
		}
		q.ChangeType = ct
	}

	q.ChangeAnnotation = ""
	if e.ChangeAnnotation != nil {
		q.ChangeAnnotation = *e.ChangeAnnotation
	}
	return nil
}
