package assembler

import (
	"strings"

	"github.com/gnames/gnforms/pkg/redcap"
	"github.com/gnames/gnforms/pkg/schema"
	"github.com/gnames/gnforms/pkg/version"
)

// FormDefinition describes a form written by hand, in JSON or YAML.
type FormDefinition struct {
	Name        string              `json:"name" yaml:"name"`
	Description string              `json:"description" yaml:"description"`
	Sections    []SectionDefinition `json:"sections" yaml:"sections"`
}

// SectionDefinition is a section of a FormDefinition. A zero Order means
// the position in the list.
type SectionDefinition struct {
	Title     string               `json:"title" yaml:"title"`
	Order     int                  `json:"order" yaml:"order"`
	Questions []QuestionDefinition `json:"questions" yaml:"questions"`
}

// QuestionDefinition is a question of a SectionDefinition.
type QuestionDefinition struct {
	VariableName     string          `json:"variable_name" yaml:"variable_name"`
	Label            string          `json:"label" yaml:"label"`
	FieldType        string          `json:"field_type" yaml:"field_type"`
	Choices          redcap.Choices  `json:"choices" yaml:"choices"`
	Required         bool            `json:"required" yaml:"required"`
	Dependencies     schema.JSONBlob `json:"dependencies" yaml:"dependencies"`
	ValidationType   string          `json:"validation_type" yaml:"validation_type"`
	ValidationMin    string          `json:"validation_min" yaml:"validation_min"`
	ValidationMax    string          `json:"validation_max" yaml:"validation_max"`
	Identifier       string          `json:"identifier" yaml:"identifier"`
	BranchingLogic   string          `json:"branching_logic" yaml:"branching_logic"`
	FieldAnnotation  string          `json:"field_annotation" yaml:"field_annotation"`
	FieldNote        string          `json:"field_note" yaml:"field_note"`
	CustomAlignment  string          `json:"custom_alignment" yaml:"custom_alignment"`
	QuestionNumber   string          `json:"question_number" yaml:"question_number"`
	MatrixGroupName  string          `json:"matrix_group_name" yaml:"matrix_group_name"`
	MatrixRanking    bool            `json:"matrix_ranking" yaml:"matrix_ranking"`
	Version          string          `json:"version" yaml:"version"`
	ChangeAnnotation string          `json:"change_annotation" yaml:"change_annotation"`
}

// FromDefinition validates a definition and builds a form tree from it.
// Questions get change type "created" and version 1.0 unless the
// definition gives a valid version.
func FromDefinition(def FormDefinition) (*schema.Form, error) {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return nil, MissingFieldError("name")
	}
	if len(def.Sections) == 0 {
		return nil, MissingFieldError("sections")
	}

	res := &schema.Form{
		Name:        name,
		Description: strings.TrimSpace(def.Description),
	}
	seen := make(map[string]struct{})
	for i, sd := range def.Sections {
		title := strings.TrimSpace(sd.Title)
		if title == "" {
			title = DefaultSection
		}
		if len(sd.Questions) == 0 {
			return nil, EmptySectionError(title)
		}
		order := sd.Order
		if order == 0 {
			order = i + 1
		}

		sec := schema.Section{Title: title, Order: order}
		for _, qd := range sd.Questions {
			q, err := fromQuestionDefinition(qd)
			if err != nil {
				return nil, err
			}
			key := title + "\x00" + q.VariableName
			if _, ok := seen[key]; ok {
				return nil, DuplicateVariableError(title, q.VariableName)
			}
			seen[key] = struct{}{}
			sec.Questions = append(sec.Questions, q)
		}
		res.Sections = append(res.Sections, sec)
	}
	return res, nil
}

func fromQuestionDefinition(qd QuestionDefinition) (schema.Question, error) {
	name := strings.TrimSpace(qd.VariableName)
	if name == "" {
		return schema.Question{}, MissingFieldError("variable_name")
	}
	fieldType := strings.TrimSpace(qd.FieldType)
	if fieldType == "" {
		fieldType = DefaultFieldType
	}
	ver := InitialVersion
	if v := strings.TrimSpace(qd.Version); v != "" {
		if !version.Parse(v).Valid {
			return schema.Question{}, VersionError(name, v)
		}
		ver = v
	}
	deps, err := schema.NewJSONBlob(qd.Dependencies)
	if err != nil {
		return schema.Question{}, err
	}

	return schema.Question{
		VariableName:     name,
		Label:            qd.Label,
		FieldType:        fieldType,
		Choices:          qd.Choices,
		Required:         qd.Required,
		Dependencies:     deps,
		ValidationType:   qd.ValidationType,
		ValidationMin:    qd.ValidationMin,
		ValidationMax:    qd.ValidationMax,
		Identifier:       qd.Identifier,
		BranchingLogic:   qd.BranchingLogic,
		FieldAnnotation:  qd.FieldAnnotation,
		FieldNote:        qd.FieldNote,
		CustomAlignment:  qd.CustomAlignment,
		QuestionNumber:   qd.QuestionNumber,
		MatrixGroupName:  qd.MatrixGroupName,
		MatrixRanking:    qd.MatrixRanking,
		Version:          ver,
		ChangeType:       schema.ChangeCreated,
		ChangeAnnotation: qd.ChangeAnnotation,
	}, nil
}
