package assembler_test

import (
	"testing"
	"time"

	"github.com/gnames/gnforms/pkg/assembler"
	"github.com/gnames/gnforms/pkg/errcode"
	"github.com/gnames/gnforms/pkg/redcap"
	"github.com/gnames/gnforms/pkg/schema"
	"github.com/gnames/gnforms/pkg/varname"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func rows() []redcap.Row {
	return []redcap.Row{
		{
			redcap.ColVariable:      "age",
			redcap.ColSectionHeader: "",
			redcap.ColFieldType:     "text",
			redcap.ColFieldLabel:    "Age",
			redcap.ColRequired:      "Y",
		},
		{
			redcap.ColVariable:      "sex",
			redcap.ColSectionHeader: "About",
			redcap.ColFieldType:     "radio",
			redcap.ColChoices:       "1, Male | 2, Female",
			redcap.ColRequired:      "garbage",
			redcap.ColMatrixRanking: "yes",
		},
		{
			redcap.ColVariable:      "age",
			redcap.ColSectionHeader: "  ",
			redcap.ColFieldLabel:    "Age again",
			redcap.ColRequired:      "n",
		},
		{
			redcap.ColVariable:      "",
			redcap.ColSectionHeader: "About",
			redcap.ColChoices:       "no commas here",
		},
	}
}

func TestFromRows(t *testing.T) {
	form := assembler.FromRows(rows(), "demo", nil)
	require.NotNil(t, form)
	assert.Equal(t, "demo", form.Name)

	require.Len(t, form.Sections, 2)
	general, about := form.Sections[0], form.Sections[1]
	assert.Equal(t, "General", general.Title)
	assert.Equal(t, 1, general.Order)
	assert.Equal(t, "About", about.Title)
	assert.Equal(t, 2, about.Order)

	require.Len(t, general.Questions, 2)
	assert.Equal(t, "age", general.Questions[0].VariableName)
	assert.Equal(t, "age_1", general.Questions[1].VariableName)
	assert.True(t, general.Questions[0].Required)
	assert.False(t, general.Questions[1].Required)
	assert.Equal(t, "text", general.Questions[1].FieldType)

	require.Len(t, about.Questions, 2)
	sex := about.Questions[0]
	assert.Equal(t, redcap.Choices{{Key: "1", Label: "Male"}, {Key: "2", Label: "Female"}}, sex.Choices)
	assert.False(t, sex.Required)
	assert.True(t, sex.MatrixRanking)
	assert.Equal(t, "var_3", about.Questions[1].VariableName)
	assert.Nil(t, about.Questions[1].Choices)

	for _, sec := range form.Sections {
		for _, q := range sec.Questions {
			assert.Equal(t, "1.0", q.Version)
			assert.Equal(t, schema.ChangeImported, q.ChangeType)
		}
	}
}

func TestFromRowsExistingNames(t *testing.T) {
	names := varname.NewSet("age", "age_1")
	form := assembler.FromRows(rows()[:1], "demo", names)
	assert.Equal(t, "age_2", form.Sections[0].Questions[0].VariableName)
	assert.True(t, names.Has("age_2"))
}

func TestStamp(t *testing.T) {
	form := assembler.FromRows(rows(), "demo", nil)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assembler.Stamp(form, "alice", now)
	for _, sec := range form.Sections {
		for _, q := range sec.Questions {
			assert.Equal(t, "alice", q.ModifiedBy)
			assert.Equal(t, now, q.LastModified)
		}
	}
}

func TestToRows(t *testing.T) {
	form := &schema.Form{
		Name: "demo",
		Sections: []schema.Section{
			{
				ID: 2, Title: "Later", Order: 2,
				Questions: []schema.Question{
					{ID: 5, VariableName: "z", FieldType: "text"},
				},
			},
			{
				ID: 3, Title: "Tie", Order: 1,
				Questions: []schema.Question{
					{ID: 9, VariableName: "t", FieldType: "yesno"},
				},
			},
			{
				ID: 1, Title: "First", Order: 1,
				Questions: []schema.Question{
					{ID: 7, VariableName: "b", Required: true},
					{
						ID: 4, VariableName: "a",
						Choices: redcap.Choices{{Key: "1", Label: "Yes"}, {Key: "0", Label: "No"}},
					},
				},
			},
		},
	}

	res := assembler.ToRows(form)
	require.Len(t, res, 4)

	var names []string
	for _, row := range res {
		names = append(names, row[redcap.ColVariable])
		assert.Len(t, row, 18)
		assert.Equal(t, "demo", row[redcap.ColFormName])
	}
	assert.Equal(t, []string{"a", "b", "t", "z"}, names)

	assert.Equal(t, "First", res[0][redcap.ColSectionHeader])
	assert.Equal(t, "1, Yes | 0, No", res[0][redcap.ColChoices])
	assert.Equal(t, "n", res[0][redcap.ColRequired])
	assert.Equal(t, "y", res[1][redcap.ColRequired])
	assert.Equal(t, "n", res[1][redcap.ColMatrixRanking])
	assert.Equal(t, "", res[1][redcap.ColChoices])
	assert.Equal(t, "", res[1][redcap.ColFieldNote])
}

func TestToRowsLatestVersion(t *testing.T) {
	form := &schema.Form{
		Name: "demo",
		Sections: []schema.Section{
			{
				ID: 1, Title: "S", Order: 1,
				Questions: []schema.Question{
					{ID: 1, VariableName: "a", Label: "a v1", Version: "1.0"},
					{ID: 2, VariableName: "b", Label: "b v1", Version: "1.0"},
					{ID: 3, VariableName: "a", Label: "a v2.1", Version: "2.1"},
					{ID: 4, VariableName: "a", Label: "a v2.0", Version: "2.0"},
				},
			},
		},
	}

	res := assembler.ToRows(form)
	require.Len(t, res, 2)
	assert.Equal(t, "a v2.1", res[0][redcap.ColFieldLabel])
	assert.Equal(t, "b v1", res[1][redcap.ColFieldLabel])
}

func TestRoundTrip(t *testing.T) {
	in := rows()[:2]
	form := assembler.FromRows(in, "demo", nil)
	out := assembler.ToRows(form)
	require.Len(t, out, 2)

	assert.Equal(t, "age", out[0][redcap.ColVariable])
	assert.Equal(t, "General", out[0][redcap.ColSectionHeader])
	assert.Equal(t, "y", out[0][redcap.ColRequired])
	assert.Equal(t, "1, Male | 2, Female", out[1][redcap.ColChoices])
	assert.Equal(t, "n", out[1][redcap.ColRequired])
	assert.Equal(t, "y", out[1][redcap.ColMatrixRanking])
}

func TestFromDefinition(t *testing.T) {
	src := `
name: Intake
description: Manual form
sections:
  - title: Basics
    questions:
      - variable_name: age
        label: Age
        required: true
      - variable_name: color
        field_type: dropdown
        choices:
          r: Red
          g: Green
        dependencies:
          show_if: age
        version: "2"
  - questions:
      - variable_name: note
`
	var def assembler.FormDefinition
	require.NoError(t, yaml.Unmarshal([]byte(src), &def))

	form, err := assembler.FromDefinition(def)
	require.NoError(t, err)
	assert.Equal(t, "Intake", form.Name)
	require.Len(t, form.Sections, 2)
	assert.Equal(t, "General", form.Sections[1].Title)
	assert.Equal(t, 2, form.Sections[1].Order)

	qs := form.Sections[0].Questions
	require.Len(t, qs, 2)
	assert.Equal(t, "text", qs[0].FieldType)
	assert.Equal(t, "1.0", qs[0].Version)
	assert.Equal(t, schema.ChangeCreated, qs[0].ChangeType)
	assert.Equal(t, redcap.Choices{{Key: "r", Label: "Red"}, {Key: "g", Label: "Green"}}, qs[1].Choices)
	assert.JSONEq(t, `{"show_if":"age"}`, string(qs[1].Dependencies))
	assert.Equal(t, "2", qs[1].Version)
}

func TestFromDefinitionErrors(t *testing.T) {
	q := assembler.QuestionDefinition{VariableName: "a"}
	tests := []struct {
		msg string
		def assembler.FormDefinition
	}{
		{"no name", assembler.FormDefinition{
			Sections: []assembler.SectionDefinition{{Questions: []assembler.QuestionDefinition{q}}},
		}},
		{"no sections", assembler.FormDefinition{Name: "x"}},
		{"empty section", assembler.FormDefinition{
			Name: "x", Sections: []assembler.SectionDefinition{{Title: "s"}},
		}},
		{"no variable name", assembler.FormDefinition{
			Name: "x",
			Sections: []assembler.SectionDefinition{
				{Questions: []assembler.QuestionDefinition{{Label: "l"}}},
			},
		}},
		{"duplicate variable", assembler.FormDefinition{
			Name: "x",
			Sections: []assembler.SectionDefinition{
				{Questions: []assembler.QuestionDefinition{q, q}},
			},
		}},
		{"bad version", assembler.FormDefinition{
			Name: "x",
			Sections: []assembler.SectionDefinition{
				{Questions: []assembler.QuestionDefinition{{VariableName: "a", Version: "v1"}}},
			},
		}},
		{"bad dependencies", assembler.FormDefinition{
			Name: "x",
			Sections: []assembler.SectionDefinition{
				{Questions: []assembler.QuestionDefinition{
					{VariableName: "a", Dependencies: schema.JSONBlob(`{`)},
				}},
			},
		}},
	}

	for _, v := range tests {
		_, err := assembler.FromDefinition(v.def)
		assert.Equal(t, errcode.ValidationError, errcode.Of(err), v.msg)
	}
}
