package qversion_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gnames/gnforms/internal/iotesting"
	"github.com/gnames/gnforms/pkg/errcode"
	"github.com/gnames/gnforms/pkg/identity"
	"github.com/gnames/gnforms/pkg/qversion"
	"github.com/gnames/gnforms/pkg/redcap"
	"github.com/gnames/gnforms/pkg/schema"
	"github.com/gnames/gnforms/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = identity.Identity{UserID: 1, Username: "alice"}
	bob   = identity.Identity{UserID: 2, Username: "bob"}
)

func seed(t *testing.T, s store.Store, versions ...string) *schema.Form {
	t.Helper()
	sec := schema.Section{Title: "S", Order: 1}
	for _, v := range versions {
		sec.Questions = append(sec.Questions, schema.Question{
			VariableName:     "age",
			Label:            "Age " + v,
			FieldType:        "text",
			Version:          v,
			ModifiedBy:       "alice",
			ChangeType:       schema.ChangeImported,
			ChangeAnnotation: "initial",
		})
	}
	sec.Questions = append(sec.Questions, schema.Question{
		VariableName: "sex",
		FieldType:    "radio",
		Choices:      redcap.Choices{{Key: "1", Label: "Male"}, {Key: "2", Label: "Female"}},
		Version:      "1.0",
		ChangeType:   schema.ChangeImported,
	})
	form := &schema.Form{Name: "demo", Sections: []schema.Section{sec}}
	require.NoError(t, s.CreateForm(context.Background(), form))
	return form
}

func label(s string) qversion.Edits {
	return qversion.Edits{Label: &s}
}

func TestCreateNextVersion(t *testing.T) {
	tests := []struct {
		msg      string
		versions []string
		from     int
		want     string
	}{
		{"no minor", []string{"2"}, 0, "3.0"},
		{"siblings", []string{"1", "2.0", "2.1"}, 0, "2.2"},
		{"from minor", []string{"1.0"}, 0, "2.0"},
		{"unparseable", []string{"abc"}, 0, "1.0"},
	}

	for _, v := range tests {
		s := iotesting.Store(t)
		ctx := context.Background()
		form := seed(t, s, v.versions...)
		src := form.Sections[0].Questions[v.from]

		m := qversion.New(s)
		res, err := m.CreateNextVersion(ctx, src.ID, label("Edited"), bob)
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.want, res.Version, v.msg)
		assert.NotEqual(t, src.ID, res.ID, v.msg)
		assert.Equal(t, "Edited", res.Label, v.msg)
		assert.Equal(t, "bob", res.ModifiedBy, v.msg)
		assert.Equal(t, schema.ChangeChanged, res.ChangeType, v.msg)
		assert.Equal(t, "", res.ChangeAnnotation, v.msg)
		assert.Equal(t, src.SectionID, res.SectionID, v.msg)
		assert.Equal(t, "age", res.VariableName, v.msg)

		old, err := s.Question(ctx, src.ID)
		require.NoError(t, err, v.msg)
		assert.Equal(t, src.Label, old.Label, v.msg)
		assert.Equal(t, src.Version, old.Version, v.msg)
		assert.Equal(t, "alice", old.ModifiedBy, v.msg)
	}
}

func TestCreateNextVersionEdits(t *testing.T) {
	s := iotesting.Store(t)
	ctx := context.Background()
	form := seed(t, s, "1.0")
	src := form.Sections[0].Questions[1]

	var edits qversion.Edits
	require.NoError(t, edits.Set("choices", "a, A | b, B"))
	require.NoError(t, edits.Set("required", "yes"))
	require.NoError(t, edits.Set("dependencies", `{"show_if": "age"}`))
	require.NoError(t, edits.Set("change_type", "Fixed"))
	require.NoError(t, edits.Set("change_annotation", "typo"))

	res, err := qversion.New(s).CreateNextVersion(ctx, src.ID, edits, alice)
	require.NoError(t, err)
	assert.Equal(t, redcap.Choices{{Key: "a", Label: "A"}, {Key: "b", Label: "B"}}, res.Choices)
	assert.True(t, res.Required)
	assert.JSONEq(t, `{"show_if": "age"}`, string(res.Dependencies))
	assert.Equal(t, schema.ChangeFixed, res.ChangeType)
	assert.Equal(t, "typo", res.ChangeAnnotation)
	assert.Equal(t, "radio", res.FieldType)

	stored, err := s.Question(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Choices, stored.Choices)
	assert.Equal(t, "2.0", stored.Version)
}

func TestEditsJSONNullClears(t *testing.T) {
	s := iotesting.Store(t)
	ctx := context.Background()
	form := seed(t, s, "1.0")
	src := form.Sections[0].Questions[1]
	m := qversion.New(s)

	var edits qversion.Edits
	require.NoError(t, json.Unmarshal(
		[]byte(`{"label": "Sex", "dependencies": {"show_if": "age"}}`), &edits))
	withDeps, err := m.CreateNextVersion(ctx, src.ID, edits, alice)
	require.NoError(t, err)
	assert.Len(t, withDeps.Choices, 2)
	assert.NotEmpty(t, withDeps.Dependencies)

	edits = qversion.Edits{}
	require.NoError(t, json.Unmarshal(
		[]byte(`{"choices": null, "dependencies": null}`), &edits))
	assert.False(t, edits.IsEmpty())
	cleared, err := m.CreateNextVersion(ctx, withDeps.ID, edits, alice)
	require.NoError(t, err)
	assert.Equal(t, "Sex", cleared.Label)

	stored, err := s.Question(ctx, cleared.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Choices)
	assert.Empty(t, stored.Dependencies)
	assert.Equal(t, "3.0", stored.Version)
}

func TestCreateNextVersionErrors(t *testing.T) {
	s := iotesting.Store(t)
	ctx := context.Background()
	form := seed(t, s, "1.0")
	id := form.Sections[0].Questions[0].ID
	m := qversion.New(s)

	_, err := m.CreateNextVersion(ctx, id, label("x"), identity.Identity{})
	assert.Equal(t, errcode.UnauthenticatedError, errcode.Of(err))

	_, err = m.CreateNextVersion(ctx, id, qversion.Edits{}, alice)
	assert.Equal(t, errcode.ValidationError, errcode.Of(err))

	_, err = m.CreateNextVersion(ctx, 9999, label("x"), alice)
	assert.Equal(t, errcode.NotFoundError, errcode.Of(err))

	bad := "sideways"
	_, err = m.CreateNextVersion(ctx, id, qversion.Edits{ChangeType: &bad}, alice)
	assert.Equal(t, errcode.ValidationError, errcode.Of(err))

	vs, err := m.ListVersions(ctx, form.Sections[0].ID, "age")
	require.NoError(t, err)
	assert.Len(t, vs, 1)
}

func TestEditsSet(t *testing.T) {
	tests := []struct {
		field string
		value string
		code  bool
	}{
		{"label", "x", false},
		{" Field_Type ", "radio", false},
		{"matrix_ranking", "n", false},
		{"change_type", "bogus", true},
		{"dependencies", "{", true},
		{"variable_name", "x", true},
		{"version", "3.0", true},
		{"color", "red", true},
	}

	for _, v := range tests {
		var e qversion.Edits
		err := e.Set(v.field, v.value)
		if v.code {
			assert.Equal(t, errcode.ValidationError, errcode.Of(err), v.field)
			continue
		}
		require.NoError(t, err, v.field)
		assert.False(t, e.IsEmpty(), v.field)
	}
}

func TestDeleteVersion(t *testing.T) {
	s := iotesting.Store(t)
	ctx := context.Background()
	form := seed(t, s, "1.0")
	src := form.Sections[0].Questions[0]
	m := qversion.New(s)

	next, err := m.CreateNextVersion(ctx, src.ID, label("v2"), bob)
	require.NoError(t, err)

	err = m.DeleteVersion(ctx, next.ID, alice)
	assert.Equal(t, errcode.UnauthorizedError, errcode.Of(err))
	_, err = s.Question(ctx, next.ID)
	require.NoError(t, err)

	err = m.DeleteVersion(ctx, next.ID, identity.Identity{})
	assert.Equal(t, errcode.UnauthenticatedError, errcode.Of(err))

	require.NoError(t, m.DeleteVersion(ctx, next.ID, bob))
	_, err = s.Question(ctx, next.ID)
	assert.Equal(t, errcode.NotFoundError, errcode.Of(err))

	_, err = s.Question(ctx, src.ID)
	require.NoError(t, err)

	err = m.DeleteVersion(ctx, next.ID, bob)
	assert.Equal(t, errcode.NotFoundError, errcode.Of(err))
}

func TestListVersionsAndHistory(t *testing.T) {
	s := iotesting.Store(t)
	ctx := context.Background()
	form := seed(t, s, "1.0", "1.1")
	sec := form.Sections[0]
	m := qversion.New(s)

	_, err := m.CreateNextVersion(ctx, sec.Questions[0].ID, label("v2"), bob)
	require.NoError(t, err)

	vs, err := m.ListVersions(ctx, sec.ID, "age")
	require.NoError(t, err)
	var got []string
	for _, q := range vs {
		got = append(got, q.Version)
	}
	assert.Equal(t, []string{"2.0", "1.1", "1.0"}, got)

	vs, err = m.ListVersions(ctx, sec.ID, "missing")
	require.NoError(t, err)
	assert.Empty(t, vs)

	_, err = m.ListVersions(ctx, 9999, "age")
	assert.Equal(t, errcode.NotFoundError, errcode.Of(err))

	hist, err := m.History(ctx, form.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "S", hist[0].Title)
	require.Len(t, hist[0].Variables, 2)
	assert.Equal(t, "age", hist[0].Variables[0].VariableName)
	assert.Len(t, hist[0].Variables[0].Versions, 3)
	assert.Equal(t, "2.0", hist[0].Variables[0].Versions[0].Version)
	assert.Equal(t, "sex", hist[0].Variables[1].VariableName)

	_, err = m.History(ctx, 9999)
	assert.Equal(t, errcode.NotFoundError, errcode.Of(err))
}
