package redcap_test

import (
	"encoding/json"
	"testing"

	"github.com/gnames/gnforms/pkg/redcap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseChoices(t *testing.T) {
	tests := []struct {
		msg   string
		input string
		res   redcap.Choices
	}{
		{"empty", "", nil},
		{"spaces", "   ", nil},
		{"no comma", "yes | no", nil},
		{
			msg:   "two entries",
			input: "1, Yes | 0, No",
			res:   redcap.Choices{{"1", "Yes"}, {"0", "No"}},
		},
		{
			msg:   "label with comma",
			input: "1,Red, dark|2 ,  Blue ",
			res:   redcap.Choices{{"1", "Red, dark"}, {"2", "Blue"}},
		},
		{
			msg:   "malformed entry skipped",
			input: "1, A | broken | 2, B",
			res:   redcap.Choices{{"1", "A"}, {"2", "B"}},
		},
		{
			msg:   "duplicate key",
			input: "1, A | 2, B | 1, C",
			res:   redcap.Choices{{"1", "C"}, {"2", "B"}},
		},
	}

	for _, v := range tests {
		res := redcap.ParseChoices(v.input)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestChoicesString(t *testing.T) {
	cs := redcap.Choices{{"1", "Yes, sure"}, {"0", "No"}}
	s := cs.String()
	assert.Equal(t, "1, Yes, sure | 0, No", s)
	assert.Equal(t, cs, redcap.ParseChoices(s))

	label, ok := cs.Label("0")
	assert.True(t, ok)
	assert.Equal(t, "No", label)
	_, ok = cs.Label("2")
	assert.False(t, ok)
}

func TestChoicesJSON(t *testing.T) {
	cs := redcap.Choices{{"b", "Second"}, {"a", "First"}}
	data, err := json.Marshal(cs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":"Second","a":"First"}`, string(data))
	assert.Equal(t, `{"b":"Second","a":"First"}`, string(data))

	var res redcap.Choices
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, cs, res)

	res = nil
	err = json.Unmarshal([]byte(`[{"key":"1","label":"One"}]`), &res)
	require.NoError(t, err)
	assert.Equal(t, redcap.Choices{{"1", "One"}}, res)

	err = json.Unmarshal([]byte(`null`), &res)
	require.NoError(t, err)
	assert.Nil(t, res)

	err = json.Unmarshal([]byte(`"1, One"`), &res)
	assert.Error(t, err)
	err = json.Unmarshal([]byte(`{"1": 2}`), &res)
	assert.Error(t, err)
}

func TestChoicesYAML(t *testing.T) {
	var doc struct {
		Choices redcap.Choices `yaml:"choices"`
	}
	err := yaml.Unmarshal([]byte("choices:\n  z: Last\n  a: First\n"), &doc)
	require.NoError(t, err)
	assert.Equal(t, redcap.Choices{{"z", "Last"}, {"a", "First"}}, doc.Choices)

	err = yaml.Unmarshal([]byte("choices: 1, Yes | 0, No\n"), &doc)
	require.NoError(t, err)
	assert.Equal(t, redcap.Choices{{"1", "Yes"}, {"0", "No"}}, doc.Choices)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "choices:\n")

	var back map[string]map[string]string
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, map[string]string{"1": "Yes", "0": "No"}, back["choices"])
}
