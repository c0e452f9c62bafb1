package varname_test

import (
	"fmt"
	"testing"

	"github.com/gnames/gnforms/pkg/varname"
	"github.com/stretchr/testify/assert"
)

func TestUniquify(t *testing.T) {
	tests := []struct {
		msg       string
		candidate string
		existing  []string
		res       string
	}{
		{"free name", "age", []string{"sex"}, "age"},
		{"empty set", "age", nil, "age"},
		{"taken once", "age", []string{"age"}, "age_1"},
		{"gap", "age", []string{"age", "age_1", "age_3"}, "age_2"},
		{"suffix taken too", "age_1", []string{"age_1"}, "age_1_1"},
	}

	for _, v := range tests {
		set := varname.NewSet(v.existing...)
		res := varname.Uniquify(v.candidate, set)
		assert.Equal(t, v.res, res, v.msg)
		assert.Equal(t, len(v.existing), set.Len(), v.msg)
	}

	assert.Equal(t, "age", varname.Uniquify("age", nil))
}

func TestUniquifyNotInSet(t *testing.T) {
	set := varname.NewSet()
	for i := range 50 {
		set.Add(fmt.Sprintf("q_%d", i))
	}
	set.Add("q")
	res := varname.Uniquify("q", set)
	assert.False(t, set.Has(res))
	assert.Equal(t, "q_50", res)
}

func TestClaim(t *testing.T) {
	set := varname.NewSet()
	res := []string{
		set.Claim("age"),
		set.Claim("age"),
		set.Claim("sex"),
		set.Claim("age"),
	}
	assert.Equal(t, []string{"age", "age_1", "sex", "age_2"}, res)
	assert.Equal(t, 4, set.Len())
	assert.True(t, set.Has("age_2"))
}
