package schema_test

import (
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnforms/pkg/errcode"
	"github.com/gnames/gnforms/pkg/redcap"
	"github.com/gnames/gnforms/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.sqlite")
	sqlDB, err := sql.Open("sqlite", "file:"+path+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(
		sqlite.New(sqlite.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Discard},
	)
	require.NoError(t, err)
	return db
}

func TestParseChangeType(t *testing.T) {
	tests := []struct {
		input string
		res   schema.ChangeType
		err   bool
	}{
		{"imported", schema.ChangeImported, false},
		{"Created", schema.ChangeCreated, false},
		{" fixed ", schema.ChangeFixed, false},
		{"changed", schema.ChangeChanged, false},
		{"deleted", "", true},
		{"", "", true},
	}

	for _, v := range tests {
		res, err := schema.ParseChangeType(v.input)
		if v.err {
			require.Error(t, err, v.input)
			var gnErr *gn.Error
			require.True(t, errors.As(err, &gnErr))
			assert.Equal(t, errcode.ValidationError, gnErr.Code)
			continue
		}
		require.NoError(t, err, v.input)
		assert.Equal(t, v.res, res, v.input)
	}
}

func TestJSONBlob(t *testing.T) {
	b, err := schema.NewJSONBlob([]byte(`{"show_if": ["age", ">", 18]}`))
	require.NoError(t, err)
	assert.NotEmpty(t, b)

	b, err = schema.NewJSONBlob([]byte("  "))
	require.NoError(t, err)
	assert.Nil(t, b)

	_, err = schema.NewJSONBlob([]byte(`{"broken"`))
	assert.Equal(t, errcode.ValidationError, errcode.Of(err))

	var q schema.Question
	err = json.Unmarshal([]byte(`{"dependencies": {"a": 1}}`), &q)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, string(q.Dependencies))

	out, err := json.Marshal(schema.Question{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"dependencies":null`)

	err = yaml.Unmarshal([]byte("dependencies:\n  a: [1, 2]\n"), &q)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": [1, 2]}`, string(q.Dependencies))
}

func TestMigrate(t *testing.T) {
	db := openDB(t)
	require.NoError(t, schema.Migrate(db))
	// second run is a no-op
	require.NoError(t, schema.Migrate(db))

	for _, v := range schema.TableNames() {
		assert.True(t, db.Migrator().HasTable(v), v)
	}
	assert.True(t, db.Migrator().HasIndex(&schema.Question{}, "idx_questions_key"))
	assert.True(t, db.Migrator().HasColumn(&schema.Section{}, "sort_order"))
}

func TestQuestionStorage(t *testing.T) {
	db := openDB(t)
	require.NoError(t, schema.Migrate(db))

	form := schema.Form{
		Name: "demographics",
		Sections: []schema.Section{
			{
				Title: "General",
				Order: 1,
				Questions: []schema.Question{
					{
						VariableName: "sex",
						FieldType:    "radio",
						Choices:      redcap.Choices{{Key: "2", Label: "Female"}, {Key: "1", Label: "Male"}},
						Dependencies: schema.JSONBlob(`{"x":1}`),
						Version:      "1.0",
						ChangeType:   schema.ChangeImported,
					},
					{
						VariableName: "age",
						FieldType:    "text",
						Version:      "1.0",
						ChangeType:   schema.ChangeImported,
					},
				},
			},
		},
	}
	require.NoError(t, db.Create(&form).Error)

	var qs []schema.Question
	require.NoError(t, db.Order("id").Find(&qs).Error)
	require.Len(t, qs, 2)
	assert.Equal(t, redcap.Choices{{Key: "2", Label: "Female"}, {Key: "1", Label: "Male"}}, qs[0].Choices)
	assert.JSONEq(t, `{"x":1}`, string(qs[0].Dependencies))
	assert.Nil(t, qs[1].Choices)
	assert.Nil(t, qs[1].Dependencies)

	// foreign keys cascade
	require.NoError(t, db.Delete(&schema.Form{}, form.ID).Error)
	var count int64
	db.Model(&schema.Question{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&schema.Section{}).Count(&count)
	assert.Zero(t, count)
}
