package iorest_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gnames/gnforms/internal/ioauth"
	"github.com/gnames/gnforms/internal/iorest"
	"github.com/gnames/gnforms/internal/iotesting"
	"github.com/gnames/gnforms/pkg/formbuilder"
	"github.com/gnames/gnforms/pkg/qversion"
	"github.com/gnames/gnforms/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Variable / Field Name,Form Name,Section Header,Field Type,Field Label,Required Field?
age,intake,,text,Age,Y
age,intake,,text,Age again,n
`

type client struct {
	t *testing.T
	h http.Handler
}

func newClient(t *testing.T) *client {
	t.Helper()
	cfg := iotesting.Config(t)
	s := iotesting.Store(t)
	srv := iorest.New(cfg, formbuilder.New(cfg, s), ioauth.New(cfg, s))
	return &client{t: t, h: srv.Handler()}
}

func (c *client) do(
	method, path, token string,
	body io.Reader,
	contentType string,
) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	return w
}

func (c *client) json(method, path, token string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(data)
	}
	return c.do(method, path, token, r, "application/json")
}

func (c *client) user(name string) string {
	w := c.json("POST", "/api/register", "", map[string]string{
		"username": name, "email": name + "@example.org", "password": "secret",
	})
	require.Equal(c.t, http.StatusCreated, w.Code, w.Body.String())

	w = c.json("POST", "/api/login", "", map[string]string{
		"email": name + "@example.org", "password": "secret",
	})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
	var res struct{ Token string }
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Token
}

func (c *client) upload(token, filename, content string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(c.t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())
	return c.do("POST", "/api/import-csv", token, &buf, mw.FormDataContentType())
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var res T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

func TestPingAndRequestID(t *testing.T) {
	c := newClient(t)
	w := c.do("GET", "/api/ping", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get(iorest.RequestIDHeader), 36)

	req := httptest.NewRequest("GET", "/api/ping", nil)
	req.Header.Set(iorest.RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(iorest.RequestIDHeader))
}

func TestAuthErrors(t *testing.T) {
	c := newClient(t)
	c.user("alice")

	tests := []struct {
		msg    string
		method string
		path   string
		token  string
		body   any
		status int
	}{
		{"duplicate user", "POST", "/api/register", "",
			map[string]string{"username": "alice", "email": "x@example.org", "password": "p"},
			http.StatusConflict},
		{"missing fields", "POST", "/api/register", "",
			map[string]string{"username": "bob"}, http.StatusBadRequest},
		{"wrong password", "POST", "/api/login", "",
			map[string]string{"email": "alice@example.org", "password": "nope"},
			http.StatusUnauthorized},
		{"anonymous write", "POST", "/api/forms/from-imports", "", nil,
			http.StatusUnauthorized},
		{"bad token", "GET", "/api/forms", "garbage", nil, http.StatusUnauthorized},
		{"anonymous profile", "GET", "/api/user/profile", "", nil,
			http.StatusUnauthorized},
	}
	for _, v := range tests {
		w := c.json(v.method, v.path, v.token, v.body)
		assert.Equal(t, v.status, w.Code, v.msg)
		res := decode[iorest.ErrorResponse](t, w)
		assert.NotEmpty(t, res.Error, v.msg)
		assert.NotContains(t, res.Error, "<em>", v.msg)
	}
}

func TestProfileAndPassword(t *testing.T) {
	c := newClient(t)
	tok := c.user("alice")

	w := c.json("GET", "/api/user/profile", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	u := decode[schema.User](t, w)
	assert.Equal(t, "alice", u.Username)
	assert.NotContains(t, w.Body.String(), "password")

	w = c.json("PUT", "/api/user/password", tok, map[string]string{
		"current_password": "bad", "new_password": "x",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = c.json("PUT", "/api/user/password", tok, map[string]string{
		"current_password": "secret", "new_password": "better",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestImportExportFlow(t *testing.T) {
	c := newClient(t)
	alice := c.user("alice")
	bob := c.user("bob")

	w := c.upload(alice, "intake.csv", sampleCSV)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[formbuilder.ImportResult](t, w)
	require.NotNil(t, res.Form)
	formID, importID := res.Form.ID, res.Import.ID

	w = c.do("POST", "/api/import-csv", alice, strings.NewReader(""), "multipart/form-data; boundary=x")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.json("GET", "/api/imported-csvs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]schema.ImportedCSV](t, w), 1)

	w = c.json("GET", fmt.Sprintf("/api/forms/%d", formID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	form := decode[schema.Form](t, w)
	require.Len(t, form.Sections, 1)
	qs := form.Sections[0].Questions
	require.Len(t, qs, 2)
	assert.Equal(t, "age", qs[0].VariableName)
	assert.Equal(t, "age_1", qs[1].VariableName)

	w = c.json("GET", fmt.Sprintf("/api/forms/%d/export", formID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), fmt.Sprintf("form_%d.csv", formID))
	assert.Contains(t, w.Body.String(), "Variable / Field Name")

	w = c.json("GET", fmt.Sprintf("/api/export-csv/%d", importID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\xEF\xBB\xBF")))

	w = c.json("DELETE", fmt.Sprintf("/api/imported-csvs/%d", importID), bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = c.json("DELETE", fmt.Sprintf("/api/imported-csvs/%d", importID), alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = c.json("GET", fmt.Sprintf("/api/forms/%d", formID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = c.json("GET", "/api/forms/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuestionVersions(t *testing.T) {
	c := newClient(t)
	alice := c.user("alice")
	bob := c.user("bob")

	w := c.upload(alice, "intake.csv", sampleCSV)
	require.Equal(t, http.StatusCreated, w.Code)
	res := decode[formbuilder.ImportResult](t, w)
	sec := res.Form.Sections[0]
	qid := sec.Questions[0].ID

	w = c.json("PUT", fmt.Sprintf("/api/questions/%d", qid), bob, map[string]any{
		"label":   "Age in years",
		"choices": map[string]string{"1": "One"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	next := decode[schema.Question](t, w)
	assert.Equal(t, "2.0", next.Version)
	assert.Equal(t, "bob", next.ModifiedBy)

	w = c.json("PUT", fmt.Sprintf("/api/questions/%d", qid), bob, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.json("GET", fmt.Sprintf("/api/sections/%d/questions/age/versions", sec.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	vs := decode[[]schema.Question](t, w)
	require.Len(t, vs, 2)
	assert.Equal(t, "2.0", vs[0].Version)

	w = c.json("GET", fmt.Sprintf("/api/forms/%d/questions", res.Form.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	hist := decode[[]qversion.SectionHistory](t, w)
	require.Len(t, hist, 1)
	assert.Len(t, hist[0].Variables, 2)

	w = c.json("DELETE", fmt.Sprintf("/api/questions/%d", next.ID), alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = c.json("DELETE", fmt.Sprintf("/api/questions/%d", next.ID), bob, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = c.json("DELETE", fmt.Sprintf("/api/questions/%d", next.ID), bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateForms(t *testing.T) {
	c := newClient(t)
	alice := c.user("alice")

	w := c.json("POST", "/api/forms", alice, map[string]any{
		"name": "manual",
		"sections": []map[string]any{
			{"title": "S", "questions": []map[string]any{
				{"variable_name": "q1", "label": "First", "dependencies": map[string]any{"show": true}},
			}},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	form := decode[schema.Form](t, w)
	qid := form.Sections[0].Questions[0].ID

	w = c.json("POST", "/api/forms", alice, map[string]any{"sections": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.json("POST", "/api/forms/from-questions", alice, map[string]any{
		"name": "picked", "question_ids": []uint{qid},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	picked := decode[schema.Form](t, w)
	assert.Equal(t, fmt.Sprintf("q1_%d", picked.ID), picked.Sections[0].Questions[0].VariableName)

	w = c.json("POST", "/api/forms/from-questions", alice, map[string]any{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.upload(alice, "intake.csv", sampleCSV)
	require.Equal(t, http.StatusCreated, w.Code)
	w = c.json("POST", "/api/forms/from-imports", alice, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = c.json("GET", "/api/forms", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]schema.Form](t, w), 4)

	w = c.json("DELETE", fmt.Sprintf("/api/forms/%d", picked.ID), alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = c.json("GET", "/api/forms", "", nil)
	assert.Len(t, decode[[]schema.Form](t, w), 3)
}

func TestMetrics(t *testing.T) {
	c := newClient(t)
	tok := c.user("alice")
	w := c.upload(tok, "intake.csv", sampleCSV)
	require.Equal(t, http.StatusCreated, w.Code)
	c.json("GET", "/api/ping", "", nil)

	w = c.json("GET", "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "gnforms_imports_total 1")
	assert.Contains(t, body, `gnforms_http_requests_total{method="GET",route="/api/ping",status="200"} 1`)
}
