package schema

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ChangeType tells why a question version was created.
type ChangeType string

const (
	ChangeImported ChangeType = "imported"
	ChangeCreated  ChangeType = "created"
	ChangeFixed    ChangeType = "fixed"
	ChangeChanged  ChangeType = "changed"
)

// ParseChangeType validates s. Matching is case-insensitive.
func ParseChangeType(s string) (ChangeType, error) {
	res := ChangeType(strings.ToLower(strings.TrimSpace(s)))
	if !res.Valid() {
		return "", ChangeTypeError(s)
	}
	return res, nil
}

// Valid reports whether ct is one of the known change types.
func (ct ChangeType) Valid() bool {
	switch ct {
	case ChangeImported, ChangeCreated, ChangeFixed, ChangeChanged:
		return true
	}
	return false
}

// JSONBlob is an opaque JSON document. It is validated when it crosses
// a boundary and stored as text. An empty blob is NULL in the database
// and null in JSON.
type JSONBlob []byte

// NewJSONBlob validates data. Blank input gives an empty blob.
func NewJSONBlob(data []byte) (JSONBlob, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	if !json.Valid(data) {
		return nil, DependenciesError()
	}
	res := make(JSONBlob, len(data))
	copy(res, data)
	return res, nil
}

// MarshalJSON implements json.Marshaler.
func (b JSONBlob) MarshalJSON() ([]byte, error) {
	if len(b) == 0 {
		return []byte("null"), nil
	}
	return b, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *JSONBlob) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = nil
		return nil
	}
	if !json.Valid(data) {
		return DependenciesError()
	}
	*b = append((*b)[:0], data...)
	return nil
}

// MarshalYAML writes the decoded document.
func (b JSONBlob) MarshalYAML() (any, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var res any
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// UnmarshalYAML reads any YAML value and keeps it as JSON.
func (b *JSONBlob) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	if v == nil {
		*b = nil
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("dependencies: %w", err)
	}
	*b = data
	return nil
}

// Value implements driver.Valuer.
func (b JSONBlob) Value() (driver.Value, error) {
	if len(b) == 0 {
		return nil, nil
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (b *JSONBlob) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*b = nil
	case string:
		*b = JSONBlob(v)
	case []byte:
		*b = append(JSONBlob(nil), v...)
	default:
		return fmt.Errorf("dependencies: cannot scan %T", src)
	}
	return nil
}
