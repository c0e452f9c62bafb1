package redcap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Choice is one entry of a choice list, for example "1, Yes".
type Choice struct {
	Key   string
	Label string
}

// Choices is an ordered key to label mapping. In JSON and YAML it is an
// object whose keys keep their order.
type Choices []Choice

// ParseChoices converts REDCap's "key, label | key, label" syntax.
//
// Entries are separated by "|", key and label are split on the first comma,
// so labels may contain commas. Entries without a comma are skipped. A
// repeated key keeps its first position and takes the last label. Empty
// input, or input without any valid entry, returns nil.
func ParseChoices(raw string) Choices {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var res Choices
	idx := make(map[string]int)
	for entry := range strings.SplitSeq(raw, "|") {
		key, label, ok := strings.Cut(strings.TrimSpace(entry), ",")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		label = strings.TrimSpace(label)
		if i, ok := idx[key]; ok {
			res[i].Label = label
			continue
		}
		idx[key] = len(res)
		res = append(res, Choice{Key: key, Label: label})
	}
	return res
}

// String renders choices back to "key, label | key, label".
func (cs Choices) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.Key + ", " + c.Label
	}
	return strings.Join(parts, " | ")
}

// Label returns the label of a key.
func (cs Choices) Label(key string) (string, bool) {
	for _, c := range cs {
		if c.Key == key {
			return c.Label, true
		}
	}
	return "", false
}

// MarshalJSON writes choices as an object with keys in list order.
func (cs Choices) MarshalJSON() ([]byte, error) {
	if cs == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range cs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts null, an object of string labels (order kept), or
// an array of {"key": ..., "label": ...} objects. Any other shape is an
// error.
func (cs *Choices) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*cs = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var items []struct {
			Key   string `json:"key"`
			Label string `json:"label"`
		}
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("choices: %w", err)
		}
		res := make(Choices, len(items))
		for i, v := range items {
			res[i] = Choice{Key: v.Key, Label: v.Label}
		}
		*cs = res
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("choices: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("choices: expected object or array")
	}
	res := Choices{}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return fmt.Errorf("choices: %w", err)
		}
		key := tok.(string)
		var label string
		if err = dec.Decode(&label); err != nil {
			return fmt.Errorf("choices: label of %q: %w", key, err)
		}
		res = append(res, Choice{Key: key, Label: label})
	}
	*cs = res
	return nil
}

// MarshalYAML writes choices as an ordered mapping.
func (cs Choices) MarshalYAML() (any, error) {
	if cs == nil {
		return nil, nil
	}
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range cs {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Label},
		)
	}
	return node, nil
}

// UnmarshalYAML reads an ordered mapping, or a choice string such as
// "1, Yes | 0, No".
func (cs *Choices) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*cs = nil
			return nil
		}
		*cs = ParseChoices(node.Value)
		return nil
	case yaml.MappingNode:
		res := make(Choices, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			res = append(res, Choice{
				Key:   node.Content[i].Value,
				Label: node.Content[i+1].Value,
			})
		}
		*cs = res
		return nil
	default:
		return fmt.Errorf("choices: line %d: expected mapping", node.Line)
	}
}
