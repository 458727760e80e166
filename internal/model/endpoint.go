package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Attr is one pass-through endpoint attribute. Order is preserved so the
// rendered proxies keep the layout of the subscription they came from.
type Attr struct {
	Key   string
	Value any
}

// Endpoint is a proxy node. Only Name takes part in classification.
type Endpoint struct {
	Name  string
	Attrs []Attr
}

// Attr returns the value of key, if present.
func (e Endpoint) Attr(key string) (any, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return nil, false
}

func (e Endpoint) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	n.Content = append(n.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "name"},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Name},
	)
	for _, a := range e.Attrs {
		var v yaml.Node
		if err := v.Encode(a.Value); err != nil {
			return nil, fmt.Errorf("endpoint %q attr %q: %w", e.Name, a.Key, err)
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: a.Key}, &v)
	}
	return n, nil
}

func (e *Endpoint) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: endpoint must be a mapping", value.Line)
	}
	out := Endpoint{Attrs: make([]Attr, 0, len(value.Content)/2)}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		if key == "name" {
			out.Name = value.Content[i+1].Value
			continue
		}
		var v any
		if err := value.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("line %d: attr %q: %w", value.Content[i+1].Line, key, err)
		}
		out.Attrs = append(out.Attrs, Attr{Key: key, Value: v})
	}
	*e = out
	return nil
}

func (e Endpoint) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(`{"name":`)
	name, err := json.Marshal(e.Name)
	if err != nil {
		return nil, err
	}
	b.Write(name)
	for _, a := range e.Attrs {
		k, err := json.Marshal(a.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(a.Value)
		if err != nil {
			return nil, fmt.Errorf("endpoint %q attr %q: %w", e.Name, a.Key, err)
		}
		b.WriteByte(',')
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (e *Endpoint) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("endpoint must be a JSON object")
	}
	var out Endpoint
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("attr %q: %w", key, err)
		}
		if key == "name" {
			if err := json.Unmarshal(raw, &out.Name); err != nil {
				return fmt.Errorf("name must be a string: %w", err)
			}
			continue
		}
		var v any
		vd := json.NewDecoder(bytes.NewReader(raw))
		vd.UseNumber()
		if err := vd.Decode(&v); err != nil {
			return fmt.Errorf("attr %q: %w", key, err)
		}
		out.Attrs = append(out.Attrs, Attr{Key: key, Value: plainNumbers(v)})
	}
	*e = out
	return nil
}

// plainNumbers replaces json.Number with int64 or float64 so the value
// encodes as a number in YAML as well.
func plainNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		for k, e := range x {
			x[k] = plainNumbers(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = plainNumbers(e)
		}
		return x
	default:
		return v
	}
}
