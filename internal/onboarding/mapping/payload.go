package mapping

import (
	"encoding/json"

	"onboarding/internal/onboarding/templates"
)

// Value is a resolved field value: a string, or a table of rows.
type Value struct {
	Kind templates.FieldKind
	Text string
	Rows []map[string]string
}

// Text wraps a string value.
func Text(s string) Value {
	return Value{Kind: templates.KindText, Text: s}
}

// Flag wraps a checkbox value.
func Flag(ok bool) Value {
	return Value{Kind: templates.KindFlag, Text: Presence(ok)}
}

// Rows wraps a person table.
func Rows(rows []map[string]string) Value {
	if rows == nil {
		rows = []map[string]string{}
	}
	return Value{Kind: templates.KindRows, Rows: rows}
}

// Any returns the plain Go value.
func (v Value) Any() any {
	if v.Kind == templates.KindRows {
		return v.Rows
	}
	return v.Text
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// Field is one key of a payload.
type Field struct {
	Key   string
	Value Value
}

// Payload is everything the renderer needs for one template, fields in
// contract order.
type Payload struct {
	Template    templates.ID
	Encoding    templates.Encoding
	Attachments bool
	Fields      []Field
}

// Values returns the fields as a map.
func (p Payload) Values() map[string]any {
	out := make(map[string]any, len(p.Fields))
	for _, f := range p.Fields {
		out[f.Key] = f.Value.Any()
	}
	return out
}

// Get returns the value for key.
func (p Payload) Get(key string) (Value, bool) {
	for _, f := range p.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// MarshalJSON encodes {"template": id, ...fields}, the JSON request body.
func (p Payload) MarshalJSON() ([]byte, error) {
	body := p.Values()
	body["template"] = string(p.Template)
	return json.Marshal(body)
}
