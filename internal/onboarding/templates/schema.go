package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"gopkg.in/yaml.v3"
)

// Encoding is how a template's payload travels to the renderer.
type Encoding string

const (
	EncodingMultipart Encoding = "multipart"
	EncodingJSON      Encoding = "json"
)

// FieldKind describes the shape of a field value.
type FieldKind string

const (
	// KindText is a single string; empty values render as one blank.
	KindText FieldKind = "text"
	// KindFlag is "true" or "false".
	KindFlag FieldKind = "flag"
	// KindRows is a list of string maps, one per person.
	KindRows FieldKind = "rows"
)

// FieldSpec binds one template key to either a named source or a literal.
type FieldSpec struct {
	Key    string    `yaml:"key"`
	Source string    `yaml:"source,omitempty"`
	Value  *string   `yaml:"value,omitempty"`
	Kind   FieldKind `yaml:"kind,omitempty"`
}

// Literal reports whether the field is a fixed value.
func (f FieldSpec) Literal() bool {
	return f.Value != nil
}

// Schema is the field contract of one template.
type Schema struct {
	Template ID       `yaml:"template"`
	Encoding Encoding `yaml:"encoding"`

	// Attachments sends the additional documents alongside the fields.
	Attachments bool        `yaml:"attachments"`
	Fields      []FieldSpec `yaml:"fields"`
}

// Keys returns the field keys in contract order.
func (s *Schema) Keys() []string {
	keys := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Sources returns every distinct source name the schema refers to.
func (s *Schema) Sources() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, f := range s.Fields {
		if f.Source == "" {
			continue
		}
		if _, ok := seen[f.Source]; ok {
			continue
		}
		seen[f.Source] = struct{}{}
		out = append(out, f.Source)
	}
	return out
}

func (s *Schema) validate(file string) error {
	if _, ok := names[s.Template]; !ok {
		return fmt.Errorf("%s: unknown template %q", file, s.Template)
	}
	switch s.Encoding {
	case EncodingMultipart, EncodingJSON:
	default:
		return fmt.Errorf("%s: unknown encoding %q", file, s.Encoding)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("%s: no fields", file)
	}
	keys := make(map[string]struct{}, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Key == "" {
			return fmt.Errorf("%s: field %d has no key", file, i)
		}
		if _, dup := keys[f.Key]; dup {
			return fmt.Errorf("%s: duplicate key %q", file, f.Key)
		}
		keys[f.Key] = struct{}{}
		if (f.Source == "") == (f.Value == nil) {
			return fmt.Errorf("%s: key %q needs exactly one of source or value", file, f.Key)
		}
		if f.Kind == "" {
			f.Kind = KindText
		}
		switch f.Kind {
		case KindText, KindFlag:
		case KindRows:
			if f.Literal() {
				return fmt.Errorf("%s: key %q: rows cannot be literal", file, f.Key)
			}
		default:
			return fmt.Errorf("%s: key %q: unknown kind %q", file, f.Key, f.Kind)
		}
	}
	return nil
}

//go:embed schemas/*.yaml
var embedded embed.FS

// ErrNoSchema is returned for templates without a field contract.
var ErrNoSchema = errors.New("no schema for template")

// Registry holds the field contracts keyed by template.
type Registry struct {
	schemas map[ID]*Schema
}

// Load reads every *.yaml file in dir of fsys.
func Load(fsys fs.FS, dir string) (*Registry, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	r := &Registry{schemas: make(map[ID]*Schema, len(files))}
	for _, file := range files {
		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		var s Schema
		if err := yaml.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		if err := s.validate(file); err != nil {
			return nil, err
		}
		if _, dup := r.schemas[s.Template]; dup {
			return nil, fmt.Errorf("%s: template %s defined twice", file, s.Template)
		}
		r.schemas[s.Template] = &s
	}
	return r, nil
}

// Get returns the schema for id.
func (r *Registry) Get(id ID) (*Schema, error) {
	s, ok := r.schemas[id]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrNoSchema, id)
	}
	return s, nil
}

// Templates lists the templates with a schema, in generation order.
func (r *Registry) Templates() []ID {
	var out []ID
	for _, id := range All {
		if _, ok := r.schemas[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	return Load(embedded, "schemas")
})

// Schemas returns the registry of the built-in schemas.
func Schemas() (*Registry, error) {
	return defaultRegistry()
}
