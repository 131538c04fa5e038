// Package mapping turns a FormState into the field payload each document
// template expects. Key contracts live in the template schemas; this package
// only knows how to produce the values the schemas name.
package mapping

import (
	"fmt"
	"time"

	"onboarding/internal/onboarding/models"
	"onboarding/internal/onboarding/risk"
	"onboarding/internal/onboarding/templates"
	dErrors "onboarding/pkg/domain-errors"
)

// UnexpectedDataError is the user-facing message for mapping defects.
const UnexpectedDataError = "unexpected data error"

// Mapper resolves template schemas against form states.
type Mapper struct {
	schemas *templates.Registry
	now     func() time.Time
	meta    Metadata
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithClock sets the clock used for document and decision dates.
func WithClock(now func() time.Time) Option {
	return func(m *Mapper) {
		m.now = now
	}
}

// WithMetadata sets the filing intermediary.
func WithMetadata(meta Metadata) Option {
	return func(m *Mapper) {
		m.meta = meta
	}
}

// New creates a mapper over the given schemas.
func New(schemas *templates.Registry, opts ...Option) *Mapper {
	m := &Mapper{
		schemas: schemas,
		now:     time.Now,
		meta:    DefaultMetadata,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// VQF returns the structured document data for s.
func (m *Mapper) VQF(s models.FormState) VQF {
	return BuildVQF(s, m.now(), m.meta)
}

// Map builds the payload for one template. Missing optional values become a
// single blank; the only failure is a structurally broken state, reported
// as a mapping error with the "unexpected data error" message.
func (m *Mapper) Map(s models.FormState, id templates.ID) (Payload, error) {
	schema, err := m.schemas.Get(id)
	if err != nil {
		return Payload{}, dErrors.Wrap(err, dErrors.CodeMapping, UnexpectedDataError)
	}

	now := m.now()
	data := BuildVQF(s, now, m.meta).DocumentData()
	data["documentType"] = string(id)
	data["generatedAt"] = now.UTC().Format(time.RFC3339)

	in := &input{
		state: s,
		now:   now,
		risk:  risk.Classify(s),
		data:  data,
	}

	payload := Payload{
		Template:    id,
		Encoding:    schema.Encoding,
		Attachments: schema.Attachments,
		Fields:      make([]Field, 0, len(schema.Fields)),
	}
	for _, spec := range schema.Fields {
		var v Value
		if spec.Literal() {
			v = Value{Kind: spec.Kind, Text: *spec.Value}
		} else {
			v, err = resolve(spec.Source, in)
			if err != nil {
				return Payload{}, dErrors.Wrap(fmt.Errorf("%s %s: %w", id, spec.Key, err), dErrors.CodeMapping, UnexpectedDataError)
			}
			if (spec.Kind == templates.KindRows) != (v.Kind == templates.KindRows) {
				return Payload{}, dErrors.New(dErrors.CodeMapping, UnexpectedDataError)
			}
			if spec.Kind == templates.KindText {
				v.Text = Blank(v.Text)
			}
			v.Kind = spec.Kind
		}
		payload.Fields = append(payload.Fields, Field{Key: spec.Key, Value: v})
	}
	return payload, nil
}
