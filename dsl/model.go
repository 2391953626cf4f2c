package dsl

import (
	"context"

	shapematch "github.com/reoring/shapematch"
	js "github.com/reoring/shapematch/jsonschema"
)

// SchemaProjector is implemented by models that can describe themselves as a
// JSON Schema object.
type SchemaProjector interface {
	JSONSchema() (*js.Schema, error)
}

type modelTarget struct{ model shapematch.Model }

// ModelOf returns a target that accepts objects the model validates. When the
// leaf carries a discriminator the object must also hold field == value.
func ModelOf(m shapematch.Model) shapematch.Target { return modelTarget{model: m} }

func (t modelTarget) Name() string { return t.model.Name() }

func (t modelTarget) Check(ctx context.Context, v shapematch.Value, sc shapematch.ShapeContext) error {
	if v.Kind() != shapematch.KindObject {
		return invalidType(t.model.Name(), v)
	}
	if sc.HasDiscriminator() {
		d := sc.Discriminator
		got, ok := v.Get(d.Field)
		if s, isStr := got.AsString(); !ok || !isStr || s != d.Value {
			it := issueAt("/"+escapePointer(d.Field), shapematch.CodeDiscriminatorMismatch, map[string]string{
				"key":      d.Field,
				"expected": d.Value,
			})
			it.Hint = "got " + got.String()
			return shapematch.Issues{it}
		}
	}
	return t.model.Validate(ctx, v)
}

func (t modelTarget) Convert(ctx context.Context, v shapematch.Value, _ shapematch.ShapeContext) (any, error) {
	return t.model.Construct(ctx, v)
}

func (t modelTarget) JSONSchema(sc shapematch.ShapeContext) (*js.Schema, error) {
	return t.ProjectSchema(sc, js.Visiting{})
}

func (t modelTarget) ProjectSchema(sc shapematch.ShapeContext, visiting js.Visiting) (*js.Schema, error) {
	var (
		ps  *js.Schema
		err error
	)
	switch p := t.model.(type) {
	case shapematch.PathProjector:
		ps, err = p.ProjectSchema(visiting)
	case SchemaProjector:
		ps, err = p.JSONSchema()
	}
	if err != nil {
		return nil, err
	}
	var s *js.Schema
	if ps != nil {
		cp := *ps
		s = &cp
	} else {
		s = &js.Schema{Type: "object", Title: t.model.Name()}
	}
	if sc.HasDiscriminator() {
		props := make(map[string]*js.Schema, len(s.Properties)+1)
		for k, p := range s.Properties {
			props[k] = p
		}
		props[sc.Discriminator.Field] = &js.Schema{Type: "string", Enum: []any{sc.Discriminator.Value}}
		s.Properties = props
	}
	return s, nil
}
