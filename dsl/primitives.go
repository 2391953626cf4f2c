package dsl

import (
	"context"

	shapematch "github.com/reoring/shapematch"
	js "github.com/reoring/shapematch/jsonschema"
)

// primitive targets compare the value's Kind tag only: a boolean never
// satisfies Int and an integer never satisfies Bool.
type primitive struct {
	name       string
	schemaType string
	accepts    func(shapematch.Kind) bool
	convert    func(shapematch.Value) any
}

// Int accepts integers.
func Int() shapematch.Target {
	return primitive{
		name:       "int",
		schemaType: "integer",
		accepts:    func(k shapematch.Kind) bool { return k == shapematch.KindInt },
		convert: func(v shapematch.Value) any {
			i, _ := v.AsInt()
			return i
		},
	}
}

// Float accepts numbers, including integral ones; it decodes to float64.
func Float() shapematch.Target {
	return primitive{
		name:       "float",
		schemaType: "number",
		accepts: func(k shapematch.Kind) bool {
			return k == shapematch.KindFloat || k == shapematch.KindInt
		},
		convert: func(v shapematch.Value) any {
			f, _ := v.AsNumber()
			return f
		},
	}
}

// String accepts strings.
func String() shapematch.Target {
	return primitive{
		name:       "string",
		schemaType: "string",
		accepts:    func(k shapematch.Kind) bool { return k == shapematch.KindString },
		convert: func(v shapematch.Value) any {
			s, _ := v.AsString()
			return s
		},
	}
}

// Bool accepts booleans.
func Bool() shapematch.Target {
	return primitive{
		name:       "bool",
		schemaType: "boolean",
		accepts:    func(k shapematch.Kind) bool { return k == shapematch.KindBool },
		convert: func(v shapematch.Value) any {
			b, _ := v.AsBool()
			return b
		},
	}
}

// Any accepts every non-null value and decodes it to its native tree.
func Any() shapematch.Target {
	return primitive{
		name:    "any",
		accepts: func(k shapematch.Kind) bool { return k != shapematch.KindNull },
		convert: shapematch.Value.Interface,
	}
}

func (p primitive) Name() string { return p.name }

func (p primitive) Check(_ context.Context, v shapematch.Value, _ shapematch.ShapeContext) error {
	if !p.accepts(v.Kind()) {
		return invalidType(p.name, v)
	}
	return nil
}

func (p primitive) Convert(_ context.Context, v shapematch.Value, _ shapematch.ShapeContext) (any, error) {
	return p.convert(v), nil
}

func (p primitive) JSONSchema(shapematch.ShapeContext) (*js.Schema, error) {
	return &js.Schema{Type: p.schemaType}, nil
}
