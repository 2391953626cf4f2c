package dsl

import (
	"context"

	shapematch "github.com/reoring/shapematch"
	"github.com/reoring/shapematch/codec"
	js "github.com/reoring/shapematch/jsonschema"
)

type dateTarget struct{}

// Date accepts YYYY-MM-DD strings and decodes them to time.Time.
func Date() shapematch.Target { return dateTarget{} }

func (dateTarget) Name() string { return "date" }

func (dateTarget) Check(_ context.Context, v shapematch.Value, _ shapematch.ShapeContext) error {
	return codec.Date().Validate(v)
}

func (dateTarget) Convert(_ context.Context, v shapematch.Value, _ shapematch.ShapeContext) (any, error) {
	return codec.Date().Decode(v)
}

func (dateTarget) JSONSchema(shapematch.ShapeContext) (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "date"}, nil
}

type dateTimeTarget struct{}

// DateTime accepts date-times in the wire format selected by the leaf's
// ShapeContext (RFC3339 when unspecified) and decodes them to time.Time.
func DateTime() shapematch.Target { return dateTimeTarget{} }

func (dateTimeTarget) Name() string { return "datetime" }

func (dateTimeTarget) Check(_ context.Context, v shapematch.Value, sc shapematch.ShapeContext) error {
	return codec.DateTime(sc.DateTimeFormat).Validate(normalize(v, sc))
}

func (dateTimeTarget) Convert(_ context.Context, v shapematch.Value, sc shapematch.ShapeContext) (any, error) {
	return codec.DateTime(sc.DateTimeFormat).Decode(normalize(v, sc))
}

func (dateTimeTarget) JSONSchema(sc shapematch.ShapeContext) (*js.Schema, error) {
	switch sc.DateTimeFormat {
	case shapematch.DateTimeUnixTimestamp:
		return &js.Schema{Type: "integer", Format: "unix-time"}, nil
	case shapematch.DateTimeHTTPDate:
		return &js.Schema{Type: "string", Format: "http-date"}, nil
	default:
		return &js.Schema{Type: "string", Format: "date-time"}, nil
	}
}

func normalize(v shapematch.Value, sc shapematch.ShapeContext) shapematch.Value {
	if sc.Converter == nil {
		return v
	}
	return sc.Converter(v)
}
