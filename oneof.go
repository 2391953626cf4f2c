package shapematch

import (
	"context"

	js "github.com/reoring/shapematch/jsonschema"
)

// OneOf is the exclusive union: every position of its shape must match
// exactly one candidate. A position matched by several candidates fails with
// multiple_matched, one matched by none fails with none_matched.
type OneOf struct{ union }

// NewOneOf returns an exclusive union of cands wrapped in sc's shape.
func NewOneOf(sc ShapeContext, cands ...Candidate) *OneOf {
	o := &OneOf{union{cands: append([]Candidate(nil), cands...), sc: sc, mode: modeExclusive}}
	o.self = o
	return o
}

func (o *OneOf) WithContext(sc ShapeContext) Candidate { return NewOneOf(sc, o.cands...) }

func (o *OneOf) Match(ctx context.Context, v Value) *Result { return o.match(ctx, v) }

// Decode follows, at every position, the single candidate that matched.
func (o *OneOf) Decode(ctx context.Context, r *Result) (any, error) { return o.decode(ctx, r) }

func (o *OneOf) JSONSchema() (*js.Schema, error) { return o.jsonSchema(js.Visiting{}) }

func (o *OneOf) ProjectSchema(visiting js.Visiting) (*js.Schema, error) {
	return o.jsonSchema(visiting)
}
