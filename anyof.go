package shapematch

import (
	"context"

	js "github.com/reoring/shapematch/jsonschema"
)

// AnyOf is the inclusive union: every position of its shape must match at
// least one candidate.
type AnyOf struct{ union }

// NewAnyOf returns an inclusive union of cands wrapped in sc's shape.
func NewAnyOf(sc ShapeContext, cands ...Candidate) *AnyOf {
	a := &AnyOf{union{cands: append([]Candidate(nil), cands...), sc: sc, mode: modeInclusive}}
	a.self = a
	return a
}

func (a *AnyOf) WithContext(sc ShapeContext) Candidate { return NewAnyOf(sc, a.cands...) }

func (a *AnyOf) Match(ctx context.Context, v Value) *Result { return a.match(ctx, v) }

// Decode follows, at every position, the first candidate in declared order
// that matched.
func (a *AnyOf) Decode(ctx context.Context, r *Result) (any, error) { return a.decode(ctx, r) }

func (a *AnyOf) JSONSchema() (*js.Schema, error) { return a.jsonSchema(js.Visiting{}) }

func (a *AnyOf) ProjectSchema(visiting js.Visiting) (*js.Schema, error) {
	return a.jsonSchema(visiting)
}
