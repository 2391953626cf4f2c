package shapematch

import (
	"context"

	js "github.com/reoring/shapematch/jsonschema"
)

// Candidate is one alternative of a union: a Leaf bound to a concrete target
// type, or a nested OneOf/AnyOf.
//
// Match is pure: it never mutates the candidate and returns a fresh Result,
// so a candidate may be shared across goroutines. Decode consumes a Result
// produced by the same candidate's Match and follows the branches recorded
// there without matching again.
type Candidate interface {
	Name() string
	Context() ShapeContext
	// WithContext returns a copy of the candidate using sc.
	WithContext(sc ShapeContext) Candidate
	Match(ctx context.Context, v Value) *Result
	Decode(ctx context.Context, r *Result) (any, error)
	JSONSchema() (*js.Schema, error)
}

// Target is the scalar check and conversion a Leaf applies at every position
// of its shape.
type Target interface {
	Name() string
	// Check returns nil when v (never null) is acceptable.
	Check(ctx context.Context, v Value, sc ShapeContext) error
	// Convert materializes a value Check accepted.
	Convert(ctx context.Context, v Value, sc ShapeContext) (any, error)
	JSONSchema(sc ShapeContext) (*js.Schema, error)
}

// Model is a self-validating structured type built from an object value.
type Model interface {
	Name() string
	// Validate reports structural problems (missing or mistyped fields).
	Validate(ctx context.Context, v Value) error
	Construct(ctx context.Context, v Value) (any, error)
}

// PathProjector is implemented by candidates and models whose projection may
// recurse into themselves. visiting holds the models on the current path.
type PathProjector interface {
	ProjectSchema(visiting js.Visiting) (*js.Schema, error)
}

// TargetProjector is the Target counterpart of PathProjector.
type TargetProjector interface {
	ProjectSchema(sc ShapeContext, visiting js.Visiting) (*js.Schema, error)
}

// ProjectSchema projects c, handing visiting down when c supports it.
func ProjectSchema(c Candidate, visiting js.Visiting) (*js.Schema, error) {
	if p, ok := c.(PathProjector); ok {
		return p.ProjectSchema(visiting)
	}
	return c.JSONSchema()
}

// Enum is a closed set of literal members.
type Enum interface {
	Name() string
	Contains(v Value) bool
	Member(v Value) (any, error)
}
