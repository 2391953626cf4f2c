package shapematch

import (
	"context"

	js "github.com/reoring/shapematch/jsonschema"
)

// Leaf is the terminal candidate: one concrete Target, applied at every
// position of the context's shape.
type Leaf struct {
	target Target
	sc     ShapeContext
}

// NewLeaf returns a Leaf matching t in the shape described by sc.
func NewLeaf(t Target, sc ShapeContext) *Leaf {
	return &Leaf{target: t, sc: sc}
}

func (l *Leaf) Target() Target { return l.target }

func (l *Leaf) Name() string { return l.sc.Shape.Decorate(l.target.Name()) }

func (l *Leaf) Context() ShapeContext { return l.sc }

func (l *Leaf) WithContext(sc ShapeContext) Candidate {
	return &Leaf{target: l.target, sc: sc}
}

// Match checks v against the leaf's shape and target.
func (l *Leaf) Match(ctx context.Context, v Value) *Result {
	ctx, ok := enter(ctx)
	if !ok {
		return depthExceeded(ctx, l, v)
	}
	if v.IsNull() {
		r := newResult(l, l.sc.Shape, v)
		if l.sc.NullAllowed() {
			r.Valid = true
			return r
		}
		return r.fail(l.nullIssue())
	}
	return matchShape(ctx, l, l.sc.Shape, v, l.matchScalar)
}

func (l *Leaf) matchScalar(ctx context.Context, v Value) *Result {
	r := newResult(l, ShapeScalar, v)
	if v.IsNull() {
		if l.sc.NullAllowed() {
			r.Valid = true
			return r
		}
		return r.fail(l.nullIssue())
	}
	if err := l.target.Check(ctx, v, l.sc); err != nil {
		return r.fail(toIssues(err, CodeInvalidType)...)
	}
	r.Valid = true
	return r
}

func (l *Leaf) nullIssue() Issue {
	return rootPath.issue(CodeInvalidType, map[string]string{"expected": l.target.Name(), "got": KindNull.String()}, nil)
}

// Decode converts the value recorded in r into the target's native form,
// keeping the container shape intact.
func (l *Leaf) Decode(ctx context.Context, r *Result) (any, error) {
	if err := checkDecodable(l, r); err != nil {
		return nil, err
	}
	if r.Value.IsNull() {
		return nil, nil
	}
	return decodeShape(ctx, l.sc.Shape, r, l.decodeScalar)
}

func (l *Leaf) decodeScalar(ctx context.Context, r *Result) (any, error) {
	if r.Value.IsNull() {
		return nil, nil
	}
	return l.target.Convert(ctx, r.Value, l.sc)
}

func (l *Leaf) JSONSchema() (*js.Schema, error) { return l.ProjectSchema(js.Visiting{}) }

func (l *Leaf) ProjectSchema(visiting js.Visiting) (*js.Schema, error) {
	var (
		elem *js.Schema
		err  error
	)
	if tp, ok := l.target.(TargetProjector); ok {
		elem, err = tp.ProjectSchema(l.sc, visiting)
	} else {
		elem, err = l.target.JSONSchema(l.sc)
	}
	if err != nil {
		return nil, err
	}
	return l.sc.wrapSchema(elem), nil
}
