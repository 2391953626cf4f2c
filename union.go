package shapematch

import (
	"context"
	"strings"

	js "github.com/reoring/shapematch/jsonschema"
)

// union holds what OneOf and AnyOf share: the candidate list, the shape the
// union itself is wrapped in, and the per-position predicate.
type union struct {
	self  Candidate
	cands []Candidate
	sc    ShapeContext
	mode  matchMode
}

func (u *union) Name() string {
	return u.sc.Shape.Decorate(u.mode.String() + "(" + strings.Join(candidateNames(u.cands), ", ") + ")")
}

func (u *union) Context() ShapeContext { return u.sc }

// Candidates returns the declared candidates in order.
func (u *union) Candidates() []Candidate {
	return append([]Candidate(nil), u.cands...)
}

func (u *union) match(ctx context.Context, v Value) *Result {
	ctx, ok := enter(ctx)
	if !ok {
		return depthExceeded(ctx, u.self, v)
	}
	if v.IsNull() {
		r := newResult(u.self, u.sc.Shape, v)
		if u.sc.NullAllowed() {
			r.Valid = true
			return r
		}
		return r.fail(rootPath.issue(CodeInvalidType, map[string]string{"expected": u.Name(), "got": KindNull.String()}, nil))
	}
	return matchShape(ctx, u.self, u.sc.Shape, v, u.matchScalar)
}

func (u *union) matchScalar(ctx context.Context, v Value) *Result {
	return matchPosition(ctx, u.self, v, u.cands, u.mode)
}

func (u *union) decode(ctx context.Context, r *Result) (any, error) {
	if err := checkDecodable(u.self, r); err != nil {
		return nil, err
	}
	if r.Value.IsNull() && r.Branches == nil {
		return nil, nil
	}
	return decodeShape(ctx, u.sc.Shape, r, u.decodeScalar)
}

// decodeScalar follows the branch selected during matching.
func (u *union) decodeScalar(ctx context.Context, r *Result) (any, error) {
	b := r.SelectedBranch()
	if b == nil {
		return nil, notValidated("no branch selected")
	}
	return b.producer.Decode(ctx, b)
}

func (u *union) jsonSchema(visiting js.Visiting) (*js.Schema, error) {
	subs := make([]*js.Schema, 0, len(u.cands))
	for _, c := range u.cands {
		s, err := ProjectSchema(c, visiting)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	elem := &js.Schema{}
	if u.mode == modeExclusive {
		elem.OneOf = subs
	} else {
		elem.AnyOf = subs
	}
	if allDiscriminated(u.cands) {
		elem.Discriminator = u.discriminator()
	}
	return u.sc.wrapSchema(elem), nil
}

// discriminator builds the OpenAPI discriminator object. Mapping is left out
// unless every candidate stands for a named schema component.
func (u *union) discriminator() *js.Discriminator {
	d := &js.Discriminator{PropertyName: u.cands[0].Context().Discriminator.Field}
	mapping := make(map[string]string, len(u.cands))
	for _, c := range u.cands {
		dc := c.Context().Discriminator
		if dc.Field != d.PropertyName {
			return nil
		}
		ref, ok := componentRef(c)
		if !ok {
			mapping = nil
			continue
		}
		if mapping != nil {
			mapping[dc.Value] = ref
		}
	}
	d.Mapping = mapping
	return d
}

// componentRef names the schema component a scalar leaf projects to.
func componentRef(c Candidate) (string, bool) {
	l, ok := c.(*Leaf)
	if !ok || l.sc.Shape != ShapeScalar {
		return "", false
	}
	return ComponentRef(l.target.Name()), true
}

// ComponentRef returns the $ref pointing at the schema component name.
func ComponentRef(name string) string { return "#/components/schemas/" + name }
