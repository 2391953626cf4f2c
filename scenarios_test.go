package shapematch_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	shapematch "github.com/reoring/shapematch"
	g "github.com/reoring/shapematch/dsl"
)

func TestOneOf_IntOrString(t *testing.T) {
	ctx := context.Background()
	u := g.OneOf(g.Leaf(g.Int()), g.Leaf(g.String()))

	r, err := shapematch.Validate(ctx, u, shapematch.Int(100))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if r.MatchCount() != 1 || r.Selected != 0 {
		t.Fatalf("expected int branch, got count=%d selected=%d", r.MatchCount(), r.Selected)
	}
	out, err := shapematch.Deserialize(ctx, r)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if out != int64(100) {
		t.Fatalf("got %#v", out)
	}

	s, err := shapematch.DecodeAs[string](ctx, u, shapematch.String("x"))
	if err != nil || s != "x" {
		t.Fatalf("string branch: %q %v", s, err)
	}
}

func TestOneOf_DuplicateCandidate_MultipleMatched(t *testing.T) {
	u := g.OneOf(g.Leaf(g.Int()), g.Leaf(g.Int()), g.Leaf(g.String()))
	r, err := shapematch.Validate(context.Background(), u, shapematch.Int(100))
	if err == nil {
		t.Fatalf("expected multiple_matched")
	}
	iss, ok := shapematch.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != shapematch.CodeMultipleMatched {
		t.Fatalf("unexpected issues: %v", err)
	}
	if r.MatchCount() != 2 {
		t.Fatalf("expected 2 matches, got %d", r.MatchCount())
	}
	if got := iss[0].Params["matched"]; !cmp.Equal(got, []string{"int", "int"}) {
		t.Fatalf("matched param: %#v", got)
	}
}

func TestOneOf_Models_ResolveByStructure(t *testing.T) {
	ctx := context.Background()
	out, err := shapematch.Decode(ctx, atomOrOrbit(), obj("OrbitNumberOfElectrons", 4))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if diff := cmp.Diff(Orbit{Electrons: 4}, out); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestOneOf_Discriminator(t *testing.T) {
	ctx := context.Background()
	_, _, u := lionOrDeer()
	v := obj("id", "123", "weight", 5, "type", "lion", "kind", "hunter")

	r, err := shapematch.Validate(ctx, u, v)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if r.Selected != 0 {
		t.Fatalf("expected Lion branch, got %d", r.Selected)
	}
	if code := r.Branches[1].Issues[0].Code; code != shapematch.CodeDiscriminatorMismatch {
		t.Fatalf("deer branch should fail on discriminator, got %s", code)
	}
	out, err := shapematch.Deserialize(ctx, r)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	want := Lion{ID: "123", Weight: 5, Type: "lion", Kind: "hunter"}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestAnyOf_FloatAcceptsIntegral(t *testing.T) {
	ctx := context.Background()
	u := g.AnyOf(g.Leaf(g.Float()), g.Leaf(g.Bool()))
	out, err := shapematch.Decode(ctx, u, shapematch.Int(100))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out != float64(100) {
		t.Fatalf("got %#v", out)
	}

	u2 := g.AnyOf(g.Leaf(g.Int()), g.Leaf(g.Bool()), g.Leaf(g.String()))
	_, err = shapematch.Validate(ctx, u2, shapematch.Float(100.5))
	iss, _ := shapematch.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != shapematch.CodeNoneMatched {
		t.Fatalf("expected none_matched, got %v", err)
	}
	causes, _ := iss[0].Params["causes"].([]string)
	if len(causes) != 3 {
		t.Fatalf("expected one cause per candidate, got %#v", causes)
	}
}

func TestOneOf_ArrayOfMap(t *testing.T) {
	ctx := context.Background()
	u := g.OneOf(
		g.Leaf(g.Int(), g.ArrayOfMap()),
		g.Leaf(g.String(), g.ArrayOfMap()),
	)

	out, err := shapematch.Decode(ctx, u, arr(map[string]any{"k": 1}, map[string]any{"k": 2}))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []any{map[string]any{"k": int64(1)}, map[string]any{"k": int64(2)}}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	// mixed leaves satisfy neither candidate as a whole
	_, err = shapematch.Validate(ctx, u, arr(map[string]any{"k": 1}, map[string]any{"k": "x"}))
	if iss, _ := shapematch.AsIssues(err); !iss.HasCode(shapematch.CodeNoneMatched) {
		t.Fatalf("expected none_matched, got %v", err)
	}
}

func TestOneOf_PositionwiseUnionInArray(t *testing.T) {
	ctx := context.Background()
	u := g.OneOfWith(g.Opts(g.Array()), g.Leaf(g.Int()), g.Leaf(g.String()))

	out, err := shapematch.Decode(ctx, u, arr(1, "a", 2))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if diff := cmp.Diff([]any{int64(1), "a", int64(2)}, out); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	_, err = shapematch.Validate(ctx, u, arr(1, true, "a"))
	iss, _ := shapematch.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/1" || iss[0].Code != shapematch.CodeNoneMatched {
		t.Fatalf("expected none_matched at /1, got %v", err)
	}
}

func TestOneOf_MapOfArray(t *testing.T) {
	ctx := context.Background()
	u := g.OneOfWith(g.Opts(g.MapOfArray()), g.Leaf(g.Bool()), g.Leaf(g.String()))
	v := obj("a", []any{true, "x"}, "b", []any{})

	out, err := shapematch.Decode(ctx, u, v)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := map[string]any{"a": []any{true, "x"}, "b": []any{}}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	_, err = shapematch.Validate(ctx, u, obj("a", []any{1}))
	iss, _ := shapematch.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/a/0" {
		t.Fatalf("expected issue at /a/0, got %v", err)
	}
}

func TestNestedUnion_CausesAttached(t *testing.T) {
	inner := g.OneOf(g.Leaf(g.Int()), g.Leaf(g.Bool()))
	u := g.OneOf(inner, g.Leaf(g.Date()))
	_, err := shapematch.Validate(context.Background(), u, shapematch.String("nope"))
	iss, ok := shapematch.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected a single issue, got %v", err)
	}
	causes, _ := iss[0].Params["causes"].([]string)
	if len(causes) != 2 {
		t.Fatalf("expected nested and leaf causes, got %#v", causes)
	}
	if iss[0].Hint == "" {
		t.Fatalf("expected hint with nested causes")
	}
}
