package shapematch_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	g "github.com/reoring/shapematch/dsl"
	js "github.com/reoring/shapematch/jsonschema"
)

func TestJSONSchema_UnionShapes(t *testing.T) {
	u := g.OneOfWith(g.Opts(g.Array(), g.Nullable()), g.Leaf(g.Int()), g.Leaf(g.String(), g.Map()))
	got, err := u.JSONSchema()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := &js.Schema{
		Type:     "array",
		Nullable: true,
		Items: &js.Schema{OneOf: []*js.Schema{
			{Type: "integer"},
			{Type: "object", AdditionalProperties: &js.Schema{Type: "string"}},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONSchema_DiscriminatorMapping(t *testing.T) {
	_, _, u := lionOrDeer()
	got, err := u.JSONSchema()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Discriminator == nil || got.Discriminator.PropertyName != "type" {
		t.Fatalf("expected discriminator, got %+v", got.Discriminator)
	}
	if diff := cmp.Diff(map[string]string{"lion": "#/components/schemas/Lion", "deer": "#/components/schemas/Deer"}, got.Discriminator.Mapping); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
	lion := got.OneOf[0]
	if diff := cmp.Diff([]string{"id", "kind", "weight"}, lion.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if tp := lion.Properties["type"]; tp == nil || len(tp.Enum) != 1 || tp.Enum[0] != "lion" {
		t.Fatalf("discriminator property not pinned: %+v", tp)
	}
}

func TestJSONSchema_DiscriminatorMappingNeedsComponents(t *testing.T) {
	lion, _, _ := lionOrDeer()
	herd := g.Leaf(g.ModelOf(g.StructModel[Deer]("Deer")), g.Discriminator("type", "herd"), g.Array())
	got, err := g.OneOf(lion, herd).JSONSchema()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Discriminator == nil || got.Discriminator.PropertyName != "type" {
		t.Fatalf("expected discriminator, got %+v", got.Discriminator)
	}
	if got.Discriminator.Mapping != nil {
		t.Fatalf("array candidate is not a component; mapping must be omitted, got %v", got.Discriminator.Mapping)
	}
}
