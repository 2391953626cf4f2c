package oasimport_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	shapematch "github.com/reoring/shapematch"
	"github.com/reoring/shapematch/dsl"
	"github.com/reoring/shapematch/oasimport"
	"github.com/reoring/shapematch/source"
)

const petsYAML = `
components:
  schemas:
    Pet:
      oneOf:
        - $ref: '#/components/schemas/Lion'
        - $ref: '#/components/schemas/Deer'
      discriminator:
        propertyName: type
        mapping:
          lion: '#/components/schemas/Lion'
    Lion:
      type: object
      required: [id, kind]
      properties:
        id: {type: string}
        type: {type: string}
        kind: {type: string, enum: [hunter, sleeper]}
    Deer:
      type: object
      required: [id, antlers]
      properties:
        id: {type: string}
        type: {type: string}
        antlers: {type: integer}
    Node:
      type: object
      properties:
        value: {type: integer}
        next:
          $ref: '#/components/schemas/Node'
          nullable: true
`

func decode(t *testing.T, c shapematch.Candidate, doc string) (any, error) {
	t.Helper()
	v, err := source.JSON([]byte(doc))
	if err != nil {
		t.Fatalf("decode %s: %v", doc, err)
	}
	return shapematch.Decode(context.Background(), c, v)
}

func TestImportYAML_DiscriminatedUnion(t *testing.T) {
	c, diag, err := oasimport.ImportYAML([]byte(petsYAML), oasimport.Registry{}, oasimport.Options{Root: "Pet"})
	if err != nil {
		t.Fatalf("import err: %v", err)
	}
	if diag.HasWarnings() {
		t.Logf("warnings: %v", diag.Warnings())
	}

	out, err := decode(t, c, `{"id":"1","type":"lion","kind":"hunter"}`)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := map[string]any{"id": "1", "type": "lion", "kind": "hunter"}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	// Deer has no mapping entry, so its discriminator value is its name.
	if _, err := decode(t, c, `{"id":"2","type":"Deer","antlers":3}`); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := decode(t, c, `{"id":"3","type":"lion","kind":"napper"}`); err == nil {
		t.Fatalf("expected enum failure")
	}

	s, err := c.JSONSchema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"lion": "#/components/schemas/Lion", "Deer": "#/components/schemas/Deer"}, s.Discriminator.Mapping); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

type Lion struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

func TestImport_RegistryModels(t *testing.T) {
	reg := oasimport.Registry{Models: map[string]shapematch.Model{
		"Lion": dsl.StructModel[Lion]("Lion"),
	}}
	c, _, err := oasimport.ImportYAML([]byte(petsYAML), reg, oasimport.Options{Root: "Pet"})
	if err != nil {
		t.Fatalf("import err: %v", err)
	}
	out, err := decode(t, c, `{"id":"1","type":"lion","kind":"hunter"}`)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if diff := cmp.Diff(Lion{ID: "1", Kind: "hunter"}, out); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestImport_SelfReference(t *testing.T) {
	c, _, err := oasimport.ImportYAML([]byte(petsYAML), oasimport.Registry{}, oasimport.Options{Root: "Node"})
	if err != nil {
		t.Fatalf("import err: %v", err)
	}
	out, err := decode(t, c, `{"value":1,"next":{"value":2,"next":null}}`)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := map[string]any{"value": int64(1), "next": map[string]any{"value": int64(2), "next": nil}}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if _, err := decode(t, c, `{"next":{"value":"x"}}`); err == nil {
		t.Fatalf("expected nested type failure")
	}
}

func TestImport_Shapes(t *testing.T) {
	schema := map[string]any{
		"oneOf": []any{
			map[string]any{"type": "array", "items": map[string]any{
				"type": "object", "additionalProperties": map[string]any{"type": "integer"},
			}},
			map[string]any{"type": "array", "items": map[string]any{
				"type": "object", "additionalProperties": map[string]any{"type": "string"},
			}},
		},
	}
	c, _, err := oasimport.Import(schema, oasimport.Registry{}, oasimport.Options{})
	if err != nil {
		t.Fatalf("import err: %v", err)
	}
	u, ok := c.(*shapematch.OneOf)
	if !ok {
		t.Fatalf("expected OneOf, got %T", c)
	}
	for _, cand := range u.Candidates() {
		if cand.Context().Shape != shapematch.ShapeArrayOfMap {
			t.Fatalf("expected array-of-map candidates, got %s", cand.Context().Shape)
		}
	}
	if _, err := decode(t, c, `[{"k":1},{"k":2}]`); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := decode(t, c, `{"k":[1]}`); err == nil {
		t.Fatalf("mapping must not satisfy array-of-map candidates")
	}

	moa := map[string]any{"type": "object", "additionalProperties": map[string]any{
		"type": "array", "items": map[string]any{"type": "boolean"},
	}}
	c2, _, err := oasimport.Import(moa, oasimport.Registry{}, oasimport.Options{})
	if err != nil {
		t.Fatalf("import err: %v", err)
	}
	if c2.Context().Shape != shapematch.ShapeMapOfArray {
		t.Fatalf("expected map-of-array, got %s", c2.Context().Shape)
	}

	deep := map[string]any{"type": "array", "items": map[string]any{"type": "array", "items": map[string]any{"type": "integer"}}}
	if _, _, err := oasimport.Import(deep, oasimport.Registry{}, oasimport.Options{}); err == nil {
		t.Fatalf("array of array has no shape")
	}
}

func TestImportJSON_DateTimeFormatsAndAnyOf(t *testing.T) {
	doc := []byte(`{
		"anyOf": [
			{"type": "string", "format": "date-time", "x-date-time-format": "http-date"},
			{"type": "integer", "enum": [1, 2]}
		]
	}`)
	c, _, err := oasimport.ImportJSON(doc, oasimport.Registry{}, oasimport.Options{})
	if err != nil {
		t.Fatalf("import err: %v", err)
	}
	out, err := decode(t, c, `"Sun, 06 Nov 1994 08:49:37 GMT"`)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if tm, ok := out.(time.Time); !ok || tm.Year() != 1994 {
		t.Fatalf("got %#v", out)
	}
	if out, err := decode(t, c, `2`); err != nil || out != int64(2) {
		t.Fatalf("got %#v, %v", out, err)
	}
	if _, err := decode(t, c, `3`); err == nil {
		t.Fatalf("3 is not a member")
	}
}

func TestImport_Errors(t *testing.T) {
	cases := []map[string]any{
		{"$ref": "#/components/schemas/Missing"},
		{"$ref": "http://example.com/x"},
		{"type": "tuple"},
		{"oneOf": []any{}},
		{"type": "string", "format": "date-time", "x-date-time-format": "julian"},
	}
	for _, schema := range cases {
		if _, _, err := oasimport.Import(schema, oasimport.Registry{}, oasimport.Options{}); err == nil {
			t.Fatalf("expected error for %v", schema)
		}
	}
	if _, _, err := oasimport.ImportYAML([]byte("- a\n- b\n"), oasimport.Registry{}, oasimport.Options{}); err == nil {
		t.Fatalf("expected error for non-mapping root")
	}
}
