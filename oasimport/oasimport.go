package oasimport

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	gojson "github.com/goccy/go-json"

	shapematch "github.com/reoring/shapematch"
	"github.com/reoring/shapematch/dsl"
)

// Import compiles an OpenAPI v3 schema (or a document with
// components/schemas and Options.Root) into a candidate tree.
// The input can be a decoded map[string]any or raw JSON bytes.
func Import(doc any, reg Registry, opts Options) (shapematch.Candidate, Diag, error) {
	d := &simpleDiag{}
	if doc == nil {
		return nil, d, errors.New("oasimport: nil document")
	}
	var root map[string]any
	switch t := doc.(type) {
	case []byte:
		if err := gojson.Unmarshal(t, &root); err != nil {
			return nil, d, fmt.Errorf("oasimport: invalid JSON: %w", err)
		}
	case map[string]any:
		root = t
	default:
		b, err := gojson.Marshal(t)
		if err != nil {
			return nil, d, fmt.Errorf("oasimport: cannot marshal input: %w", err)
		}
		if err := gojson.Unmarshal(b, &root); err != nil {
			return nil, d, fmt.Errorf("oasimport: invalid marshaled JSON: %w", err)
		}
	}

	im := &importer{
		reg:        reg,
		opts:       opts,
		d:          d,
		components: extractComponents(root),
		resolved:   map[string]shapematch.Candidate{},
		resolving:  map[string]bool{},
	}
	if opts.Root != "" {
		c, err := im.resolve(opts.Root)
		return c, d, err
	}
	c, err := im.compile(root, "")
	return c, d, err
}

type importer struct {
	reg        Registry
	opts       Options
	d          *simpleDiag
	components map[string]any
	resolved   map[string]shapematch.Candidate
	resolving  map[string]bool
}

// compile turns one schema node into a candidate. name is the component name
// when the node is a components/schemas entry.
func (im *importer) compile(node map[string]any, name string) (shapematch.Candidate, error) {
	if node == nil {
		return nil, errors.New("oasimport: schema must be an object")
	}
	var (
		c   shapematch.Candidate
		err error
	)
	switch {
	case node["$ref"] != nil:
		ref, _ := node["$ref"].(string)
		c, err = im.ref(ref)
	case node["oneOf"] != nil:
		c, err = im.union(node, "oneOf", name)
	case node["anyOf"] != nil:
		c, err = im.union(node, "anyOf", name)
	default:
		c, err = im.typed(node, name)
	}
	if err != nil {
		return nil, err
	}
	if n, _ := node["nullable"].(bool); n {
		sc := c.Context()
		sc.Nullable = true
		c = c.WithContext(sc)
	}
	return c, nil
}

func (im *importer) union(node map[string]any, kw, name string) (shapematch.Candidate, error) {
	raw, ok := node[kw].([]any)
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("oasimport: %s must be a non-empty list", kw)
	}
	prop, mapping := discriminatorOf(node)
	cands := make([]shapematch.Candidate, 0, len(raw))
	for i, r := range raw {
		sub, _ := r.(map[string]any)
		c, err := im.compile(sub, "")
		if err != nil {
			return nil, fmt.Errorf("oasimport: %s[%d]: %w", kw, i, err)
		}
		if prop != "" {
			ref, _ := sub["$ref"].(string)
			if ref == "" {
				im.d.warnf("%s[%d]: discriminator %q ignored for inline schema", kw, i, prop)
			} else {
				c = c.WithContext(c.Context().WithDiscriminator(prop, discriminatorValue(ref, mapping)))
			}
		}
		cands = append(cands, c)
	}
	if kw == "oneOf" {
		return dsl.OneOf(cands...), nil
	}
	return dsl.AnyOf(cands...), nil
}

func discriminatorOf(node map[string]any) (string, map[string]string) {
	dm, ok := node["discriminator"].(map[string]any)
	if !ok {
		return "", nil
	}
	prop, _ := dm["propertyName"].(string)
	mapping := map[string]string{}
	if mm, ok := dm["mapping"].(map[string]any); ok {
		for k, v := range mm {
			if s, ok := v.(string); ok {
				mapping[k] = s
			}
		}
	}
	return prop, mapping
}

// discriminatorValue returns the mapping key pointing at ref, defaulting to
// the referenced schema name.
func discriminatorValue(ref string, mapping map[string]string) string {
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if t := mapping[k]; t == ref || t == refName(ref) {
			return k
		}
	}
	return refName(ref)
}

func (im *importer) typed(node map[string]any, name string) (shapematch.Candidate, error) {
	typ, _ := node["type"].(string)
	if enum, ok := node["enum"].([]any); ok {
		return im.enum(enum, typ, name)
	}
	switch typ {
	case "integer":
		return dsl.Leaf(dsl.Int()), nil
	case "number":
		return dsl.Leaf(dsl.Float()), nil
	case "boolean":
		return dsl.Leaf(dsl.Bool()), nil
	case "string":
		return im.str(node)
	case "array":
		items, _ := node["items"].(map[string]any)
		if items == nil {
			im.d.warnf("array without items treated as array of any")
			return dsl.Leaf(dsl.Any(), dsl.Array()), nil
		}
		elem, err := im.compile(items, "")
		if err != nil {
			return nil, fmt.Errorf("oasimport: items: %w", err)
		}
		return wrap(elem, shapematch.ShapeArray)
	case "object", "":
		if ap, ok := node["additionalProperties"].(map[string]any); ok && node["properties"] == nil {
			elem, err := im.compile(ap, "")
			if err != nil {
				return nil, fmt.Errorf("oasimport: additionalProperties: %w", err)
			}
			return wrap(elem, shapematch.ShapeMap)
		}
		if typ == "" && node["properties"] == nil {
			return dsl.Leaf(dsl.Any()), nil
		}
		return dsl.Leaf(dsl.ModelOf(im.object(node, name))), nil
	default:
		return nil, fmt.Errorf("oasimport: unsupported type %q", typ)
	}
}

func (im *importer) str(node map[string]any) (shapematch.Candidate, error) {
	format, _ := node["format"].(string)
	switch format {
	case "date":
		return dsl.Leaf(dsl.Date()), nil
	case "date-time":
		wire, _ := node["x-date-time-format"].(string)
		f, err := shapematch.ParseDateTimeFormat(wire)
		if err != nil {
			return nil, fmt.Errorf("oasimport: %w", err)
		}
		return dsl.Leaf(dsl.DateTime(), dsl.DateTimeFormat(f)), nil
	case "":
		return dsl.Leaf(dsl.String()), nil
	default:
		im.d.warnf("string format %q treated as plain string", format)
		return dsl.Leaf(dsl.String()), nil
	}
}

// object builds a dynamic model. Components are registered before their
// fields compile so self references resolve to the same model.
func (im *importer) object(node map[string]any, name string) *dsl.ObjectModel {
	title := name
	if title == "" {
		title, _ = node["title"].(string)
	}
	if title == "" {
		title = "object"
	}
	m := dsl.Object(title)
	if name != "" {
		im.resolved[name] = dsl.Leaf(dsl.ModelOf(m))
	}
	props, _ := node["properties"].(map[string]any)
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ps, _ := props[k].(map[string]any)
		c, err := im.compile(ps, "")
		if err != nil {
			im.d.warnf("property %s.%s: %v (treated as any)", title, k, err)
			c = dsl.Leaf(dsl.Any(), dsl.Nullable())
		}
		m.Field(k, c)
	}
	if req, ok := node["required"].([]any); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				m.Require(s)
			}
		}
	}
	switch ap := node["additionalProperties"].(type) {
	case bool:
		if !ap {
			m.Strict()
		}
	case nil:
		if im.opts.StrictObjects {
			m.Strict()
		}
	default:
		im.d.warnf("object %s: additionalProperties schema alongside properties is not checked", title)
	}
	return m
}

func (im *importer) enum(members []any, typ, name string) (shapematch.Candidate, error) {
	if name == "" {
		name = "enum"
	}
	switch typ {
	case "integer":
		ints := make([]int64, 0, len(members))
		for _, m := range members {
			i, ok := toInt64(m)
			if !ok {
				return nil, fmt.Errorf("oasimport: enum %s: %v is not an integer", name, m)
			}
			ints = append(ints, i)
		}
		return dsl.Leaf(dsl.EnumOf(dsl.IntEnum(name, ints...))), nil
	case "string", "":
		strs := make([]string, 0, len(members))
		for _, m := range members {
			s, ok := m.(string)
			if !ok {
				return nil, fmt.Errorf("oasimport: enum %s: %v is not a string", name, m)
			}
			strs = append(strs, s)
		}
		return dsl.Leaf(dsl.EnumOf(dsl.StringEnum(name, strs...))), nil
	default:
		return nil, fmt.Errorf("oasimport: enum %s of type %q is not supported", name, typ)
	}
}

func toInt64(x any) (int64, bool) {
	v, err := shapematch.FromAny(x)
	if err != nil {
		return 0, false
	}
	if i, ok := v.AsInt(); ok {
		return i, true
	}
	if f, ok := v.AsFloat(); ok && f == float64(int64(f)) {
		return int64(f), true
	}
	return 0, false
}

// wrap moves elem into a container shape. Only the five legal shapes can be
// expressed; deeper nesting is rejected.
func wrap(elem shapematch.Candidate, outer shapematch.Shape) (shapematch.Candidate, error) {
	sc := elem.Context()
	var s shapematch.Shape
	switch {
	case sc.Shape == shapematch.ShapeScalar:
		s = outer
	case outer == shapematch.ShapeArray && sc.Shape == shapematch.ShapeMap:
		s = shapematch.ShapeArrayOfMap
	case outer == shapematch.ShapeMap && sc.Shape == shapematch.ShapeArray:
		s = shapematch.ShapeMapOfArray
	default:
		return nil, fmt.Errorf("oasimport: %s of %s cannot be expressed as a shape", outer, sc.Shape)
	}
	return elem.WithContext(sc.WithShape(s)), nil
}

func refName(ref string) string {
	if i := strings.LastIndexByte(ref, '/'); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
