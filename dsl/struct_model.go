package dsl

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	shapematch "github.com/reoring/shapematch"
	js "github.com/reoring/shapematch/jsonschema"
)

// ModelOption configures a StructModel.
type ModelOption func(*modelConfig)

type modelConfig struct {
	strict bool
}

// Strict rejects object keys that do not map to a struct field.
func Strict() ModelOption { return func(c *modelConfig) { c.strict = true } }

// Struct is a Model backed by the Go struct type T.
//
// Keys resolve as shapematch:"name=..." > json tag name > field name, and "-"
// skips the field. A field is required when it is tagged shapematch:"required",
// or when it is neither a pointer nor tagged omitempty.
type Struct[T any] struct {
	name   string
	fields []structField
	byKey  map[string]int
	strict bool
}

type structField struct {
	key      string // external key
	jsonKey  string // key the JSON decoder expects
	required bool
	typ      reflect.Type
}

// StructModel derives a Model from T, which must be a struct type.
func StructModel[T any](name string, opts ...ModelOption) *Struct[T] {
	var cfg modelConfig
	for _, o := range opts {
		o(&cfg)
	}
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if rt.Kind() != reflect.Struct {
		panic(fmt.Sprintf("dsl: StructModel[%s] requires a struct type", rt))
	}
	m := &Struct[T]{name: name, byKey: map[string]int{}, strict: cfg.strict}
	m.collect(rt)
	return m
}

func (m *Struct[T]) collect(rt reflect.Type) {
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.Anonymous && sf.Tag.Get("json") == "" && sf.Type.Kind() == reflect.Struct {
			m.collect(sf.Type)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		key := ResolveStructKey(sf)
		jk := jsonKey(sf)
		if key == "-" || jk == "-" {
			continue
		}
		if _, dup := m.byKey[key]; dup {
			continue
		}
		m.byKey[key] = len(m.fields)
		m.fields = append(m.fields, structField{
			key:      key,
			jsonKey:  jk,
			required: isRequired(sf),
			typ:      sf.Type,
		})
	}
}

// ResolveStructKey resolves the external key of a struct field.
// Priority: shapematch:"name=..." > json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	for _, p := range tagParts(sf.Tag.Get("shapematch")) {
		if strings.HasPrefix(p, "name=") {
			return strings.TrimPrefix(p, "name=")
		}
	}
	return jsonKey(sf)
}

func jsonKey(sf reflect.StructField) string {
	jt := sf.Tag.Get("json")
	if jt == "-" {
		return "-"
	}
	if i := strings.IndexByte(jt, ','); i >= 0 {
		jt = jt[:i]
	}
	if jt == "" {
		return sf.Name
	}
	return jt
}

func isRequired(sf reflect.StructField) bool {
	for _, p := range tagParts(sf.Tag.Get("shapematch")) {
		switch p {
		case "required":
			return true
		case "optional":
			return false
		}
	}
	if sf.Type.Kind() == reflect.Pointer {
		return false
	}
	jp := tagParts(sf.Tag.Get("json"))
	for i := 1; i < len(jp); i++ {
		if jp[i] == "omitempty" || jp[i] == "omitzero" {
			return false
		}
	}
	return true
}

func tagParts(tag string) []string {
	if tag == "" {
		return nil
	}
	parts := strings.Split(tag, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (m *Struct[T]) Name() string { return m.name }

// Validate checks required and unknown keys, then proves every present field
// decodes into its Go type.
func (m *Struct[T]) Validate(_ context.Context, v shapematch.Value) error {
	obj, ok := v.AsObject()
	if !ok {
		return invalidType(m.name, v)
	}
	var iss shapematch.Issues
	for _, f := range m.fields {
		fv, present := obj[f.key]
		if f.required && (!present || fv.IsNull()) {
			iss = shapematch.AppendIssues(iss, issueAt("/"+escapePointer(f.key), shapematch.CodeRequired, map[string]string{"key": f.key}))
		}
	}
	if m.strict {
		for _, k := range v.Keys() {
			if _, known := m.byKey[k]; !known {
				iss = shapematch.AppendIssues(iss, issueAt("/"+escapePointer(k), shapematch.CodeUnknownKey, map[string]string{"key": k}))
			}
		}
	}
	for _, f := range m.fields {
		if fv, ok := obj[f.key]; ok && !fv.IsNull() {
			iss = shapematch.AppendIssues(iss, f.check(fv)...)
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// check proves that fv decodes into the field's Go type. Kinds are compared
// first so a Float never populates an integer field; the goccy decode then
// catches range and format errors.
func (f structField) check(fv shapematch.Value) shapematch.Issues {
	if m, bad := kindMismatch(f.typ, fv); bad {
		return shapematch.Issues{issueAt("/"+escapePointer(f.key)+m.path, shapematch.CodeInvalidType, map[string]string{
			"expected": m.typ.String(),
			"got":      m.got.Kind().String(),
		})}
	}
	b, err := fv.MarshalJSON()
	if err == nil {
		err = gojson.Unmarshal(b, reflect.New(f.typ).Interface())
	}
	if err == nil {
		return nil
	}
	it := issueAt("/"+escapePointer(f.key), shapematch.CodeInvalidType, map[string]string{
		"expected": f.typ.String(),
		"got":      fv.Kind().String(),
	})
	it.Cause = err
	return shapematch.Issues{it}
}

type mismatch struct {
	path string // JSON Pointer suffix below the field
	typ  reflect.Type
	got  shapematch.Value
}

var (
	jsonUnmarshalerType = reflect.TypeOf((*interface{ UnmarshalJSON([]byte) error })(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*interface{ UnmarshalText([]byte) error })(nil)).Elem()
)

// customDecoded reports whether t decodes itself, e.g. time.Time.
func customDecoded(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return t.Implements(jsonUnmarshalerType) || pt.Implements(jsonUnmarshalerType) ||
		t.Implements(textUnmarshalerType) || pt.Implements(textUnmarshalerType)
}

// kindMismatch finds the first position under v whose kind cannot populate t.
// Integer kinds take only Int, floats take Int or Float, bool and string take
// their own kind. Null fits anything.
func kindMismatch(t reflect.Type, v shapematch.Value) (mismatch, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if v.IsNull() || customDecoded(t) {
		return mismatch{}, false
	}
	k := v.Kind()
	ok := true
	switch t.Kind() {
	case reflect.Bool:
		ok = k == shapematch.KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		ok = k == shapematch.KindInt
	case reflect.Float32, reflect.Float64:
		ok = k == shapematch.KindInt || k == shapematch.KindFloat
	case reflect.String:
		ok = k == shapematch.KindString
	case reflect.Slice, reflect.Array:
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 && k == shapematch.KindString {
			return mismatch{}, false // base64
		}
		arr, isArr := v.AsArray()
		if !isArr {
			ok = false
			break
		}
		for i, ev := range arr {
			if m, bad := kindMismatch(t.Elem(), ev); bad {
				m.path = "/" + strconv.Itoa(i) + m.path
				return m, true
			}
		}
	case reflect.Map:
		if k != shapematch.KindObject {
			ok = false
			break
		}
		for _, key := range v.Keys() {
			ev, _ := v.Get(key)
			if m, bad := kindMismatch(t.Elem(), ev); bad {
				m.path = "/" + escapePointer(key) + m.path
				return m, true
			}
		}
	case reflect.Struct:
		if k != shapematch.KindObject {
			ok = false
			break
		}
		var found mismatch
		bad := false
		eachJSONField(t, func(key string, ft reflect.Type) bool {
			ev, present := v.Get(key)
			if !present {
				return true
			}
			if m, b := kindMismatch(ft, ev); b {
				m.path = "/" + escapePointer(key) + m.path
				found, bad = m, true
				return false
			}
			return true
		})
		return found, bad
	}
	if ok {
		return mismatch{}, false
	}
	return mismatch{typ: t, got: v}, true
}

// eachJSONField visits the exported fields of t under their JSON keys,
// flattening untagged embedded structs. fn returns false to stop.
func eachJSONField(t reflect.Type, fn func(key string, ft reflect.Type) bool) bool {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Tag.Get("json") == "" && sf.Type.Kind() == reflect.Struct {
			if !eachJSONField(sf.Type, fn) {
				return false
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		key := jsonKey(sf)
		if key == "-" {
			continue
		}
		if !fn(key, sf.Type) {
			return false
		}
	}
	return true
}

// Construct returns the decoded T.
func (m *Struct[T]) Construct(_ context.Context, v shapematch.Value) (any, error) {
	obj, ok := v.AsObject()
	if !ok {
		return nil, invalidType(m.name, v)
	}
	return m.decode(obj)
}

func (m *Struct[T]) decode(obj map[string]shapematch.Value) (T, error) {
	var out T
	src := make(map[string]any, len(m.fields))
	for _, f := range m.fields {
		if fv, ok := obj[f.key]; ok {
			src[f.jsonKey] = fv.Interface()
		}
	}
	b, err := gojson.Marshal(src)
	if err != nil {
		return out, shapematch.Issues{shapematch.Issue{Path: "/", Code: shapematch.CodeParseError, Message: err.Error(), Cause: err}}
	}
	if err := gojson.Unmarshal(b, &out); err != nil {
		return out, shapematch.Issues{shapematch.Issue{Path: "/", Code: shapematch.CodeInvalidType, Message: err.Error(), Cause: err}}
	}
	return out, nil
}

// JSONSchema projects the struct's fields.
func (m *Struct[T]) JSONSchema() (*js.Schema, error) {
	s := &js.Schema{Type: "object", Title: m.name, Properties: map[string]*js.Schema{}}
	for _, f := range m.fields {
		s.Properties[f.key] = schemaForType(f.typ)
		if f.required {
			s.Required = append(s.Required, f.key)
		}
	}
	sort.Strings(s.Required)
	if m.strict {
		s.AdditionalProperties = false
	}
	return s, nil
}

var textMarshalerType = reflect.TypeOf((*interface{ MarshalText() ([]byte, error) })(nil)).Elem()

func schemaForType(t reflect.Type) *js.Schema {
	nullable := false
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
		nullable = true
	}
	var s *js.Schema
	switch t.Kind() {
	case reflect.Bool:
		s = &js.Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		s = &js.Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		s = &js.Schema{Type: "number"}
	case reflect.String:
		s = &js.Schema{Type: "string"}
	case reflect.Slice, reflect.Array:
		s = &js.Schema{Type: "array", Items: schemaForType(t.Elem())}
	case reflect.Map:
		s = &js.Schema{Type: "object", AdditionalProperties: schemaForType(t.Elem())}
	case reflect.Struct:
		if t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType) {
			s = &js.Schema{Type: "string"}
		} else {
			s = &js.Schema{Type: "object"}
		}
	default:
		s = &js.Schema{}
	}
	s.Nullable = nullable
	return s
}
