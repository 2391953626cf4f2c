package shapematch

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
)

// Kind tags the wire kind of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a decoded wire value. Booleans, integers and floats are distinct
// kinds so leaf type checks are plain tag comparisons.
//
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  map[string]Value
}

func Null() Value             { return Value{} }
func Bool(b bool) Value       { return Value{kind: KindBool, b: b} }
func Int(i int64) Value       { return Value{kind: KindInt, i: i} }
func Float(f float64) Value   { return Value{kind: KindFloat, f: f} }
func String(s string) Value   { return Value{kind: KindString, s: s} }
func Array(vs ...Value) Value { return Value{kind: KindArray, arr: vs} }

// Object wraps m without copying it.
func Object(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindObject, obj: m}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool)      { return v.b, v.kind == KindBool }
func (v Value) AsInt() (int64, bool)      { return v.i, v.kind == KindInt }
func (v Value) AsString() (string, bool)  { return v.s, v.kind == KindString }
func (v Value) AsArray() ([]Value, bool)  { return v.arr, v.kind == KindArray }
func (v Value) AsFloat() (float64, bool)  { return v.f, v.kind == KindFloat }
func (v Value) AsObject() (map[string]Value, bool) {
	return v.obj, v.kind == KindObject
}

// AsNumber reports the value as float64 for both Int and Float kinds.
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Get returns the object member named key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	m, ok := v.obj[key]
	return m, ok
}

// Len returns the number of array elements or object members.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	default:
		return 0
	}
}

// Keys returns the object keys in sorted order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Interface converts v into a native tree of nil, bool, int64, float64,
// string, []any and map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i := range v.arr {
			out[i] = v.arr[i].Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for k, m := range v.obj {
			out[k] = m.Interface()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON renders v as JSON text.
func (v Value) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(v.Interface())
}

// String renders a short, human-oriented form used in issue messages.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return strconv.Quote(v.s)
	case KindArray, KindObject:
		b, err := v.MarshalJSON()
		if err != nil {
			return v.kind.String()
		}
		const maxLen = 80
		if len(b) > maxLen {
			return string(b[:maxLen]) + "..."
		}
		return string(b)
	default:
		return fmt.Sprint(v.Interface())
	}
}

// Equal reports deep equality. Int and Float never compare equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for k, m := range v.obj {
			om, ok := o.obj[k]
			if !ok || !m.Equal(om) {
				return false
			}
		}
		return true
	}
	return false
}

// NumberValue converts a JSON number literal. Integral literals that fit in
// int64 become Int; everything else becomes Float.
func NumberValue(lit string) (Value, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return Value{}, err
	}
	return Float(f), nil
}

// FromAny converts a native Go tree (as produced by encoding/json, go-json or
// yaml.v3) into a Value.
func FromAny(x any) (Value, error) {
	return fromAny(x, rootPath)
}

// MustFromAny is like FromAny but panics on unsupported input. Intended for
// tests and static declarations.
func MustFromAny(x any) Value {
	v, err := FromAny(x)
	if err != nil {
		panic(err)
	}
	return v
}

func fromAny(x any, p pathRef) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return fromUint(uint64(t)), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		return fromUint(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case json.Number: // go-json's Number is an alias of this type
		v, err := NumberValue(string(t))
		if err != nil {
			return Value{}, Issues{p.issue(CodeInvalidType, nil, err)}
		}
		return v, nil
	case string:
		return String(t), nil
	case []any:
		arr := make([]Value, len(t))
		for i := range t {
			ev, err := fromAny(t[i], p.index(i))
			if err != nil {
				return Value{}, err
			}
			arr[i] = ev
		}
		return Array(arr...), nil
	case []Value:
		return Array(t...), nil
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, m := range t {
			mv, err := fromAny(m, p.field(k))
			if err != nil {
				return Value{}, err
			}
			obj[k] = mv
		}
		return Object(obj), nil
	case map[any]any:
		obj := make(map[string]Value, len(t))
		for k, m := range t {
			ks, ok := k.(string)
			if !ok {
				return Value{}, Issues{p.issue(CodeInvalidType, map[string]string{"expected": "string key"}, nil)}
			}
			mv, err := fromAny(m, p.field(ks))
			if err != nil {
				return Value{}, err
			}
			obj[ks] = mv
		}
		return Object(obj), nil
	case map[string]Value:
		return Object(t), nil
	default:
		return Value{}, Issues{p.issue(CodeInvalidType, map[string]string{"expected": "JSON-compatible value", "got": fmt.Sprintf("%T", x)}, nil)}
	}
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}
