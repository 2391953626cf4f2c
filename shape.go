package shapematch

import (
	"errors"
	"fmt"

	js "github.com/reoring/shapematch/jsonschema"
)

// Shape is the container nesting a candidate expects around its leaf type.
type Shape uint8

const (
	ShapeScalar     Shape = iota // T
	ShapeArray                   // []T
	ShapeMap                     // map[string]T
	ShapeArrayOfMap              // []map[string]T
	ShapeMapOfArray              // map[string][]T
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeArray:
		return "array"
	case ShapeMap:
		return "map"
	case ShapeArrayOfMap:
		return "array-of-map"
	case ShapeMapOfArray:
		return "map-of-array"
	default:
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
}

// Decorate renders a type name wrapped in the shape, e.g. "[]map[string]int".
func (s Shape) Decorate(name string) string {
	switch s {
	case ShapeArray:
		return "[]" + name
	case ShapeMap:
		return "map[string]" + name
	case ShapeArrayOfMap:
		return "[]map[string]" + name
	case ShapeMapOfArray:
		return "map[string][]" + name
	default:
		return name
	}
}

// ErrIllegalShape is returned by ShapeFromFlags for flag combinations that do
// not describe one of the five shapes.
var ErrIllegalShape = errors.New("shapematch: illegal shape flags")

// ShapeFromFlags maps the array/map/array-of-map flag triple used by code
// generators onto a Shape.
func ShapeFromFlags(isArray, isMap, isArrayOfMap bool) (Shape, error) {
	switch {
	case isArrayOfMap && !(isArray && isMap):
		return ShapeScalar, fmt.Errorf("%w: array-of-map requires both array and map", ErrIllegalShape)
	case isArray && isMap && isArrayOfMap:
		return ShapeArrayOfMap, nil
	case isArray && isMap:
		return ShapeMapOfArray, nil
	case isArray:
		return ShapeArray, nil
	case isMap:
		return ShapeMap, nil
	default:
		return ShapeScalar, nil
	}
}

// DateTimeFormat selects the wire representation of date-time leaves.
type DateTimeFormat uint8

const (
	DateTimeUnspecified DateTimeFormat = iota // treated as RFC3339
	DateTimeRFC3339
	DateTimeHTTPDate
	DateTimeUnixTimestamp
)

func (f DateTimeFormat) String() string {
	switch f {
	case DateTimeRFC3339, DateTimeUnspecified:
		return "rfc3339"
	case DateTimeHTTPDate:
		return "http-date"
	case DateTimeUnixTimestamp:
		return "unix-timestamp"
	default:
		return fmt.Sprintf("datetime(%d)", uint8(f))
	}
}

// ParseDateTimeFormat parses the names produced by DateTimeFormat.String.
func ParseDateTimeFormat(s string) (DateTimeFormat, error) {
	switch s {
	case "", "rfc3339", "date-time":
		return DateTimeRFC3339, nil
	case "http-date", "rfc1123":
		return DateTimeHTTPDate, nil
	case "unix-timestamp", "unix-time", "unix":
		return DateTimeUnixTimestamp, nil
	default:
		return DateTimeUnspecified, fmt.Errorf("shapematch: unknown date-time format %q", s)
	}
}

// Discriminator is a literal field/value pair that identifies a model
// candidate. The zero Discriminator means none.
type Discriminator struct {
	Field string
	Value string
}

func (d Discriminator) IsZero() bool { return d.Field == "" }

// ShapeContext describes the container shape, null policy, discriminator and
// date-time wire format of a candidate. It is a value type: every method that
// changes it returns a copy.
type ShapeContext struct {
	Shape          Shape
	Optional       bool
	Nullable       bool
	Discriminator  Discriminator
	DateTimeFormat DateTimeFormat
	// Converter, when set, normalizes a date-time wire value before it is
	// checked or parsed.
	Converter func(Value) Value
}

// NullAllowed reports whether a null (or absent) value is acceptable.
func (sc ShapeContext) NullAllowed() bool { return sc.Nullable || sc.Optional }

func (sc ShapeContext) HasDiscriminator() bool { return !sc.Discriminator.IsZero() }

func (sc ShapeContext) WithShape(s Shape) ShapeContext {
	sc.Shape = s
	return sc
}

func (sc ShapeContext) WithDiscriminator(field, value string) ShapeContext {
	sc.Discriminator = Discriminator{Field: field, Value: value}
	return sc
}

func (sc ShapeContext) WithoutDiscriminator() ShapeContext {
	sc.Discriminator = Discriminator{}
	return sc
}

// wrapSchema projects an element schema through the shape and null policy.
func (sc ShapeContext) wrapSchema(elem *js.Schema) *js.Schema {
	var out *js.Schema
	switch sc.Shape {
	case ShapeArray:
		out = &js.Schema{Type: "array", Items: elem}
	case ShapeMap:
		out = &js.Schema{Type: "object", AdditionalProperties: elem}
	case ShapeArrayOfMap:
		out = &js.Schema{Type: "array", Items: &js.Schema{Type: "object", AdditionalProperties: elem}}
	case ShapeMapOfArray:
		out = &js.Schema{Type: "object", AdditionalProperties: &js.Schema{Type: "array", Items: elem}}
	default:
		out = elem
	}
	if sc.Nullable {
		out.Nullable = true
	}
	return out
}
