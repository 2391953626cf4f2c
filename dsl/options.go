package dsl

import (
	shapematch "github.com/reoring/shapematch"
)

// Opt adjusts the ShapeContext of a candidate under construction.
type Opt func(*shapematch.ShapeContext)

// Array wraps the candidate as []T.
func Array() Opt { return shape(shapematch.ShapeArray) }

// Map wraps the candidate as map[string]T.
func Map() Opt { return shape(shapematch.ShapeMap) }

// ArrayOfMap wraps the candidate as []map[string]T.
func ArrayOfMap() Opt { return shape(shapematch.ShapeArrayOfMap) }

// MapOfArray wraps the candidate as map[string][]T.
func MapOfArray() Opt { return shape(shapematch.ShapeMapOfArray) }

func shape(s shapematch.Shape) Opt {
	return func(sc *shapematch.ShapeContext) { sc.Shape = s }
}

// Nullable accepts an explicit null.
func Nullable() Opt { return func(sc *shapematch.ShapeContext) { sc.Nullable = true } }

// Optional accepts an absent (null) value.
func Optional() Opt { return func(sc *shapematch.ShapeContext) { sc.Optional = true } }

// Discriminator requires object values to carry field == value.
func Discriminator(field, value string) Opt {
	return func(sc *shapematch.ShapeContext) {
		sc.Discriminator = shapematch.Discriminator{Field: field, Value: value}
	}
}

// DateTimeFormat selects the wire format of DateTime leaves.
func DateTimeFormat(f shapematch.DateTimeFormat) Opt {
	return func(sc *shapematch.ShapeContext) { sc.DateTimeFormat = f }
}

// Converter normalizes date-time wire values before they are checked.
func Converter(fn func(shapematch.Value) shapematch.Value) Opt {
	return func(sc *shapematch.ShapeContext) { sc.Converter = fn }
}

// Context builds a ShapeContext from opts.
func Context(opts ...Opt) shapematch.ShapeContext {
	var sc shapematch.ShapeContext
	for _, o := range opts {
		if o != nil {
			o(&sc)
		}
	}
	return sc
}
