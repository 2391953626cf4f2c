package dsl

import (
	shapematch "github.com/reoring/shapematch"
)

// Leaf returns a terminal candidate for t.
func Leaf(t shapematch.Target, opts ...Opt) *shapematch.Leaf {
	return shapematch.NewLeaf(t, Context(opts...))
}

// OneOf returns an exclusive union of cands.
func OneOf(cands ...shapematch.Candidate) *shapematch.OneOf {
	return shapematch.NewOneOf(shapematch.ShapeContext{}, cands...)
}

// OneOfWith is OneOf with shape/null options for the union itself.
func OneOfWith(opts []Opt, cands ...shapematch.Candidate) *shapematch.OneOf {
	return shapematch.NewOneOf(Context(opts...), cands...)
}

// AnyOf returns an inclusive union of cands.
func AnyOf(cands ...shapematch.Candidate) *shapematch.AnyOf {
	return shapematch.NewAnyOf(shapematch.ShapeContext{}, cands...)
}

// AnyOfWith is AnyOf with shape/null options for the union itself.
func AnyOfWith(opts []Opt, cands ...shapematch.Candidate) *shapematch.AnyOf {
	return shapematch.NewAnyOf(Context(opts...), cands...)
}

// Opts groups options for OneOfWith/AnyOfWith call sites.
func Opts(opts ...Opt) []Opt { return opts }
