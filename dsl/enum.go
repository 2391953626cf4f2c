package dsl

import (
	"context"
	"fmt"

	shapematch "github.com/reoring/shapematch"
	js "github.com/reoring/shapematch/jsonschema"
)

// StringEnum declares an enum whose members are strings of type T.
func StringEnum[T ~string](name string, members ...T) shapematch.Enum {
	set := make(map[string]T, len(members))
	for _, m := range members {
		set[string(m)] = m
	}
	return &stringEnum[T]{name: name, members: members, set: set}
}

type stringEnum[T ~string] struct {
	name    string
	members []T
	set     map[string]T
}

func (e *stringEnum[T]) Name() string { return e.name }

func (e *stringEnum[T]) Contains(v shapematch.Value) bool {
	s, ok := v.AsString()
	if !ok {
		return false
	}
	_, ok = e.set[s]
	return ok
}

func (e *stringEnum[T]) Member(v shapematch.Value) (any, error) {
	s, _ := v.AsString()
	m, ok := e.set[s]
	if !ok {
		return nil, notMember(e.name)
	}
	return m, nil
}

func (e *stringEnum[T]) Members() []any {
	out := make([]any, len(e.members))
	for i, m := range e.members {
		out[i] = string(m)
	}
	return out
}

// IntEnum declares an enum whose members are integers of type T.
func IntEnum[T ~int | ~int32 | ~int64](name string, members ...T) shapematch.Enum {
	set := make(map[int64]T, len(members))
	for _, m := range members {
		set[int64(m)] = m
	}
	return &intEnum[T]{name: name, members: members, set: set}
}

type intEnum[T ~int | ~int32 | ~int64] struct {
	name    string
	members []T
	set     map[int64]T
}

func (e *intEnum[T]) Name() string { return e.name }

func (e *intEnum[T]) Contains(v shapematch.Value) bool {
	i, ok := v.AsInt()
	if !ok {
		return false
	}
	_, ok = e.set[i]
	return ok
}

func (e *intEnum[T]) Member(v shapematch.Value) (any, error) {
	i, _ := v.AsInt()
	m, ok := e.set[i]
	if !ok {
		return nil, notMember(e.name)
	}
	return m, nil
}

func (e *intEnum[T]) Members() []any {
	out := make([]any, len(e.members))
	for i, m := range e.members {
		out[i] = int64(m)
	}
	return out
}

func notMember(name string) error {
	return shapematch.Issues{issueAt("/", shapematch.CodeInvalidEnum, map[string]string{"expected": name})}
}

// enumMembers is implemented by the enums of this package so the JSON Schema
// projection can list members.
type enumMembers interface {
	Members() []any
}

type enumTarget struct{ enum shapematch.Enum }

// EnumOf returns a target delegating membership to e.
func EnumOf(e shapematch.Enum) shapematch.Target { return enumTarget{enum: e} }

func (t enumTarget) Name() string { return t.enum.Name() }

func (t enumTarget) Check(_ context.Context, v shapematch.Value, _ shapematch.ShapeContext) error {
	if !t.enum.Contains(v) {
		return notMember(t.enum.Name())
	}
	return nil
}

func (t enumTarget) Convert(_ context.Context, v shapematch.Value, _ shapematch.ShapeContext) (any, error) {
	return t.enum.Member(v)
}

func (t enumTarget) JSONSchema(shapematch.ShapeContext) (*js.Schema, error) {
	s := &js.Schema{Title: t.enum.Name()}
	if em, ok := t.enum.(enumMembers); ok {
		s.Enum = em.Members()
		if len(s.Enum) > 0 {
			switch s.Enum[0].(type) {
			case string:
				s.Type = "string"
			case int64:
				s.Type = "integer"
			default:
				return nil, fmt.Errorf("dsl: enum %s has unsupported member type %T", t.enum.Name(), s.Enum[0])
			}
		}
	}
	return s, nil
}
