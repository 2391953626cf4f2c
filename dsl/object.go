package dsl

import (
	"context"
	"sort"

	shapematch "github.com/reoring/shapematch"
	js "github.com/reoring/shapematch/jsonschema"
)

// ObjectModel is a Model whose fields are candidates, so unions may appear
// inside models and models may refer to themselves. Configure it with Field,
// Require and Strict before first use; it is read-only afterwards.
type ObjectModel struct {
	name       string
	fields     map[string]shapematch.Candidate
	sortedKeys []string
	required   map[string]struct{}
	strict     bool
}

// Object starts a dynamic model named name.
func Object(name string) *ObjectModel {
	return &ObjectModel{
		name:     name,
		fields:   map[string]shapematch.Candidate{},
		required: map[string]struct{}{},
	}
}

// Field declares key with the candidate its value must match.
func (o *ObjectModel) Field(key string, c shapematch.Candidate) *ObjectModel {
	if _, ok := o.fields[key]; !ok {
		o.sortedKeys = append(o.sortedKeys, key)
		sort.Strings(o.sortedKeys)
	}
	o.fields[key] = c
	return o
}

// Require marks keys as required (present and non-null).
func (o *ObjectModel) Require(keys ...string) *ObjectModel {
	for _, k := range keys {
		o.required[k] = struct{}{}
	}
	return o
}

// Strict rejects undeclared keys.
func (o *ObjectModel) Strict() *ObjectModel {
	o.strict = true
	return o
}

func (o *ObjectModel) Name() string { return o.name }

func (o *ObjectModel) Validate(ctx context.Context, v shapematch.Value) error {
	obj, ok := v.AsObject()
	if !ok {
		return invalidType(o.name, v)
	}
	var iss shapematch.Issues
	for _, k := range o.sortedKeys {
		fv, present := obj[k]
		if !present || fv.IsNull() {
			if _, req := o.required[k]; req {
				iss = shapematch.AppendIssues(iss, issueAt("/"+escapePointer(k), shapematch.CodeRequired, map[string]string{"key": k}))
				continue
			}
			if !present {
				continue
			}
		}
		if r := o.fields[k].Match(ctx, fv); !r.Valid {
			iss = shapematch.AppendIssues(iss, rebaseField(r.Issues, k)...)
		}
	}
	iss = shapematch.AppendIssues(iss, o.unknownIssues(v)...)
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func (o *ObjectModel) unknownIssues(v shapematch.Value) shapematch.Issues {
	if !o.strict {
		return nil
	}
	var iss shapematch.Issues
	for _, k := range v.Keys() {
		if _, known := o.fields[k]; !known {
			iss = shapematch.AppendIssues(iss, issueAt("/"+escapePointer(k), shapematch.CodeUnknownKey, map[string]string{"key": k}))
		}
	}
	return iss
}

// Construct decodes every declared field through its candidate and passes
// undeclared keys through as native values. Model internals do not appear in
// the Result tree, so each field is matched again here before it is decoded;
// Match is pure, so this selects the same branches Validate proved.
func (o *ObjectModel) Construct(ctx context.Context, v shapematch.Value) (any, error) {
	obj, ok := v.AsObject()
	if !ok {
		return nil, invalidType(o.name, v)
	}
	out := make(map[string]any, len(obj))
	for _, k := range v.Keys() {
		fv := obj[k]
		c, known := o.fields[k]
		if !known {
			if !o.strict {
				out[k] = fv.Interface()
			}
			continue
		}
		r := c.Match(ctx, fv)
		if !r.Valid {
			return nil, rebaseField(r.Issues, k)
		}
		dv, err := c.Decode(ctx, r)
		if err != nil {
			if iss, ok := shapematch.AsIssues(err); ok {
				return nil, rebaseField(iss, k)
			}
			return nil, err
		}
		out[k] = dv
	}
	return out, nil
}

// JSONSchema projects the declared fields. A model that refers to itself
// is rendered as a $ref to its name on the recursive occurrence.
func (o *ObjectModel) JSONSchema() (*js.Schema, error) { return o.ProjectSchema(js.Visiting{}) }

func (o *ObjectModel) ProjectSchema(visiting js.Visiting) (*js.Schema, error) {
	if _, seen := visiting[o]; seen {
		return &js.Schema{Ref: shapematch.ComponentRef(o.name)}, nil
	}
	visiting[o] = struct{}{}
	defer delete(visiting, o)
	s := &js.Schema{Type: "object", Title: o.name, Properties: make(map[string]*js.Schema, len(o.fields))}
	for _, k := range o.sortedKeys {
		fs, err := shapematch.ProjectSchema(o.fields[k], visiting)
		if err != nil {
			return nil, err
		}
		s.Properties[k] = fs
		if _, req := o.required[k]; req {
			s.Required = append(s.Required, k)
		}
	}
	if o.strict {
		s.AdditionalProperties = false
	}
	return s, nil
}
