package oasimport

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	shapematch "github.com/reoring/shapematch"
)

// ImportYAML decodes a YAML document and imports it.
func ImportYAML(data []byte, reg Registry, opts Options) (shapematch.Candidate, Diag, error) {
	var node any
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &simpleDiag{}, fmt.Errorf("oasimport: invalid YAML: %w", err)
	}
	m := yamlAnyToStringMap(node)
	if m == nil {
		return nil, &simpleDiag{}, errors.New("oasimport: YAML root must be a mapping")
	}
	return Import(m, reg, opts)
}

// ImportJSON imports a JSON document.
func ImportJSON(data []byte, reg Registry, opts Options) (shapematch.Candidate, Diag, error) {
	return Import(data, reg, opts)
}

// yamlAnyToStringMap converts YAML-decoded values (which may contain map[any]any)
// into JSON-like map[string]any recursively. Non-map roots return nil.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
