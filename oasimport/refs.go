package oasimport

import (
	"fmt"
	"strings"

	shapematch "github.com/reoring/shapematch"
	"github.com/reoring/shapematch/dsl"
)

const componentsPrefix = "#/components/schemas/"

// extractComponents returns the components/schemas map, accepting the
// $defs spelling as well.
func extractComponents(doc map[string]any) map[string]any {
	if comp, ok := doc["components"].(map[string]any); ok {
		if m, ok := comp["schemas"].(map[string]any); ok {
			return m
		}
	}
	if m, ok := doc["$defs"].(map[string]any); ok {
		return m
	}
	return nil
}

func (im *importer) ref(ref string) (shapematch.Candidate, error) {
	switch {
	case strings.HasPrefix(ref, componentsPrefix):
		return im.resolve(strings.TrimPrefix(ref, componentsPrefix))
	case strings.HasPrefix(ref, "#/$defs/"):
		return im.resolve(strings.TrimPrefix(ref, "#/$defs/"))
	default:
		return nil, fmt.Errorf("oasimport: $ref %q not supported (local components only)", ref)
	}
}

// resolve compiles a named component once. Registered models and enums take
// precedence over the document.
func (im *importer) resolve(name string) (shapematch.Candidate, error) {
	if m, ok := im.reg.Models[name]; ok {
		return dsl.Leaf(dsl.ModelOf(m)), nil
	}
	if e, ok := im.reg.Enums[name]; ok {
		return dsl.Leaf(dsl.EnumOf(e)), nil
	}
	if c, ok := im.resolved[name]; ok {
		return c, nil
	}
	if im.resolving[name] {
		return nil, fmt.Errorf("oasimport: cyclic $ref to %s must pass through an object schema", name)
	}
	node, ok := im.components[name].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("oasimport: $ref to unknown schema %s", name)
	}
	im.resolving[name] = true
	defer delete(im.resolving, name)
	c, err := im.compile(node, name)
	if err != nil {
		return nil, fmt.Errorf("oasimport: %s: %w", name, err)
	}
	im.resolved[name] = c
	return c, nil
}
