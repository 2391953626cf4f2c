package oasimport

import (
	"fmt"

	shapematch "github.com/reoring/shapematch"
)

// Options controls import behavior.
type Options struct {
	// Root names the components/schemas entry to import. Empty imports the
	// document itself as a schema.
	Root string
	// StrictObjects rejects undeclared keys on objects that do not set
	// additionalProperties.
	StrictObjects bool
}

// Registry binds component names to Go implementations. A $ref whose name is
// registered resolves to the registered model or enum instead of the
// component's schema.
type Registry struct {
	Models map[string]shapematch.Model
	Enums  map[string]shapematch.Enum
}

// Diag carries non-fatal warnings produced during import.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }
