// Package source decodes wire documents (JSON, YAML) into shapematch.Value
// trees. Integral numbers become Int, other numbers Float, and booleans stay
// booleans, so leaf type checks downstream are plain tag comparisons.
//
// Every decoder rejects duplicate object keys unless WithDuplicateKeys
// selects KeepLast, and limits nesting to WithMaxDepth levels.
package source

import (
	"errors"
	"io"

	shapematch "github.com/reoring/shapematch"
	"github.com/reoring/shapematch/i18n"
	eng "github.com/reoring/shapematch/internal/engine"
)

// DefaultMaxDepth bounds container nesting when no option is given.
const DefaultMaxDepth = 256

// DuplicateKeys selects how repeated object keys are handled.
type DuplicateKeys int

const (
	// DuplicateError rejects the document with a duplicate_key issue.
	DuplicateError DuplicateKeys = iota
	// DuplicateKeepLast keeps the last occurrence.
	DuplicateKeepLast
)

// Option configures a decoder.
type Option func(*config)

type config struct {
	maxDepth int
	dup      DuplicateKeys
}

// WithMaxDepth limits container nesting; n <= 0 disables the limit.
func WithMaxDepth(n int) Option { return func(c *config) { c.maxDepth = n } }

// WithDuplicateKeys sets the duplicate key policy.
func WithDuplicateKeys(d DuplicateKeys) Option { return func(c *config) { c.dup = d } }

func newConfig(opts []Option) config {
	c := config{maxDepth: DefaultMaxDepth}
	for _, o := range opts {
		if o != nil {
			o(&c)
		}
	}
	return c
}

func (c config) engineOptions() eng.Options {
	o := eng.Options{MaxDepth: c.maxDepth, OnDuplicate: eng.DupError}
	if c.dup == DuplicateKeepLast {
		o.OnDuplicate = eng.DupKeepLast
	}
	return o
}

// build runs the engine over src. locKey names the driver's location unit
// ("offset" for byte offsets, "line" for source lines) in issue params.
func build(src eng.TokenSource, locKey string, opts []Option) (shapematch.Value, error) {
	v, err := eng.Build(src, newConfig(opts).engineOptions())
	if err != nil {
		return shapematch.Value{}, toIssues(err, locKey)
	}
	return v, nil
}

// toIssues maps engine and syntax errors onto shapematch.Issues.
func toIssues(err error, locKey string) shapematch.Issues {
	iss := issuesOf(err)
	if loc, ok := locationOf(err); ok {
		if iss[0].Params == nil {
			iss[0].Params = map[string]any{}
		}
		iss[0].Params[locKey] = loc
	}
	return iss
}

func locationOf(err error) (int64, bool) {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return ie.Offset, ie.Offset >= 0
	}
	var le *eng.LocatedError
	if errors.As(err, &le) {
		return le.Offset, le.Offset >= 0
	}
	return 0, false
}

func issuesOf(err error) shapematch.Issues {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		it := shapematch.Issue{Path: ie.Path, Code: ie.Code, Cause: err}
		switch ie.Code {
		case shapematch.CodeDuplicateKey:
			it.Message = i18n.T(it.Code, map[string]string{"key": ie.Param})
			it.Params = map[string]any{"key": ie.Param}
		case shapematch.CodeDepthExceeded:
			it.Message = i18n.T(it.Code, map[string]string{"max": ie.Param})
			it.Params = map[string]any{"max": ie.Param}
		default:
			it.Message = i18n.T(it.Code, nil)
			it.Hint = ie.Message
		}
		return shapematch.Issues{it}
	}
	hint := err.Error()
	if errors.Is(err, io.ErrUnexpectedEOF) {
		hint = "unexpected end of input"
	}
	return shapematch.Issues{{
		Path:    "/",
		Code:    shapematch.CodeParseError,
		Message: i18n.T(shapematch.CodeParseError, nil),
		Hint:    hint,
		Cause:   err,
	}}
}
