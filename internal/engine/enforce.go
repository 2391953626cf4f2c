package engine

import (
	"strconv"
	"strings"
)

// Enforcement wrapper for TokenSource to apply duplicate key handling and
// max depth checks in a streaming fashion.

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupError    DuplicateStrictness = iota // reject the document
	DupKeepLast                            // later members replace earlier ones
)

// SimpleIssue is a minimal issue representation; callers map Code onto
// shapematch issue codes.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
	Param   string // offending key or limit
	Offset  int64  // source location reported by the driver, -1 when unknown
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type dupFrame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	path         string
	nextIndex    int
	pendingKey   string
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// LocatedError wraps a driver error (syntax, truncated input) with the
// source location at which it surfaced.
type LocatedError struct {
	Err    error
	Offset int64
}

func (e *LocatedError) Error() string { return e.Err.Error() }
func (e *LocatedError) Unwrap() error { return e.Err }

// WrapWithEnforcement returns a TokenSource that enforces duplicate key policy
// and maximum nesting depth.
func WrapWithEnforcement(inner TokenSource, opt Options) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   Options
	stack []dupFrame
	depth int
	path  string
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	path := e.currentPathForToken(tok)
	npath := normalizeIssuePath(path)

	switch tok.Kind {
	case KindBeginObject:
		e.stack = append(e.stack, dupFrame{kind: kindObject, keys: make(map[string]struct{}), expectingKey: true, path: path})
		e.depth++
		if err := e.checkDepth(npath); err != nil {
			return Token{}, err
		}
	case KindEndObject:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		if e.depth > 0 {
			e.depth--
		}
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if top.kind == kindObject && !top.expectingKey {
				top.expectingKey = true
				top.pendingKey = ""
			}
		}
	case KindBeginArray:
		e.stack = append(e.stack, dupFrame{kind: kindArray, path: path})
		e.depth++
		if err := e.checkDepth(npath); err != nil {
			return Token{}, err
		}
	case KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		if e.depth > 0 {
			e.depth--
		}
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if top.kind == kindObject && !top.expectingKey {
				top.expectingKey = true
				top.pendingKey = ""
			}
		}
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				if _, ok := top.keys[tok.String]; ok && e.opt.OnDuplicate == DupError {
					return Token{}, IssueError{SimpleIssue{Code: "duplicate_key", Path: npath, Message: "key '" + tok.String + "' duplicated", Param: tok.String}}
				}
				top.keys[tok.String] = struct{}{}
				top.expectingKey = false
				top.pendingKey = tok.String
			}
		}
	case KindString, KindNumber, KindBool, KindNull:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if top.kind == kindObject && !top.expectingKey {
				top.expectingKey = true
				top.pendingKey = ""
			}
		}
	}

	return tok, nil
}

func (e *enforcingTokenSource) checkDepth(path string) error {
	if e.opt.MaxDepth > 0 && e.depth > e.opt.MaxDepth {
		return IssueError{SimpleIssue{Code: "depth_exceeded", Path: path, Message: "max depth exceeded", Param: strconv.Itoa(e.opt.MaxDepth)}}
	}
	return nil
}

func (e *enforcingTokenSource) currentPathForToken(tok Token) string {
	var path string
	if len(e.stack) == 0 {
		switch tok.Kind {
		case KindKey:
			path = joinJSONPointer("", tok.String)
		case KindEndObject, KindEndArray:
			path = ""
		default:
			path = ""
		}
		e.path = path
		return path
	}

	top := &e.stack[len(e.stack)-1]
	switch tok.Kind {
	case KindKey:
		path = joinJSONPointer(top.path, tok.String)
		top.pendingKey = tok.String
	case KindBeginObject, KindBeginArray, KindString, KindNumber, KindBool, KindNull:
		if top.kind == kindArray {
			path = joinJSONPointer(top.path, strconv.Itoa(top.nextIndex))
			top.nextIndex++
		} else if top.kind == kindObject {
			if top.pendingKey != "" || !top.expectingKey {
				path = joinJSONPointer(top.path, top.pendingKey)
			} else {
				path = top.path
			}
		} else {
			path = top.path
		}
	case KindEndObject, KindEndArray:
		path = top.path
	default:
		path = top.path
	}

	e.path = path
	return path
}

func normalizeIssuePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapeJSONPointerToken(s string) string {
	return jsonPointerEscaper.Replace(s)
}

func joinJSONPointer(base, token string) string {
	if base == "" {
		return "/" + escapeJSONPointerToken(token)
	}
	return base + "/" + escapeJSONPointerToken(token)
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }
