package engine

import (
	"errors"
	"io"

	shapematch "github.com/reoring/shapematch"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindBeginObject:
		return "{"
	case KindEndObject:
		return "}"
	case KindBeginArray:
		return "["
	case KindEndArray:
		return "]"
	case KindKey:
		return "key"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string // literal text; integral literals become Int, others Float
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// Options controls Build.
type Options struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
}

// Build reads exactly one value from src while enforcing opt and returns it
// as a shapematch.Value. Trailing tokens are an error. Errors carry
// src.Location() at the point of failure.
func Build(src TokenSource, opt Options) (shapematch.Value, error) {
	es := WrapWithEnforcement(src, opt)
	v, err := build(es)
	if err != nil {
		return shapematch.Value{}, locate(err, es.Location())
	}
	return v, nil
}

func build(es TokenSource) (shapematch.Value, error) {
	tok, err := es.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return shapematch.Value{}, IssueError{SimpleIssue{Code: "parse_error", Path: "/", Message: "empty input"}}
		}
		return shapematch.Value{}, err
	}
	v, err := buildValue(es, tok)
	if err != nil {
		return shapematch.Value{}, err
	}
	if extra, err := es.NextToken(); !errors.Is(err, io.EOF) {
		if err != nil {
			return shapematch.Value{}, err
		}
		return shapematch.Value{}, IssueError{SimpleIssue{Code: "parse_error", Path: "/", Message: "unexpected trailing " + extra.Kind.String()}}
	}
	return v, nil
}

func locate(err error, off int64) error {
	var ie IssueError
	if errors.As(err, &ie) {
		ie.Offset = off
		return ie
	}
	return &LocatedError{Err: err, Offset: off}
}

func buildValue(src TokenSource, tok Token) (shapematch.Value, error) {
	switch tok.Kind {
	case KindBeginObject:
		return buildObject(src)
	case KindBeginArray:
		return buildArray(src)
	case KindString:
		return shapematch.String(tok.String), nil
	case KindNumber:
		v, err := shapematch.NumberValue(tok.Number)
		if err != nil {
			return shapematch.Value{}, IssueError{SimpleIssue{Code: "parse_error", Path: "/", Message: "invalid number " + tok.Number}}
		}
		return v, nil
	case KindBool:
		return shapematch.Bool(tok.Bool), nil
	case KindNull:
		return shapematch.Null(), nil
	default:
		return shapematch.Value{}, io.ErrUnexpectedEOF
	}
}

func buildObject(src TokenSource) (shapematch.Value, error) {
	m := make(map[string]shapematch.Value)
	for {
		tok, err := nextToken(src)
		if err != nil {
			return shapematch.Value{}, err
		}
		if tok.Kind == KindEndObject {
			return shapematch.Object(m), nil
		}
		if tok.Kind != KindKey {
			return shapematch.Value{}, io.ErrUnexpectedEOF
		}
		vt, err := nextToken(src)
		if err != nil {
			return shapematch.Value{}, err
		}
		v, err := buildValue(src, vt)
		if err != nil {
			return shapematch.Value{}, err
		}
		m[tok.String] = v
	}
}

func buildArray(src TokenSource) (shapematch.Value, error) {
	arr := []shapematch.Value{}
	for {
		tok, err := nextToken(src)
		if err != nil {
			return shapematch.Value{}, err
		}
		if tok.Kind == KindEndArray {
			return shapematch.Array(arr...), nil
		}
		v, err := buildValue(src, tok)
		if err != nil {
			return shapematch.Value{}, err
		}
		arr = append(arr, v)
	}
}

// nextToken treats EOF inside a container as truncated input.
func nextToken(src TokenSource) (Token, error) {
	tok, err := src.NextToken()
	if errors.Is(err, io.EOF) {
		return Token{}, io.ErrUnexpectedEOF
	}
	return tok, err
}
