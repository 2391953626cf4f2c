package source

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	shapematch "github.com/reoring/shapematch"
	eng "github.com/reoring/shapematch/internal/engine"
)

// JSON decodes a JSON document.
func JSON(b []byte, opts ...Option) (shapematch.Value, error) {
	return build(newJSONSource(bytes.NewReader(b)), "offset", opts)
}

// JSONReader decodes one JSON document from r.
func JSONReader(r io.Reader, opts ...Option) (shapematch.Value, error) {
	return build(newJSONSource(r), "offset", opts)
}

// ---- engine.TokenSource implementation using go-json Decoder ----

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type jsonSource struct {
	dec   *j.Decoder
	stack []frame
}

func newJSONSource(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &jsonSource{dec: dec}
}

func (s *jsonSource) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	off := s.dec.InputOffset()
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return eng.Token{Kind: eng.KindBeginObject, Offset: off}, nil
		case '}':
			s.pop()
			return eng.Token{Kind: eng.KindEndObject, Offset: off}, nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return eng.Token{Kind: eng.KindBeginArray, Offset: off}, nil
		case ']':
			s.pop()
			return eng.Token{Kind: eng.KindEndArray, Offset: off}, nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				return eng.Token{Kind: eng.KindKey, String: v, Offset: off}, nil
			}
		}
		s.valueDone()
		return eng.Token{Kind: eng.KindString, String: v, Offset: off}, nil
	case bool:
		s.valueDone()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: off}, nil
	case j.Number:
		s.valueDone()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: off}, nil
	case float64:
		s.valueDone()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: off}, nil
	}
	s.valueDone()
	return eng.Token{Kind: eng.KindNull, Offset: off}, nil
}

func (s *jsonSource) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

// valueDone flips the enclosing object back to expecting a key.
func (s *jsonSource) valueDone() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

// Location reports the byte offset just past the last token read.
func (s *jsonSource) Location() int64 { return s.dec.InputOffset() }
