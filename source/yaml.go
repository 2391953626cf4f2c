package source

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	shapematch "github.com/reoring/shapematch"
	eng "github.com/reoring/shapematch/internal/engine"
)

// YAML decodes the first document of a YAML stream. Scalars follow the YAML
// 1.2 core schema tags resolved by yaml.v3: !!int becomes Int, !!float Float.
// An empty stream decodes to null.
func YAML(b []byte, opts ...Option) (shapematch.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return shapematch.Value{}, toIssues(err, "line")
	}
	src := &yamlSource{}
	if err := src.flatten(&doc, 0); err != nil {
		return shapematch.Value{}, toIssues(err, "line")
	}
	if len(src.toks) == 0 {
		return shapematch.Null(), nil
	}
	return build(src, "line", opts)
}

// yamlSource replays a yaml.v3 node tree as engine tokens.
type yamlSource struct {
	toks []eng.Token
	i    int
}

// maxAliasExpansion bounds alias-driven fan-out ("billion laughs").
const maxAliasExpansion = 1 << 20

func (s *yamlSource) flatten(n *yaml.Node, aliasDepth int) error {
	if len(s.toks) > maxAliasExpansion {
		return errors.New("yaml: document expands beyond the alias limit")
	}
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			if err := s.flatten(c, aliasDepth); err != nil {
				return err
			}
		}
	case yaml.AliasNode:
		if aliasDepth > 64 || n.Alias == nil {
			return errors.New("yaml: alias nesting too deep")
		}
		return s.flatten(n.Alias, aliasDepth+1)
	case yaml.SequenceNode:
		s.emit(eng.Token{Kind: eng.KindBeginArray})
		for _, c := range n.Content {
			if err := s.flatten(c, aliasDepth); err != nil {
				return err
			}
		}
		s.emit(eng.Token{Kind: eng.KindEndArray})
	case yaml.MappingNode:
		s.emit(eng.Token{Kind: eng.KindBeginObject})
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind == yaml.AliasNode && k.Alias != nil {
				k = k.Alias
			}
			if k.Kind != yaml.ScalarNode {
				return errors.New("yaml: line " + strconv.Itoa(k.Line) + ": mapping keys must be scalars")
			}
			s.emit(eng.Token{Kind: eng.KindKey, String: k.Value})
			if err := s.flatten(n.Content[i+1], aliasDepth); err != nil {
				return err
			}
		}
		s.emit(eng.Token{Kind: eng.KindEndObject})
	case yaml.ScalarNode:
		tok, err := scalarToken(n)
		if err != nil {
			return err
		}
		s.emit(tok)
	}
	return nil
}

func scalarToken(n *yaml.Node) (eng.Token, error) {
	off := int64(n.Line)
	switch n.ShortTag() {
	case "!!null":
		return eng.Token{Kind: eng.KindNull, Offset: off}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return eng.Token{}, err
		}
		return eng.Token{Kind: eng.KindBool, Bool: b, Offset: off}, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			// out of int64 range
			var f float64
			if ferr := n.Decode(&f); ferr != nil {
				return eng.Token{}, err
			}
			return eng.Token{Kind: eng.KindNumber, Number: floatLiteral(f), Offset: off}, nil
		}
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatInt(i, 10), Offset: off}, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return eng.Token{}, err
		}
		return eng.Token{Kind: eng.KindNumber, Number: floatLiteral(f), Offset: off}, nil
	default:
		return eng.Token{Kind: eng.KindString, String: n.Value, Offset: off}, nil
	}
}

// floatLiteral renders f so that it parses back as a Float even when it is
// integral.
func floatLiteral(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) || strings.ContainsAny(s, ".eE") {
		return s
	}
	return s + ".0"
}

func (s *yamlSource) emit(t eng.Token) { s.toks = append(s.toks, t) }

func (s *yamlSource) NextToken() (eng.Token, error) {
	if s.i >= len(s.toks) {
		return eng.Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

// Location reports the source line of the last token.
func (s *yamlSource) Location() int64 {
	if s.i == 0 || s.i > len(s.toks) {
		return -1
	}
	return s.toks[s.i-1].Offset
}
