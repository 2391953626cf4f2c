package shapematch

import (
	"strconv"
	"strings"

	"github.com/reoring/shapematch/i18n"
)

// pathRef builds JSON Pointer paths in a chain-safe way.
type pathRef struct {
	parts []string
}

var rootPath = pathRef{}

func (p pathRef) field(name string) pathRef {
	return pathRef{parts: append(append([]string{}, p.parts...), escapePointer(name))}
}

func (p pathRef) index(i int) pathRef {
	return pathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

func (p pathRef) pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

func (p pathRef) issue(code string, data map[string]string, cause error) Issue {
	it := Issue{Path: p.pointer(), Code: code, Message: i18n.T(code, data), Cause: cause}
	if len(data) > 0 {
		it.Params = make(map[string]any, len(data))
		for k, v := range data {
			it.Params[k] = v
		}
	}
	return it
}

// escapePointer escapes '~' -> '~0', '/' -> '~1' per RFC6901.
func escapePointer(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

// joinPointer prefixes a nested pointer p with base.
func joinPointer(base, p string) string {
	if base == "" || base == "/" {
		if p == "" {
			return "/"
		}
		return p
	}
	if p == "" || p == "/" {
		return base
	}
	if p[0] == '/' {
		return base + p
	}
	return base + "/" + p
}

// rebase moves nested issues under the position seg.
func rebase(iss Issues, seg string) Issues {
	if len(iss) == 0 {
		return nil
	}
	base := "/" + escapePointer(seg)
	out := make(Issues, len(iss))
	for i, it := range iss {
		it.Path = joinPointer(base, it.Path)
		out[i] = it
	}
	return out
}
