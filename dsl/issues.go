package dsl

import (
	shapematch "github.com/reoring/shapematch"
	"github.com/reoring/shapematch/i18n"
)

func issueAt(path, code string, data map[string]string) shapematch.Issue {
	it := shapematch.Issue{Path: path, Code: code, Message: i18n.T(code, data)}
	if len(data) > 0 {
		it.Params = make(map[string]any, len(data))
		for k, v := range data {
			it.Params[k] = v
		}
	}
	return it
}

func invalidType(expected string, got shapematch.Value) shapematch.Issues {
	return shapematch.Issues{issueAt("/", shapematch.CodeInvalidType, map[string]string{
		"expected": expected,
		"got":      got.Kind().String(),
	})}
}

// rebaseField moves nested issues under /key.
func rebaseField(iss shapematch.Issues, key string) shapematch.Issues {
	out := make(shapematch.Issues, 0, len(iss))
	base := "/" + escapePointer(key)
	for _, it := range iss {
		switch {
		case it.Path == "" || it.Path == "/":
			it.Path = base
		default:
			it.Path = base + it.Path
		}
		out = append(out, it)
	}
	return out
}

func escapePointer(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '~':
			out = append(out, '~', '0')
		case '/':
			out = append(out, '~', '1')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
