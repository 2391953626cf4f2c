package shapematch

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeInvalidType           = "invalid_type"
	CodeInvalidFormat         = "invalid_format"
	CodeInvalidEnum           = "invalid_enum"
	CodeRequired              = "required"
	CodeUnknownKey            = "unknown_key"
	CodeDiscriminatorMismatch = "discriminator_mismatch"
	CodeNoneMatched           = "none_matched"
	CodeMultipleMatched       = "multiple_matched"
	CodeStructuralMismatch    = "structural_mismatch"
	CodeDepthExceeded         = "depth_exceeded"
	CodeNotValidated          = "not_validated"
	CodeParseError            = "parse_error"
	CodeDuplicateKey          = "duplicate_key"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: nested causes, expected formats, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"candidates": [...]})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. none_matched at /2: value matched none of [int, string]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" && it.Message != it.Code {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// HasCode reports whether any issue carries code.
func (iss Issues) HasCode(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// toIssues converts any error into Issues, keeping existing Issues as-is.
func toIssues(err error, code string) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return Issues{{Path: "/", Code: code, Message: err.Error(), Cause: err}}
}
