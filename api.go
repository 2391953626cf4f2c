package shapematch

import (
	"context"
	"fmt"
)

// Validate matches v against c as the outermost union of a field. Nested
// candidates only report failure through their Results; this is the single
// place an invalid match becomes an error, carrying every nested cause.
func Validate(ctx context.Context, c Candidate, v Value) (*Result, error) {
	if c == nil {
		return nil, Issues{rootPath.issue(CodeParseError, nil, nil)}
	}
	r := c.Match(ctx, v)
	if !r.Valid {
		if len(r.Issues) == 0 {
			return r, notValidated("match failed without issues")
		}
		return r, r.Issues
	}
	return r, nil
}

// Deserialize materializes the value recorded in a Result returned by a
// successful Validate. It fails with not_validated for invalid results rather
// than returning a zero value.
func Deserialize(ctx context.Context, r *Result) (any, error) {
	if r == nil || r.producer == nil {
		return nil, notValidated("nil result")
	}
	return r.producer.Decode(ctx, r)
}

// Decode runs Validate followed by Deserialize.
func Decode(ctx context.Context, c Candidate, v Value) (any, error) {
	r, err := Validate(ctx, c, v)
	if err != nil {
		return nil, err
	}
	return Deserialize(ctx, r)
}

// DecodeAs is Decode with a typed result.
func DecodeAs[T any](ctx context.Context, c Candidate, v Value) (T, error) {
	var zero T
	out, err := Decode(ctx, c, v)
	if err != nil {
		return zero, err
	}
	t, ok := out.(T)
	if !ok {
		return zero, Issues{rootPath.issue(CodeInvalidType, map[string]string{
			"expected": fmt.Sprintf("%T", zero),
			"got":      fmt.Sprintf("%T", out),
		}, nil)}
	}
	return t, nil
}

// Is reports whether v matches c.
func Is(ctx context.Context, c Candidate, v Value) bool {
	return c.Match(ctx, v).Valid
}
