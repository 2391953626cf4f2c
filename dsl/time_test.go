package dsl_test

import (
	"context"
	"strings"
	"testing"
	"time"

	shapematch "github.com/reoring/shapematch"
	g "github.com/reoring/shapematch/dsl"
)

func TestDateTime_FormatFromContext(t *testing.T) {
	ctx := context.Background()
	want := time.Date(1994, 11, 6, 8, 49, 37, 0, time.UTC)
	cases := []struct {
		name string
		opts []g.Opt
		in   shapematch.Value
	}{
		{"rfc3339", nil, shapematch.String("1994-11-06T08:49:37Z")},
		{"http-date", []g.Opt{g.DateTimeFormat(shapematch.DateTimeHTTPDate)}, shapematch.String("Sun, 06 Nov 1994 08:49:37 GMT")},
		{"unix", []g.Opt{g.DateTimeFormat(shapematch.DateTimeUnixTimestamp)}, shapematch.Int(784111777)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := shapematch.DecodeAs[time.Time](ctx, g.Leaf(g.DateTime(), tc.opts...), tc.in)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if !got.Equal(want) {
				t.Fatalf("got %v want %v", got, want)
			}
		})
	}
}

func TestDateTime_Converter(t *testing.T) {
	trim := g.Converter(func(v shapematch.Value) shapematch.Value {
		if s, ok := v.AsString(); ok {
			return shapematch.String(strings.TrimSpace(s))
		}
		return v
	})
	c := g.Leaf(g.DateTime(), trim)
	if !shapematch.Is(context.Background(), c, shapematch.String("  2024-01-02T03:04:05Z ")) {
		t.Fatalf("converter should run before the format check")
	}
}

func TestDateAndDateTimeAreDistinct(t *testing.T) {
	ctx := context.Background()
	u := g.OneOf(g.Leaf(g.Date()), g.Leaf(g.DateTime()))
	r, err := shapematch.Validate(ctx, u, shapematch.String("2024-01-02"))
	if err != nil || r.Selected != 0 {
		t.Fatalf("expected date branch: %v", err)
	}
	_, err = shapematch.Validate(ctx, u, shapematch.Int(5))
	if iss, _ := shapematch.AsIssues(err); !iss.HasCode(shapematch.CodeNoneMatched) {
		t.Fatalf("expected none_matched, got %v", err)
	}
}
