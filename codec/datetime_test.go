package codec

import (
	"math"
	"testing"
	"time"

	shapematch "github.com/reoring/shapematch"
)

func TestDateTime_RFC3339_Roundtrip(t *testing.T) {
	c := DateTime(shapematch.DateTimeRFC3339)

	in := shapematch.String("2025-01-01T00:00:00Z")
	got, err := c.Decode(in)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time: %v", got)
	}

	out, err := c.Encode(got)
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	if !out.Equal(in) {
		t.Fatalf("roundtrip mismatch: %s != %s", out, in)
	}
}

func TestDateTime_UnspecifiedIsRFC3339(t *testing.T) {
	if got := DateTime(shapematch.DateTimeUnspecified).Format(); got != "rfc3339" {
		t.Fatalf("unexpected format %q", got)
	}
}

func TestDateTime_RFC3339_Nano(t *testing.T) {
	c := DateTime(shapematch.DateTimeRFC3339)
	got, err := c.Decode(shapematch.String("2025-01-01T09:00:00.123+09:00"))
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	out, _ := c.Encode(got)
	if s, _ := out.AsString(); s != "2025-01-01T00:00:00.123Z" {
		t.Fatalf("expected canonical UTC output, got %q", s)
	}
}

func TestDateTime_RFC3339_Rejects(t *testing.T) {
	c := DateTime(shapematch.DateTimeRFC3339)
	for _, v := range []shapematch.Value{
		shapematch.String("Wed, 01 Jan 2025 00:00:00 GMT"),
		shapematch.String("2025-01-01"),
		shapematch.Int(1735689600),
		shapematch.Bool(true),
	} {
		err := c.Validate(v)
		if err == nil {
			t.Fatalf("expected %s to be rejected", v)
		}
		iss, ok := shapematch.AsIssues(err)
		if !ok || iss[0].Code != shapematch.CodeInvalidFormat {
			t.Fatalf("expected invalid_format, got %v", err)
		}
	}
}

func TestDateTime_HTTPDate(t *testing.T) {
	c := DateTime(shapematch.DateTimeHTTPDate)
	got, err := c.Decode(shapematch.String("Wed, 01 Jan 2025 10:20:30 GMT"))
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if !got.Equal(time.Date(2025, 1, 1, 10, 20, 30, 0, time.UTC)) {
		t.Fatalf("unexpected time: %v", got)
	}
	out, err := c.Encode(got)
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	if s, _ := out.AsString(); s != "Wed, 01 Jan 2025 10:20:30 GMT" {
		t.Fatalf("unexpected encoding %q", s)
	}
	if err := c.Validate(shapematch.String("2025-01-01T00:00:00Z")); err == nil {
		t.Fatalf("RFC3339 text must not pass as http-date")
	}
}

func TestDateTime_Unix(t *testing.T) {
	c := DateTime(shapematch.DateTimeUnixTimestamp)
	got, err := c.Decode(shapematch.Int(1735689600))
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time: %v", got)
	}
	frac, err := c.Decode(shapematch.Float(1735689600.5))
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if frac.Sub(got) != 500*time.Millisecond {
		t.Fatalf("fraction lost: %v", frac)
	}
	if err := c.Validate(shapematch.String("1735689600")); err == nil {
		t.Fatalf("strings are not unix timestamps")
	}
	out, _ := c.Encode(got)
	if i, _ := out.AsInt(); i != 1735689600 {
		t.Fatalf("unexpected encoding %v", out)
	}
}

func TestDateTime_Unix_RejectsOutOfRange(t *testing.T) {
	c := DateTime(shapematch.DateTimeUnixTimestamp)
	for _, f := range []float64{1e300, -1e300, 9.3e18, math.Inf(1), math.NaN()} {
		err := c.Validate(shapematch.Float(f))
		iss, ok := shapematch.AsIssues(err)
		if !ok || iss[0].Code != shapematch.CodeInvalidFormat {
			t.Fatalf("%v: expected invalid_format, got %v", f, err)
		}
	}
	if err := c.Validate(shapematch.Float(-1.5)); err != nil {
		t.Fatalf("pre-epoch seconds must be accepted: %v", err)
	}
}

func TestDate(t *testing.T) {
	c := Date()
	got, err := c.Decode(shapematch.String("2024-02-29"))
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if got.Year() != 2024 || got.Month() != time.February || got.Day() != 29 {
		t.Fatalf("unexpected date: %v", got)
	}
	if err := c.Validate(shapematch.String("2023-02-29")); err == nil {
		t.Fatalf("expected invalid calendar date to fail")
	}
	if err := c.Validate(shapematch.String("2024-02-29T00:00:00Z")); err == nil {
		t.Fatalf("date-time must not pass as date")
	}
}
