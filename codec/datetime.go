package codec

import (
	"math"
	"strings"
	"time"

	"github.com/itchyny/timefmt-go"

	shapematch "github.com/reoring/shapematch"
	"github.com/reoring/shapematch/i18n"
)

// TimeCodec converts between a date or date-time wire value and time.Time.
type TimeCodec interface {
	// Format names the wire format, e.g. "rfc3339".
	Format() string
	// Validate reports whether v has the codec's wire form.
	Validate(v shapematch.Value) error
	Decode(v shapematch.Value) (time.Time, error)
	Encode(t time.Time) (shapematch.Value, error)
}

// DateTime returns the codec for f. DateTimeUnspecified selects RFC3339.
func DateTime(f shapematch.DateTimeFormat) TimeCodec {
	switch f {
	case shapematch.DateTimeHTTPDate:
		return httpDateCodec{}
	case shapematch.DateTimeUnixTimestamp:
		return unixCodec{}
	default:
		return rfc3339Codec{}
	}
}

type rfc3339Codec struct{}

func (rfc3339Codec) Format() string { return "rfc3339" }

func (c rfc3339Codec) Validate(v shapematch.Value) error {
	_, err := c.Decode(v)
	return err
}

func (c rfc3339Codec) Decode(v shapematch.Value) (time.Time, error) {
	s, ok := v.AsString()
	if !ok {
		return time.Time{}, formatIssue(c.Format(), nil)
	}
	t, err := parseRFC3339(s)
	if err != nil {
		return time.Time{}, formatIssue(c.Format(), err)
	}
	return t, nil
}

func (rfc3339Codec) Encode(t time.Time) (shapematch.Value, error) {
	return shapematch.String(formatRFC3339Canonical(t)), nil
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}

// httpDateLayout is the IMF-fixdate form of RFC 9110.
const httpDateLayout = "%a, %d %b %Y %H:%M:%S GMT"

type httpDateCodec struct{}

func (httpDateCodec) Format() string { return "http-date" }

func (c httpDateCodec) Validate(v shapematch.Value) error {
	_, err := c.Decode(v)
	return err
}

func (c httpDateCodec) Decode(v shapematch.Value) (time.Time, error) {
	s, ok := v.AsString()
	if !ok || !strings.HasSuffix(s, " GMT") {
		return time.Time{}, formatIssue(c.Format(), nil)
	}
	t, err := timefmt.Parse(s, httpDateLayout)
	if err != nil {
		return time.Time{}, formatIssue(c.Format(), err)
	}
	return t.UTC(), nil
}

func (httpDateCodec) Encode(t time.Time) (shapematch.Value, error) {
	return shapematch.String(timefmt.Format(t.UTC(), httpDateLayout)), nil
}

type unixCodec struct{}

func (unixCodec) Format() string { return "unix-timestamp" }

func (c unixCodec) Validate(v shapematch.Value) error {
	_, err := c.Decode(v)
	return err
}

// Decode accepts integral seconds or fractional seconds since the epoch.
// Fractional seconds must lie within the int64 range.
func (c unixCodec) Decode(v shapematch.Value) (time.Time, error) {
	if i, ok := v.AsInt(); ok {
		return time.Unix(i, 0).UTC(), nil
	}
	if f, ok := v.AsFloat(); ok && !math.IsNaN(f) && f >= -(1<<63) && f < 1<<63 {
		sec, frac := math.Modf(f)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
	}
	return time.Time{}, formatIssue(c.Format(), nil)
}

func (unixCodec) Encode(t time.Time) (shapematch.Value, error) {
	return shapematch.Int(t.Unix()), nil
}

func formatIssue(format string, cause error) error {
	return shapematch.Issues{{
		Path:    "/",
		Code:    shapematch.CodeInvalidFormat,
		Message: i18n.T(shapematch.CodeInvalidFormat, map[string]string{"expected": format}),
		Cause:   cause,
		Params:  map[string]any{"expected": format},
	}}
}
