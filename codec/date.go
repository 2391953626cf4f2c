package codec

import (
	"time"

	shapematch "github.com/reoring/shapematch"
)

// Date returns the codec for calendar dates written as YYYY-MM-DD. Decoded
// dates are midnight UTC.
func Date() TimeCodec { return dateCodec{} }

type dateCodec struct{}

func (dateCodec) Format() string { return "date" }

func (c dateCodec) Validate(v shapematch.Value) error {
	_, err := c.Decode(v)
	return err
}

func (c dateCodec) Decode(v shapematch.Value) (time.Time, error) {
	s, ok := v.AsString()
	if !ok {
		return time.Time{}, formatIssue(c.Format(), nil)
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, formatIssue(c.Format(), err)
	}
	return t, nil
}

func (dateCodec) Encode(t time.Time) (shapematch.Value, error) {
	return shapematch.String(t.Format(time.DateOnly)), nil
}
