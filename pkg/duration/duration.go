package duration

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration wraps time.Duration with JSON marshalling that reads Go
// duration strings ("36h", "1.5h") and writes time.Duration.String()
// form ("36h0m0s") instead of raw nanoseconds, so dispatch responses
// stay human-readable.
type Duration struct {
	time.Duration
}

// ErrInvalidInput is returned when the JSON value being unmarshalled
// into a Duration is neither a number nor a duration string.
var ErrInvalidInput = fmt.Errorf("cannot unmarshal value into duration")

// NewDuration wraps a time.Duration.
func NewDuration(d time.Duration) Duration {
	return Duration{Duration: d}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		d.Duration = time.Duration(v)
		return nil
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return ErrInvalidInput
	}
}
