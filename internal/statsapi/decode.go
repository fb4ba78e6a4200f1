package statsapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Validator is implemented by payload types that carry invariants beyond
// their JSON shape.
type Validator interface {
	Validate() error
}

// ErrorMessage reports the message of an error envelope. Only JSON objects
// with a non-empty string "error" field count; arrays and other shapes
// never do.
func ErrorMessage(body []byte) (string, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", false
	}
	var env struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return "", false
	}
	if env.Error == nil || *env.Error == "" {
		return "", false
	}
	return *env.Error, true
}

// Decode parses body into v and runs its Validate method when v implements
// Validator. An empty body, trailing data or a type mismatch is an error.
func Decode(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New("empty response body")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("decode: unexpected trailing data")
	}
	if val, ok := v.(Validator); ok {
		if err := val.Validate(); err != nil {
			return fmt.Errorf("validate: %w", err)
		}
	}
	return nil
}
