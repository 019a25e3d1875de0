package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// marshalString encodes s without HTML escaping so arrows stay readable.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// MarshalJSON encodes a symbol as a one-character string.
func (s Symbol) MarshalJSON() ([]byte, error) {
	return marshalString(string(s))
}

// UnmarshalJSON decodes a one-character string.
func (s *Symbol) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if utf8.RuneCountInString(str) != 1 {
		return fmt.Errorf("symbol must be exactly one character, got %q", str)
	}
	r, _ := utf8.DecodeRuneInString(str)
	*s = Symbol(r)
	return nil
}

// MarshalJSON encodes a direction as its arrow.
func (d Direction) MarshalJSON() ([]byte, error) {
	return marshalString(d.Arrow())
}

// UnmarshalJSON decodes "<" or ">".
func (d *Direction) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseArrow(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
