// Package json is the codec behind request and response bodies. It wraps
// bytedance/sonic with the standard library's API shape so callers can swap
// imports without code changes.
package json

import (
	stdjson "encoding/json"

	"github.com/bytedance/sonic"
)

// std mirrors encoding/json behavior (HTML escaping, sorted map keys) so the
// bytes we put on the wire are deterministic.
var std = sonic.ConfigStd

// numbers decodes untyped numbers as Number so re-encoding a document does
// not lose integer precision.
var numbers = sonic.Config{
	EscapeHTML:       true,
	SortMapKeys:      true,
	CompactMarshaler: true,
	CopyString:       true,
	ValidateString:   true,
	UseNumber:        true,
}.Froze()

// Marshal returns the JSON encoding of v.
func Marshal(v any) ([]byte, error) {
	return std.Marshal(v)
}

// MarshalIndent is like Marshal but applies Indent to format the output.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return std.MarshalIndent(v, prefix, indent)
}

// Unmarshal parses the JSON-encoded data and stores the result in v.
func Unmarshal(data []byte, v any) error {
	return std.Unmarshal(data, v)
}

// UnmarshalGeneric decodes data into an untyped tree (maps, slices, Number,
// string, bool, nil). Numbers are kept as Number.
func UnmarshalGeneric(data []byte) (any, error) {
	var v any
	if err := numbers.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Valid reports whether data is a valid JSON encoding.
func Valid(data []byte) bool {
	return sonic.Valid(data)
}

type (
	// RawMessage is a raw encoded JSON value.
	RawMessage = stdjson.RawMessage

	// Number represents a JSON number literal.
	Number = stdjson.Number

	// Marshaler is the interface for types that can marshal themselves into valid JSON.
	Marshaler = stdjson.Marshaler

	// Unmarshaler is the interface for types that can unmarshal a JSON description of themselves.
	Unmarshaler = stdjson.Unmarshaler

	// SyntaxError is a description of a JSON syntax error.
	SyntaxError = stdjson.SyntaxError

	// UnmarshalTypeError describes a JSON value that was not appropriate for a Go type.
	UnmarshalTypeError = stdjson.UnmarshalTypeError
)
