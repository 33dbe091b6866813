// FILE: lixenwraith/konfig/errors.go
package konfig

import "errors"

// Sentinel errors. Callers match with errors.Is; messages carry the detail.
var (
	// ErrNotStruct is returned when a schema type is not a struct.
	ErrNotStruct = errors.New("schema must be a struct type")
	// ErrUnsupportedType is returned for fields that are neither scalar, list of scalar, nor nested struct.
	ErrUnsupportedType = errors.New("unsupported field type")
	// ErrInvalidKey is returned for keys that cannot be expressed as a TOML key or flag name.
	ErrInvalidKey = errors.New("invalid configuration key")
	// ErrInvalidDefault is returned when a `default` tag cannot be parsed into the field type.
	ErrInvalidDefault = errors.New("invalid default value")
	// ErrMissingField is returned when a required field has no value from any source.
	ErrMissingField = errors.New("missing required field")
	// ErrUnknownKey is returned when a document carries a key the schema does not declare.
	ErrUnknownKey = errors.New("unknown configuration key")
	// ErrInvalidValue is returned when a supplied value cannot be coerced to the declared type.
	ErrInvalidValue = errors.New("invalid value")
	// ErrMalformedDocument is returned when TOML input cannot be parsed.
	ErrMalformedDocument = errors.New("malformed TOML document")
)
