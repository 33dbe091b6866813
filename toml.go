// FILE: lixenwraith/konfig/toml.go
package konfig

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/BurntSushi/toml"
)

// ToNested converts a schema instance (struct or pointer to struct) into a nested value mapping.
// Nested schemas become tables, durations their string form, lists []any.
func ToNested(v any) (map[string]any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil %T", ErrNotStruct, v)
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, fmt.Errorf("%w: nil value", ErrNotStruct)
	}

	d, err := DescriptorOf(rv.Type())
	if err != nil {
		return nil, err
	}
	return d.toNested(rv), nil
}

func (d *Descriptor) toNested(rv reflect.Value) map[string]any {
	out := make(map[string]any, len(d.Fields))
	for _, f := range d.Fields {
		fv := rv.Field(f.index)
		switch f.Kind {
		case KindNested:
			out[f.Key] = f.Nested.toNested(fv)
		case KindList:
			// nil and empty both render as an empty array so the key survives encoding
			list := make([]any, fv.Len())
			for i := range list {
				list[i] = scalarValue(fv.Index(i))
			}
			out[f.Key] = list
		default:
			out[f.Key] = scalarValue(fv)
		}
	}
	return out
}

// scalarValue strips named types down to their basic value.
func scalarValue(v reflect.Value) any {
	if v.Type() == durationType {
		return time.Duration(v.Int()).String()
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	return v.Interface()
}

// Marshal renders a schema instance as TOML. Top-level keys are the root field
// keys, nested schemas render as tables and lists as arrays.
func Marshal(v any) ([]byte, error) {
	nested, err := ToNested(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.Indent = ""
	if err := encoder.Encode(nested); err != nil {
		return nil, fmt.Errorf("failed to marshal config data to TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses TOML text into a nested value mapping.
func Decode(data []byte) (map[string]any, error) {
	nested := make(map[string]any)
	if _, err := toml.Decode(string(data), &nested); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return nested, nil
}

// Unmarshal parses TOML text and builds schema T from it.
func Unmarshal[T any](data []byte) (*T, error) {
	nested, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Build[T](nested)
}

// Print writes the TOML form of v to w.
func Print(w io.Writer, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
