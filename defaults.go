// FILE: lixenwraith/konfig/defaults.go
package konfig

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// applyDefaults fills v from `default` tags and Defaulter implementations.
// v must be addressable.
func applyDefaults(d *Descriptor, v reflect.Value) error {
	for _, f := range d.Fields {
		fv := v.Field(f.index)

		if f.Kind == KindNested {
			if err := applyDefaults(f.Nested, fv); err != nil {
				return err
			}
			continue
		}

		if f.tagged {
			if err := decodeDefaultTag(f.defaultTag, fv); err != nil {
				return fmt.Errorf("%w: field %s (path %s) tag %q: %v", ErrInvalidDefault, f.Name, f.Path, f.defaultTag, err)
			}
		}
	}

	if s, ok := v.Addr().Interface().(Defaulter); ok {
		s.SetDefaults()
	}
	return nil
}

// captureDefaults records the default of every leaf that is tagged or left non-zero.
func captureDefaults(d *Descriptor, v reflect.Value) {
	for _, f := range d.Fields {
		fv := v.Field(f.index)
		if f.Kind == KindNested {
			captureDefaults(f.Nested, fv)
			continue
		}
		if f.tagged || !fv.IsZero() {
			f.hasDefault = true
			f.defaultVal = cloneValue(fv)
			// A tagged empty list is a default of an empty list, not of nil.
			if f.Kind == KindList && f.defaultVal.IsNil() {
				f.defaultVal = reflect.MakeSlice(f.Type, 0, 0)
			}
		}
	}
}

// decodeDefaultTag converts tag text into the field type with the weak decoder,
// so "8080" becomes an int, "30s" a duration and "a,b" a slice.
func decodeDefaultTag(raw string, fv reflect.Value) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           fv.Addr().Interface(),
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	return decoder.Decode(raw)
}
