// FILE: lixenwraith/konfig/build.go
package konfig

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Build instantiates schema T from a nested value mapping.
// Declared defaults fill keys the mapping does not carry.
func Build[T any](nested map[string]any) (*T, error) {
	d, err := Describe[T]()
	if err != nil {
		return nil, err
	}

	out := new(T)
	if err := d.Build(nested, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Build decodes nested, layered over the descriptor defaults, into target.
// target must be a non-nil pointer to the descriptor type. On error target is left untouched.
func (d *Descriptor) Build(nested map[string]any, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Type() != d.Type {
		return fmt.Errorf("build target must be a non-nil *%s, got %T", d.Type, target)
	}

	merged := mergeMaps(d.Defaults(), nested)
	if err := d.check(merged); err != nil {
		return err
	}

	result := reflect.New(d.Type)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     result.Interface(),
		TagName:    TagKey,
		DecodeHook: decodeHook(),
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	if err := decoder.Decode(merged); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidValue, d.Name, err)
	}

	rv.Elem().Set(result.Elem())
	return nil
}

// decodeHook returns the hooks applied while building. Values are not weakly
// typed: a string never becomes a number here.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		numericRangeHookFunc(),
	)
}

// numericRangeHookFunc rejects numbers the target type cannot hold exactly.
// TOML carries int64 and float64; mapstructure would otherwise truncate them.
func numericRangeHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		v := reflect.ValueOf(data)
		if !v.IsValid() {
			return data, nil
		}
		zero := reflect.Zero(to)

		var ok bool
		switch to.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			switch from.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				ok = !zero.OverflowInt(v.Int())
			case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
				ok = v.Uint() <= math.MaxInt64 && !zero.OverflowInt(int64(v.Uint()))
			case reflect.Float32, reflect.Float64:
				f := v.Float()
				ok = f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 && !zero.OverflowInt(int64(f))
			default:
				return data, nil
			}
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			switch from.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				ok = v.Int() >= 0 && !zero.OverflowUint(uint64(v.Int()))
			case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
				ok = !zero.OverflowUint(v.Uint())
			case reflect.Float32, reflect.Float64:
				f := v.Float()
				ok = f == math.Trunc(f) && f >= 0 && f < math.MaxUint64 && !zero.OverflowUint(uint64(f))
			default:
				return data, nil
			}
		case reflect.Float32:
			switch from.Kind() {
			case reflect.Float32, reflect.Float64:
				ok = !zero.OverflowFloat(v.Float())
			default:
				return data, nil
			}
		default:
			return data, nil
		}

		if !ok {
			return nil, fmt.Errorf("%w: %v does not fit in %s", ErrInvalidValue, data, to)
		}
		return data, nil
	}
}

type buildProblems struct {
	missing []string
	unknown []string
	invalid []string
}

// check walks the merged mapping against the schema.
func (d *Descriptor) check(nested map[string]any) error {
	var p buildProblems
	d.collectProblems(nested, &p)

	var errs []error
	if len(p.missing) > 0 {
		sort.Strings(p.missing)
		errs = append(errs, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(p.missing, ", ")))
	}
	if len(p.unknown) > 0 {
		sort.Strings(p.unknown)
		errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(p.unknown, ", ")))
	}
	if len(p.invalid) > 0 {
		sort.Strings(p.invalid)
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidValue, strings.Join(p.invalid, ", ")))
	}
	return errors.Join(errs...)
}

func (d *Descriptor) collectProblems(nested map[string]any, p *buildProblems) {
	for key := range nested {
		if _, ok := d.byKey[key]; !ok {
			path := key
			if d.Path != "" {
				path = d.Path + "." + key
			}
			p.unknown = append(p.unknown, path)
		}
	}

	for _, f := range d.Fields {
		value, present := nested[f.Key]
		if f.Kind == KindNested {
			sub, ok := value.(map[string]any)
			if !ok {
				p.invalid = append(p.invalid, fmt.Sprintf("%s must be a table, got %T", f.Path, value))
				continue
			}
			f.Nested.collectProblems(sub, p)
			continue
		}
		if !present || value == nil {
			p.missing = append(p.missing, f.Path)
		}
	}
}

// mergeMaps layers over onto base. base is modified; over is not.
func mergeMaps(base, over map[string]any) map[string]any {
	for key, value := range over {
		if overMap, ok := value.(map[string]any); ok {
			baseMap, ok := base[key].(map[string]any)
			if !ok {
				baseMap = make(map[string]any, len(overMap))
			}
			base[key] = mergeMaps(baseMap, overMap)
			continue
		}
		base[key] = value
	}
	return base
}
