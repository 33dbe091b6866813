// FILE: lixenwraith/konfig/descriptor.go
package konfig

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
)

// Struct tags read from schema fields.
const (
	TagKey     = "toml"    // key name, "-" skips the field
	TagDefault = "default" // default value, comma separated for lists
	TagHelp    = "help"    // help text shown on the command line
)

// FieldKind classifies a schema field. Every field has exactly one kind.
type FieldKind int

const (
	KindScalar FieldKind = iota // string, bool, numbers, time.Duration
	KindList                    // slice of a scalar
	KindNested                  // struct holding another schema
)

// String returns a human-readable representation of the FieldKind.
func (k FieldKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindNested:
		return "nested"
	default:
		return "unknown"
	}
}

// Defaulter is implemented by schema structs that compute defaults in code.
// SetDefaults runs on a zero value after `default` tags are applied, nested
// structs before their parent.
type Defaulter interface {
	SetDefaults()
}

// Field describes one declared field of a schema.
type Field struct {
	Name   string       // Go field name
	Key    string       // TOML key
	Path   string       // dotted path from the root schema
	Kind   FieldKind    // classification
	Type   reflect.Type // declared Go type
	Elem   reflect.Type // element type, KindList only
	Help   string       // `help` tag content
	Nested *Descriptor  // KindNested only

	index      int
	defaultTag string
	tagged     bool
	defaultVal reflect.Value
	hasDefault bool
}

// HasDefault reports whether the field declares a default.
func (f *Field) HasDefault() bool {
	return f.hasDefault
}

// Required reports whether a value must be supplied for the field.
// Nested fields are never required themselves, only their leaves.
func (f *Field) Required() bool {
	return f.Kind != KindNested && !f.hasDefault
}

// Default returns a copy of the field default, or nil when there is none.
func (f *Field) Default() any {
	if !f.hasDefault {
		return nil
	}
	return cloneValue(f.defaultVal).Interface()
}

// Descriptor is the derived metadata of a schema struct type.
// It is built once per type and never modified afterwards.
type Descriptor struct {
	Type   reflect.Type
	Name   string   // type name, used for the template file name
	Path   string   // dotted path of this schema within the root, empty for the root
	Fields []*Field // declaration order

	byKey map[string]*Field
}

var (
	descriptorCache sync.Map // reflect.Type -> *Descriptor

	durationType = reflect.TypeOf((*time.Duration)(nil)).Elem()
	timeType     = reflect.TypeOf((*time.Time)(nil)).Elem()

	listElemTypes = map[reflect.Type]bool{
		reflect.TypeOf((*string)(nil)).Elem():  true,
		reflect.TypeOf((*bool)(nil)).Elem():    true,
		reflect.TypeOf((*int)(nil)).Elem():     true,
		reflect.TypeOf((*int32)(nil)).Elem():   true,
		reflect.TypeOf((*int64)(nil)).Elem():   true,
		reflect.TypeOf((*uint)(nil)).Elem():    true,
		reflect.TypeOf((*float32)(nil)).Elem(): true,
		reflect.TypeOf((*float64)(nil)).Elem(): true,
		durationType:               true,
	}
)

// Describe returns the descriptor of schema type T.
func Describe[T any]() (*Descriptor, error) {
	return DescriptorOf(reflect.TypeOf((*T)(nil)).Elem())
}

// DescriptorOf returns the descriptor of a schema struct type.
// Results are cached; concurrent first calls may compute the same descriptor twice
// and one of them wins.
func DescriptorOf(t reflect.Type) (*Descriptor, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrNotStruct)
	}
	if cached, ok := descriptorCache.Load(t); ok {
		return cached.(*Descriptor), nil
	}
	if t.Kind() != reflect.Struct || t == timeType {
		return nil, fmt.Errorf("%w: got %s", ErrNotStruct, t)
	}

	d, err := describeStruct(t, "")
	if err != nil {
		return nil, err
	}

	defaults := reflect.New(t).Elem()
	if err := applyDefaults(d, defaults); err != nil {
		return nil, err
	}
	captureDefaults(d, defaults)

	actual, _ := descriptorCache.LoadOrStore(t, d)
	return actual.(*Descriptor), nil
}

// describeStruct classifies the exported fields of t.
func describeStruct(t reflect.Type, prefix string) (*Descriptor, error) {
	d := &Descriptor{
		Type:  t,
		Name:  t.Name(),
		Path:  prefix,
		byKey: make(map[string]*Field),
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		key := sf.Name
		if tag := sf.Tag.Get(TagKey); tag != "" {
			name, _, _ := strings.Cut(tag, ",")
			if name == "-" {
				continue
			}
			if name != "" {
				key = name
			}
		}

		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if !isValidKeySegment(key) {
			return nil, fmt.Errorf("%w: %q (field %s.%s)", ErrInvalidKey, key, t.Name(), sf.Name)
		}
		if _, dup := d.byKey[key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q in %s", ErrInvalidKey, path, t.Name())
		}

		kind, elem, err := classify(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s (path %s): %w", sf.Name, path, err)
		}

		f := &Field{
			Name:  sf.Name,
			Key:   key,
			Path:  path,
			Kind:  kind,
			Type:  sf.Type,
			Elem:  elem,
			Help:  sf.Tag.Get(TagHelp),
			index: i,
		}
		f.defaultTag, f.tagged = sf.Tag.Lookup(TagDefault)

		if kind == KindNested {
			if f.tagged {
				return nil, fmt.Errorf("%w: field %s (path %s) is a nested schema and cannot carry a default tag",
					ErrInvalidDefault, sf.Name, path)
			}
			if f.Nested, err = describeStruct(sf.Type, path); err != nil {
				return nil, err
			}
		}

		d.Fields = append(d.Fields, f)
		d.byKey[key] = f
	}

	return d, nil
}

func classify(t reflect.Type) (FieldKind, reflect.Type, error) {
	switch {
	case isScalarType(t):
		return KindScalar, nil, nil
	case t.Kind() == reflect.Slice && listElemTypes[t.Elem()]:
		return KindList, t.Elem(), nil
	case t.Kind() == reflect.Struct && t != timeType:
		return KindNested, nil, nil
	}
	return 0, nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

func isScalarType(t reflect.Type) bool {
	if t == durationType {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Lookup finds a field by its dotted path relative to d.
func (d *Descriptor) Lookup(path string) (*Field, bool) {
	head, rest, more := strings.Cut(path, ".")
	f, ok := d.byKey[head]
	if !ok {
		return nil, false
	}
	if !more {
		return f, true
	}
	if f.Kind != KindNested {
		return nil, false
	}
	return f.Nested.Lookup(rest)
}

// Field returns the field declared under key, without descending.
func (d *Descriptor) Field(key string) (*Field, bool) {
	f, ok := d.byKey[key]
	return f, ok
}

// Defaults returns the nested value mapping of every declared default.
// Nested schemas always appear as tables, even when none of their leaves has a default.
func (d *Descriptor) Defaults() map[string]any {
	out := make(map[string]any, len(d.Fields))
	for _, f := range d.Fields {
		switch {
		case f.Kind == KindNested:
			out[f.Key] = f.Nested.Defaults()
		case f.hasDefault:
			out[f.Key] = f.Default()
		}
	}
	return out
}

// RequiredPaths lists the dotted paths of every leaf without a default.
func (d *Descriptor) RequiredPaths() []string {
	var paths []string
	for _, f := range d.Fields {
		if f.Kind == KindNested {
			paths = append(paths, f.Nested.RequiredPaths()...)
		} else if f.Required() {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

func cloneValue(v reflect.Value) reflect.Value {
	if v.Kind() != reflect.Slice || v.IsNil() {
		return v
	}
	c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(c, v)
	return c
}
