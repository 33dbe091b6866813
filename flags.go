// FILE: lixenwraith/konfig/flags.go
package konfig

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

var basicTypes = map[reflect.Kind]reflect.Type{
	reflect.String:  reflect.TypeOf((*string)(nil)).Elem(),
	reflect.Bool:    reflect.TypeOf((*bool)(nil)).Elem(),
	reflect.Int:     reflect.TypeOf((*int)(nil)).Elem(),
	reflect.Int8:    reflect.TypeOf((*int8)(nil)).Elem(),
	reflect.Int16:   reflect.TypeOf((*int16)(nil)).Elem(),
	reflect.Int32:   reflect.TypeOf((*int32)(nil)).Elem(),
	reflect.Int64:   reflect.TypeOf((*int64)(nil)).Elem(),
	reflect.Uint:    reflect.TypeOf((*uint)(nil)).Elem(),
	reflect.Uint8:   reflect.TypeOf((*uint8)(nil)).Elem(),
	reflect.Uint16:  reflect.TypeOf((*uint16)(nil)).Elem(),
	reflect.Uint32:  reflect.TypeOf((*uint32)(nil)).Elem(),
	reflect.Uint64:  reflect.TypeOf((*uint64)(nil)).Elem(),
	reflect.Float32: reflect.TypeOf((*float32)(nil)).Elem(),
	reflect.Float64: reflect.TypeOf((*float64)(nil)).Elem(),
}

// flagTarget views p (a pointer to a field value) as a pointer to the
// predeclared type pflag knows, so named types like `type Mode string` bind too.
func flagTarget(p reflect.Value) any {
	t := p.Type().Elem()
	canonical := t
	switch {
	case t == durationType:
	case t.Kind() == reflect.Slice:
		canonical = reflect.SliceOf(t.Elem())
	default:
		if basic, ok := basicTypes[t.Kind()]; ok {
			canonical = basic
		}
	}
	return p.Convert(reflect.PointerTo(canonical)).Interface()
}

// registerFlag defines a flag named name on fs, storing into p.
func registerFlag(fs *pflag.FlagSet, name, usage string, p reflect.Value) error {
	switch ptr := flagTarget(p).(type) {
	case *string:
		fs.StringVar(ptr, name, *ptr, usage)
	case *bool:
		fs.BoolVar(ptr, name, *ptr, usage)
	case *int:
		fs.IntVar(ptr, name, *ptr, usage)
	case *int8:
		fs.Int8Var(ptr, name, *ptr, usage)
	case *int16:
		fs.Int16Var(ptr, name, *ptr, usage)
	case *int32:
		fs.Int32Var(ptr, name, *ptr, usage)
	case *int64:
		fs.Int64Var(ptr, name, *ptr, usage)
	case *uint:
		fs.UintVar(ptr, name, *ptr, usage)
	case *uint8:
		fs.Uint8Var(ptr, name, *ptr, usage)
	case *uint16:
		fs.Uint16Var(ptr, name, *ptr, usage)
	case *uint32:
		fs.Uint32Var(ptr, name, *ptr, usage)
	case *uint64:
		fs.Uint64Var(ptr, name, *ptr, usage)
	case *float32:
		fs.Float32Var(ptr, name, *ptr, usage)
	case *float64:
		fs.Float64Var(ptr, name, *ptr, usage)
	case *time.Duration:
		fs.DurationVar(ptr, name, *ptr, usage)
	case *[]string:
		fs.StringSliceVar(ptr, name, *ptr, usage)
	case *[]bool:
		fs.BoolSliceVar(ptr, name, *ptr, usage)
	case *[]int:
		fs.IntSliceVar(ptr, name, *ptr, usage)
	case *[]int32:
		fs.Int32SliceVar(ptr, name, *ptr, usage)
	case *[]int64:
		fs.Int64SliceVar(ptr, name, *ptr, usage)
	case *[]uint:
		fs.UintSliceVar(ptr, name, *ptr, usage)
	case *[]float32:
		fs.Float32SliceVar(ptr, name, *ptr, usage)
	case *[]float64:
		fs.Float64SliceVar(ptr, name, *ptr, usage)
	case *[]time.Duration:
		fs.DurationSliceVar(ptr, name, *ptr, usage)
	default:
		return fmt.Errorf("%w: %s has no flag representation", ErrUnsupportedType, p.Type().Elem())
	}

	return nil
}

// flagUsages renders fs like pflag's FlagUsages minus pflag's own
// "(default ...)" text; schema flags carry "(default=...)" in their usage.
func flagUsages(fs *pflag.FlagSet) string {
	var heads, usages []string
	maxLen := 0

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}

		head := "      --" + f.Name
		if f.Shorthand != "" && f.ShorthandDeprecated == "" {
			head = fmt.Sprintf("  -%s, --%s", f.Shorthand, f.Name)
		}
		varname, usage := pflag.UnquoteUsage(f)
		if varname != "" {
			head += " " + varname
		}

		heads = append(heads, head)
		usages = append(usages, usage)
		maxLen = max(maxLen, len(head))
	})

	var b strings.Builder
	for i, head := range heads {
		fmt.Fprintf(&b, "%s%s   %s\n", head, strings.Repeat(" ", maxLen-len(head)), usages[i])
	}
	return b.String()
}
