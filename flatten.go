// FILE: lixenwraith/konfig/flatten.go
package konfig

import (
	"fmt"
	"reflect"
	"strings"
)

// Arity is the number of values a flag accepts.
type Arity int

const (
	ArityOne  Arity = iota // a single value
	ArityMany              // a list, parameterized by element type
)

// String returns a human-readable representation of the Arity.
func (a Arity) String() string {
	if a == ArityMany {
		return "many"
	}
	return "one"
}

// FlagSpec describes the command-line flag derived from one schema leaf.
type FlagSpec struct {
	Name       string       // external name, e.g. "server.max-conns"
	Path       string       // schema path, e.g. "server.max_conns"
	Type       reflect.Type // declared field type
	Elem       reflect.Type // element type when Arity is ArityMany
	Arity      Arity
	Default    any
	HasDefault bool
	Help       string // field help, with " (default=<value>)" appended when a default exists
}

// Required reports whether the flag must be given.
func (s FlagSpec) Required() bool {
	return !s.HasDefault
}

// FlagSpecs returns one flag spec per leaf of d, in declaration order.
func (d *Descriptor) FlagSpecs() []FlagSpec {
	return d.Flatten("")
}

// Flatten returns the flag specs of every leaf of d, keyed under prefix.
func (d *Descriptor) Flatten(prefix string) []FlagSpec {
	var specs []FlagSpec
	for _, f := range d.Fields {
		if f.Kind == KindNested {
			specs = append(specs, f.Nested.Flatten(prefix)...)
			continue
		}

		path := f.Path
		if prefix != "" {
			path = prefix + "." + path
		}

		spec := FlagSpec{
			Name:       FlagName(path),
			Path:       path,
			Type:       f.Type,
			Arity:      ArityOne,
			Default:    f.Default(),
			HasDefault: f.hasDefault,
			Help:       f.Help,
		}
		if f.Kind == KindList {
			spec.Arity = ArityMany
			spec.Elem = f.Elem
		}
		if spec.HasDefault {
			suffix := fmt.Sprintf("(default=%v)", spec.Default)
			if spec.Help == "" {
				spec.Help = suffix
			} else {
				spec.Help += " " + suffix
			}
		}
		specs = append(specs, spec)
	}
	return specs
}

// FlagName renders a dotted path as an external flag name.
func FlagName(path string) string {
	return strings.ReplaceAll(path, "_", "-")
}

// FlattenMap converts a nested map[string]any to a flat map[string]any with dot-notation paths.
func FlattenMap(nested map[string]any) map[string]any {
	return flattenMap(nested, "")
}

func flattenMap(nested map[string]any, prefix string) map[string]any {
	flat := make(map[string]any)

	for key, value := range nested {
		newPath := key
		if prefix != "" {
			newPath = prefix + "." + key
		}

		if nestedMap, isMap := value.(map[string]any); isMap {
			for subPath, subValue := range flattenMap(nestedMap, newPath) {
				flat[subPath] = subValue
			}
		} else {
			flat[newPath] = value
		}
	}

	return flat
}

// UnflattenMap converts a flat dot-notation map back into nested maps.
func UnflattenMap(flat map[string]any) map[string]any {
	nested := make(map[string]any)
	for path, value := range flat {
		SetPath(nested, path, value)
	}
	return nested
}

// SetPath sets a value in a nested map using a dot-notation path.
// It creates intermediate maps if they don't exist.
// If a segment exists but is not a map, it will be overwritten by a new map.
func SetPath(nested map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	current := nested

	for i := 0; i < len(segments)-1; i++ {
		segment := segments[i]

		if nextMap, isMap := current[segment].(map[string]any); isMap {
			current = nextMap
			continue
		}
		newMap := make(map[string]any)
		current[segment] = newMap
		current = newMap
	}

	current[segments[len(segments)-1]] = value
}

// GetPath traverses a nested map to reach the specified path.
func GetPath(nested map[string]any, path string) (any, bool) {
	path = strings.TrimSuffix(path, ".")
	if path == "" {
		return nested, true
	}

	current := any(nested)
	for _, segment := range strings.Split(path, ".") {
		currentMap, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		value, exists := currentMap[segment]
		if !exists {
			return nil, false
		}
		current = value
	}
	return current, true
}

// isValidKeySegment checks if a single path segment is a valid TOML bare key.
func isValidKeySegment(s string) bool {
	if len(s) == 0 {
		return false
	}

	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isUnderscore := r == '_'
		isDash := r == '-'

		if !(isLetter || isDigit || isUnderscore || isDash) {
			return false
		}
	}
	return true
}
