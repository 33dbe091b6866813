// FILE: lixenwraith/konfig/flatten_test.go
package konfig

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFlagSpecs tests flag spec derivation from descriptors
func TestFlagSpecs(t *testing.T) {
	t.Run("NamesAndOrder", func(t *testing.T) {
		d, err := Describe[Service]()
		require.NoError(t, err)

		var names, paths []string
		for _, spec := range d.FlagSpecs() {
			names = append(names, spec.Name)
			paths = append(paths, spec.Path)
		}
		assert.Equal(t, []string{
			"name", "mode", "level",
			"database.url", "database.tags", "database.ports",
			"database.limits.max-conns", "database.limits.timeout", "database.limits.ratio",
		}, names)
		assert.Contains(t, paths, "database.limits.max_conns")
	})

	t.Run("HelpCarriesDefault", func(t *testing.T) {
		d, err := Describe[App]()
		require.NoError(t, err)

		specs := map[string]FlagSpec{}
		for _, spec := range d.FlagSpecs() {
			specs[spec.Name] = spec
		}

		assert.Equal(t, "address to bind (default=localhost)", specs["server.host"].Help)
		assert.Equal(t, "port to listen on", specs["server.port"].Help)
		assert.Equal(t, "(default=false)", specs["debug"].Help)

		assert.True(t, specs["server.port"].Required())
		assert.Nil(t, specs["server.port"].Default)
		assert.False(t, specs["server.host"].Required())
		assert.Equal(t, "localhost", specs["server.host"].Default)
	})

	t.Run("Arity", func(t *testing.T) {
		d, err := Describe[Service]()
		require.NoError(t, err)

		for _, spec := range d.FlagSpecs() {
			switch spec.Name {
			case "database.tags":
				assert.Equal(t, ArityMany, spec.Arity)
				assert.Equal(t, reflect.TypeOf((*string)(nil)).Elem(), spec.Elem)
				assert.Equal(t, "(default=[primary eu])", spec.Help)
			case "database.ports":
				assert.Equal(t, ArityMany, spec.Arity)
				assert.Equal(t, reflect.TypeOf((*int)(nil)).Elem(), spec.Elem)
			default:
				assert.Equal(t, ArityOne, spec.Arity, spec.Name)
				assert.Nil(t, spec.Elem, spec.Name)
			}
		}
		assert.Equal(t, "many", ArityMany.String())
		assert.Equal(t, "one", ArityOne.String())
	})

	t.Run("Prefix", func(t *testing.T) {
		d, err := Describe[App]()
		require.NoError(t, err)

		specs := d.Flatten("cluster_a")
		require.Len(t, specs, 3)
		assert.Equal(t, "cluster-a.server.host", specs[0].Name)
		assert.Equal(t, "cluster_a.server.host", specs[0].Path)
	})
}

// TestFlattenMap tests conversion between nested and flat mappings
func TestFlattenMap(t *testing.T) {
	nested := map[string]any{
		"debug": true,
		"server": map[string]any{
			"host": "localhost",
			"port": int64(8080),
			"tls": map[string]any{
				"enabled": false,
			},
		},
		"tags": []any{"a", "b"},
	}

	flat := FlattenMap(nested)
	assert.Equal(t, map[string]any{
		"debug":              true,
		"server.host":        "localhost",
		"server.port":        int64(8080),
		"server.tls.enabled": false,
		"tags":               []any{"a", "b"},
	}, flat)

	assert.Equal(t, nested, UnflattenMap(flat))
}

// TestFlattenSchemaDefaults tests the flatten/unflatten inverse on schema shaped mappings
func TestFlattenSchemaDefaults(t *testing.T) {
	d, err := Describe[Service]()
	require.NoError(t, err)

	defaults := d.Defaults()
	assert.Equal(t, defaults, UnflattenMap(FlattenMap(defaults)))
}

func TestSetPath(t *testing.T) {
	t.Run("CreatesIntermediateMaps", func(t *testing.T) {
		m := map[string]any{}
		SetPath(m, "a.b.c", 1)
		assert.Equal(t, map[string]any{"a": map[string]any{"b": map[string]any{"c": 1}}}, m)
	})

	t.Run("OverwritesNonMapSegment", func(t *testing.T) {
		m := map[string]any{"a": "scalar"}
		SetPath(m, "a.b", 2)
		assert.Equal(t, map[string]any{"a": map[string]any{"b": 2}}, m)
	})

	t.Run("KeepsSiblings", func(t *testing.T) {
		m := map[string]any{}
		SetPath(m, "server.host", "h")
		SetPath(m, "server.port", 1)
		assert.Equal(t, map[string]any{"server": map[string]any{"host": "h", "port": 1}}, m)
	})
}

func TestGetPath(t *testing.T) {
	m := map[string]any{"server": map[string]any{"port": 8080}}

	v, ok := GetPath(m, "server.port")
	assert.True(t, ok)
	assert.Equal(t, 8080, v)

	v, ok = GetPath(m, "server.")
	assert.True(t, ok)
	assert.Equal(t, map[string]any{"port": 8080}, v)

	_, ok = GetPath(m, "server.port.deeper")
	assert.False(t, ok)
	_, ok = GetPath(m, "client")
	assert.False(t, ok)

	v, ok = GetPath(m, "")
	assert.True(t, ok)
	assert.Equal(t, m, v)
}

func TestFlagName(t *testing.T) {
	assert.Equal(t, "server.max-conns", FlagName("server.max_conns"))
	assert.Equal(t, "debug", FlagName("debug"))
}
