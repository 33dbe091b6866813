// FILE: lixenwraith/konfig/build_test.go
package konfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuild tests instance construction from nested mappings
func TestBuild(t *testing.T) {
	t.Run("DefaultsFillMissingKeys", func(t *testing.T) {
		cfg, err := Build[App](map[string]any{
			"server": map[string]any{"port": 8080},
		})
		require.NoError(t, err)
		assert.Equal(t, &App{Server: Server{Host: "localhost", Port: 8080}, Debug: false}, cfg)
	})

	t.Run("SuppliedValuesWin", func(t *testing.T) {
		cfg, err := Build[App](map[string]any{
			"server": map[string]any{"host": "0.0.0.0", "port": int64(9090)},
			"debug":  true,
		})
		require.NoError(t, err)
		assert.Equal(t, &App{Server: Server{Host: "0.0.0.0", Port: 9090}, Debug: true}, cfg)
	})

	t.Run("NestedDefaultsAreIndependent", func(t *testing.T) {
		cfg, err := Build[Service](map[string]any{
			"name": "billing",
			"database": map[string]any{
				"limits": map[string]any{"max_conns": 50},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, 50, cfg.Database.Limits.MaxConns)
		assert.Equal(t, 30*time.Second, cfg.Database.Limits.Timeout)
		assert.Equal(t, 0.5, cfg.Database.Limits.Ratio)
		assert.Equal(t, "postgres://localhost", cfg.Database.URL)
		assert.Equal(t, []string{"primary", "eu"}, cfg.Database.Tags)
		assert.Equal(t, []int{5432}, cfg.Database.Ports)
		assert.Equal(t, Mode("prod"), cfg.Mode)
		assert.Equal(t, uint8(3), cfg.Level)
	})

	t.Run("TOMLShapedValues", func(t *testing.T) {
		cfg, err := Build[Service](map[string]any{
			"name":  "billing",
			"mode":  "dev",
			"level": int64(9),
			"database": map[string]any{
				"ports":  []any{int64(1), int64(2)},
				"limits": map[string]any{"timeout": "1m30s", "ratio": int64(1)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, Mode("dev"), cfg.Mode)
		assert.Equal(t, uint8(9), cfg.Level)
		assert.Equal(t, []int{1, 2}, cfg.Database.Ports)
		assert.Equal(t, 90*time.Second, cfg.Database.Limits.Timeout)
		assert.Equal(t, 1.0, cfg.Database.Limits.Ratio)
	})

	t.Run("DefaultsAreNotShared", func(t *testing.T) {
		first, err := Build[Service](map[string]any{"name": "a"})
		require.NoError(t, err)
		first.Database.Tags[0] = "mutated"

		second, err := Build[Service](map[string]any{"name": "b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"primary", "eu"}, second.Database.Tags)
	})

	t.Run("InputIsNotModified", func(t *testing.T) {
		input := map[string]any{"server": map[string]any{"port": 1}}
		_, err := Build[App](input)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"server": map[string]any{"port": 1}}, input)
	})
}

// TestBuildErrors tests construction failures
func TestBuildErrors(t *testing.T) {
	t.Run("MissingRequired", func(t *testing.T) {
		_, err := Build[App](map[string]any{"debug": true})
		require.ErrorIs(t, err, ErrMissingField)
		assert.Contains(t, err.Error(), "server.port")

		_, err = Build[App](nil)
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("UnknownKey", func(t *testing.T) {
		_, err := Build[App](map[string]any{
			"server": map[string]any{"port": 1, "hots": "typo"},
			"extra":  1,
		})
		require.ErrorIs(t, err, ErrUnknownKey)
		assert.Contains(t, err.Error(), "server.hots")
		assert.Contains(t, err.Error(), "extra")
	})

	t.Run("NestedNotTable", func(t *testing.T) {
		_, err := Build[App](map[string]any{"server": "localhost:8080"})
		require.ErrorIs(t, err, ErrInvalidValue)
		assert.Contains(t, err.Error(), "server must be a table")
	})

	t.Run("WrongType", func(t *testing.T) {
		_, err := Build[App](map[string]any{
			"server": map[string]any{"port": "eighty"},
		})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("CombinedProblems", func(t *testing.T) {
		_, err := Build[App](map[string]any{"bogus": 1})
		assert.ErrorIs(t, err, ErrMissingField)
		assert.ErrorIs(t, err, ErrUnknownKey)
	})

	t.Run("BadTarget", func(t *testing.T) {
		d, err := Describe[App]()
		require.NoError(t, err)

		var wrong Server
		assert.Error(t, d.Build(map[string]any{}, &wrong))
		assert.Error(t, d.Build(map[string]any{}, App{}))
		assert.Error(t, d.Build(map[string]any{}, (*App)(nil)))
	})

	t.Run("TargetUntouchedOnError", func(t *testing.T) {
		d, err := Describe[App]()
		require.NoError(t, err)

		target := App{Debug: true}
		err = d.Build(map[string]any{"server": map[string]any{"port": "x"}}, &target)
		require.Error(t, err)
		assert.Equal(t, App{Debug: true}, target)
	})
}

type Widths struct {
	I8  int8    `toml:"i8" default:"0"`
	I16 int16   `toml:"i16" default:"0"`
	I32 int32   `toml:"i32" default:"0"`
	I64 int64   `toml:"i64" default:"0"`
	Int int     `toml:"int" default:"0"`
	U8  uint8   `toml:"u8" default:"0"`
	U16 uint16  `toml:"u16" default:"0"`
	U32 uint32  `toml:"u32" default:"0"`
	U64 uint64  `toml:"u64" default:"0"`
	F32 float32 `toml:"f32" default:"0"`
	F64 float64 `toml:"f64" default:"0"`
}

// TestBuildNumericRange tests that document numbers never narrow silently
func TestBuildNumericRange(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{"Int8Max", "i8 = 127", true},
		{"Int8Min", "i8 = -128", true},
		{"Int8Overflow", "i8 = 128", false},
		{"Int8Underflow", "i8 = -129", false},
		{"Int16Overflow", "i16 = 32768", false},
		{"Int32Max", "i32 = 2147483647", true},
		{"Int32Overflow", "i32 = 2147483648", false},
		{"Int64Max", "i64 = 9223372036854775807", true},
		{"Uint8Max", "u8 = 255", true},
		{"Uint8Overflow", "u8 = 256", false},
		{"Uint8Negative", "u8 = -1", false},
		{"Uint16Overflow", "u16 = 65536", false},
		{"Uint32Overflow", "u32 = 4294967296", false},
		{"Uint64Negative", "u64 = -1", false},
		{"FloatWholeToInt", "int = 2.0", true},
		{"FloatFractionToInt", "int = 1.5", false},
		{"FloatFractionToUint", "u16 = 0.5", false},
		{"FloatBeyondInt64", "i64 = 1e20", false},
		{"FloatToInt8Overflow", "i8 = 200.0", false},
		{"NaNToInt", "int = nan", false},
		{"Float32Fits", "f32 = 3.5", true},
		{"Float32Overflow", "f32 = 1e39", false},
		{"Float64Large", "f64 = 1e300", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal[Widths]([]byte(tt.doc))
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidValue)
			}
		})
	}

	t.Run("ValuesKept", func(t *testing.T) {
		cfg, err := Unmarshal[Widths]([]byte("i8 = -128\nu8 = 255\nint = 2.0\nf32 = 3.5"))
		require.NoError(t, err)
		assert.Equal(t, int8(-128), cfg.I8)
		assert.Equal(t, uint8(255), cfg.U8)
		assert.Equal(t, 2, cfg.Int)
		assert.Equal(t, float32(3.5), cfg.F32)
	})

	t.Run("Lists", func(t *testing.T) {
		_, err := Build[Service](map[string]any{
			"name":     "billing",
			"database": map[string]any{"ports": []any{int64(1), 2.5}},
		})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

// TestBuildSchemaRejectsOutOfRange tests that documents and flags reject the same numbers
func TestBuildSchemaRejectsOutOfRange(t *testing.T) {
	t.Run("LevelOverflow", func(t *testing.T) {
		_, err := Unmarshal[Service]([]byte("name = \"x\"\nlevel = 300\n"))
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("FractionalPort", func(t *testing.T) {
		_, err := Unmarshal[App]([]byte("[server]\nport = 8080.7\n"))
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("CommandLineAgrees", func(t *testing.T) {
		_, fileErr := Unmarshal[Service]([]byte("name = \"x\"\nlevel = 300\n"))
		_, flagErr := Parse[Service]([]string{"--name", "x", "--level", "300"})
		assert.ErrorIs(t, fileErr, ErrInvalidValue)
		assert.ErrorIs(t, flagErr, ErrInvalidValue)

		_, fileErr = Unmarshal[App]([]byte("[server]\nport = 8080.7\n"))
		_, flagErr = Parse[App]([]string{"--server.port", "8080.7"})
		assert.ErrorIs(t, fileErr, ErrInvalidValue)
		assert.ErrorIs(t, flagErr, ErrInvalidValue)
	})
}
