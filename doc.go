// FILE: lixenwraith/konfig/doc.go

// Package konfig derives a command line, TOML serialization and defaulted
// construction from a single configuration struct.
//
// Features:
//   - One schema: keys, defaults and help text live on the struct fields
//   - Nested structs compose into TOML tables and dotted flag names
//   - Command-line surface on spf13/pflag, with cobra integration
//   - TOML round-tripping through BurntSushi/toml
//   - Template generation with --template, file loading with --from-toml
//   - Descriptors derived once per type and cached
//
// Quick Start:
//
//	type Server struct {
//	    Host string `toml:"host" default:"localhost" help:"address to bind"`
//	    Port int    `toml:"port" help:"port to listen on"`
//	}
//
//	type App struct {
//	    Server Server `toml:"server"`
//	    Debug  bool   `toml:"debug" default:"false"`
//	}
//
//	cfg := konfig.MustParse[App]()
//
// Running the program with --server.port 8080 yields
// App{Server: Server{Host: "localhost", Port: 8080}, Debug: false}.
// Port has no default, so leaving it out fails with ErrMissingField.
//
// Struct tags:
//
//	toml:"name"        key of the field, "-" skips it; the Go field name by default
//	default:"value"    default value; lists are comma separated ("a,b"), durations "30s"
//	help:"text"        help shown next to the flag
//
// A struct implementing Defaulter computes defaults in code; any leaf it sets
// to a non-zero value counts as defaulted. A leaf with no default is required.
//
// Field kinds:
//
//	scalar   string, bool, sized ints and uints, floats, time.Duration, named variants
//	list     slice of string, bool, int, int32, int64, uint, float32, float64, time.Duration
//	nested   struct value, described recursively
//
// Command line:
//
// Every leaf becomes --<dotted.path>, underscores shown as hyphens
// (server.max_conns becomes --server.max-conns). Lists take comma separated
// values or repeated flags. Two flags are always added:
//
//	--template         write <TypeName>.toml from the constructed value and exit 0
//	--from-toml path   load the file instead; other flags are ignored
//
// TOML:
//
//	data, _ := konfig.Marshal(cfg)
//	cfg, err := konfig.Unmarshal[App](data)
//	err = konfig.Save("App.toml", cfg)
//	cfg, err = konfig.Load[App]("App.toml")
//
// Keys missing from a document take their defaults; unknown keys fail with
// ErrUnknownKey and syntax errors with ErrMalformedDocument.
package konfig
