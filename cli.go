// FILE: lixenwraith/konfig/cli.go
package konfig

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"
)

// Framework flags, present on every generated command line.
const (
	FlagTemplate = "template"
	FlagFromTOML = "from-toml"
)

// reserved flag names a schema leaf cannot take.
var reservedFlags = map[string]bool{
	FlagTemplate: true,
	FlagFromTOML: true,
	"help":       true,
}

// CLI provides a fluent interface for deriving a command line from schema T.
type CLI[T any] struct {
	desc        *Descriptor
	specs       []FlagSpec
	name        string
	description string
	save        bool
	dir         string
	logger      hclog.Logger
	out         io.Writer
	exit        func(int)
	err         error
}

// binding holds the storage pflag writes parsed values into.
type binding struct {
	values   map[string]reflect.Value // flag name -> pointer to a value of the field type
	template *bool
	fromTOML *string
}

// NewCLI creates a command-line builder for schema T.
// Schema errors are deferred to Parse, Command, and FlagSet.
func NewCLI[T any]() *CLI[T] {
	c := &CLI[T]{
		name:   filepath.Base(os.Args[0]),
		logger: hclog.NewNullLogger(),
		out:    os.Stderr,
		exit:   os.Exit,
	}

	c.desc, c.err = Describe[T]()
	if c.err != nil {
		return c
	}
	c.description = c.desc.Name
	c.specs = c.desc.FlagSpecs()

	seen := make(map[string]string, len(c.specs)) // flag name -> path
	for _, spec := range c.specs {
		if reservedFlags[spec.Name] {
			c.err = fmt.Errorf("%w: field %s uses the reserved flag name --%s", ErrInvalidKey, spec.Path, spec.Name)
			break
		}
		if other, dup := seen[spec.Name]; dup {
			c.err = fmt.Errorf("%w: fields %s and %s both map to flag --%s", ErrInvalidKey, other, spec.Path, spec.Name)
			break
		}
		seen[spec.Name] = spec.Path
	}
	return c
}

// WithName sets the program name shown in usage
func (c *CLI[T]) WithName(name string) *CLI[T] {
	if name != "" {
		c.name = name
	}
	return c
}

// WithDescription sets the description shown in usage, the schema type name by default
func (c *CLI[T]) WithDescription(description string) *CLI[T] {
	c.description = description
	return c
}

// WithSave makes Parse write the constructed instance to <TypeName>.toml before returning it
func (c *CLI[T]) WithSave(save bool) *CLI[T] {
	c.save = save
	return c
}

// WithDir sets the directory <TypeName>.toml is written to, the working directory by default
func (c *CLI[T]) WithDir(dir string) *CLI[T] {
	c.dir = dir
	return c
}

// WithLogger sets the logger for parse, load and save events
func (c *CLI[T]) WithLogger(logger hclog.Logger) *CLI[T] {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithOutput sets where usage and errors are printed, stderr by default
func (c *CLI[T]) WithOutput(w io.Writer) *CLI[T] {
	if w != nil {
		c.out = w
	}
	return c
}

// WithExitFunc replaces os.Exit, called with 0 after --template and by MustParse
func (c *CLI[T]) WithExitFunc(fn func(int)) *CLI[T] {
	if fn != nil {
		c.exit = fn
	}
	return c
}

// Descriptor returns the schema descriptor backing the command line.
func (c *CLI[T]) Descriptor() (*Descriptor, error) {
	return c.desc, c.err
}

// Specs returns the flag specs of every schema leaf.
func (c *CLI[T]) Specs() []FlagSpec {
	return append([]FlagSpec(nil), c.specs...)
}

// TemplatePath returns the file --template and WithSave write to.
func (c *CLI[T]) TemplatePath() string {
	if c.desc == nil {
		return ""
	}
	return filepath.Join(c.dir, c.desc.Name+".toml")
}

// FlagSet returns a fresh flag set carrying every schema flag and the framework flags.
func (c *CLI[T]) FlagSet() (*pflag.FlagSet, error) {
	fs, _, err := c.newFlagSet()
	return fs, err
}

func (c *CLI[T]) newFlagSet() (*pflag.FlagSet, *binding, error) {
	if c.err != nil {
		return nil, nil, c.err
	}
	fs := pflag.NewFlagSet(c.name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false

	b, err := c.bind(fs)
	if err != nil {
		return nil, nil, err
	}
	return fs, b, nil
}

// bind registers the schema and framework flags on fs.
func (c *CLI[T]) bind(fs *pflag.FlagSet) (*binding, error) {
	b := &binding{values: make(map[string]reflect.Value, len(c.specs))}

	for _, spec := range c.specs {
		p := reflect.New(spec.Type)
		if spec.HasDefault {
			p.Elem().Set(reflect.ValueOf(spec.Default))
		}

		usage := spec.Help
		if spec.Required() {
			usage = strings.TrimSpace(usage + " (required)")
		}
		if err := registerFlag(fs, spec.Name, usage, p); err != nil {
			return nil, fmt.Errorf("flag --%s: %w", spec.Name, err)
		}
		b.values[spec.Name] = p
	}

	b.template = fs.Bool(FlagTemplate, false, "generates a toml template file")
	b.fromTOML = fs.String(FlagFromTOML, "", "load toml file from path")
	return b, nil
}

// Parse parses args and constructs the schema instance.
//
// With --from-toml the named file is loaded and every other flag is ignored.
// Otherwise each leaf takes its flag value or default; a leaf with neither
// fails with ErrMissingField. With --template (or WithSave) the instance is
// written to TemplatePath, and --template then calls the exit func with 0.
func (c *CLI[T]) Parse(args []string) (*T, error) {
	fs, b, err := c.newFlagSet()
	if err != nil {
		return nil, err
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprint(c.out, c.Usage())
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments: %s", ErrInvalidValue, strings.Join(fs.Args(), " "))
	}

	return c.resolve(fs, b)
}

// MustParse is like Parse but prints usage and exits on error.
// Help exits with 0, any other error with 2.
func (c *CLI[T]) MustParse(args []string) *T {
	cfg, err := c.Parse(args)
	switch {
	case err == nil:
		return cfg
	case errors.Is(err, pflag.ErrHelp):
		c.exit(0)
	default:
		fmt.Fprintf(c.out, "Error: %v\n\n%s", err, c.Usage())
		c.exit(2)
	}
	return nil
}

// resolve turns a parsed flag set into the schema instance.
func (c *CLI[T]) resolve(fs *pflag.FlagSet, b *binding) (*T, error) {
	if path := *b.fromTOML; path != "" {
		c.logger.Debug("loading configuration file", "schema", c.desc.Name, "path", path)
		return Load[T](path)
	}

	flat := make(map[string]any, len(c.specs))
	var missing []string
	for _, spec := range c.specs {
		if !fs.Changed(spec.Name) && !spec.HasDefault {
			missing = append(missing, "--"+spec.Name)
			continue
		}
		flat[spec.Path] = b.values[spec.Name].Elem().Interface()
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	c.logger.Debug("command line parsed", "schema", c.desc.Name, "fields", len(flat))

	cfg := new(T)
	if err := c.desc.Build(UnflattenMap(flat), cfg); err != nil {
		return nil, err
	}

	template := *b.template
	if c.save || template {
		path := c.TemplatePath()
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
		c.logger.Debug("configuration saved", "schema", c.desc.Name, "path", path)
	}
	if template {
		c.logger.Info("template written", "path", c.TemplatePath())
		c.exit(0)
	}

	return cfg, nil
}

// Usage renders the usage text of the generated command line.
func (c *CLI[T]) Usage() string {
	fs, err := c.FlagSet()
	if err != nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s [flags]\n", c.name)
	if c.description != "" {
		fmt.Fprintf(&b, "\n%s\n", c.description)
	}
	b.WriteString("\nFlags:\n")
	b.WriteString(flagUsages(fs))
	return b.String()
}

// Parse constructs schema T from args. See CLI.Parse.
func Parse[T any](args []string) (*T, error) {
	return NewCLI[T]().Parse(args)
}

// MustParse constructs schema T from os.Args, exiting on error. See CLI.MustParse.
func MustParse[T any]() *T {
	return NewCLI[T]().MustParse(os.Args[1:])
}
