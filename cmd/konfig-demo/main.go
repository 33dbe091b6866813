// FILE: lixenwraith/konfig/cmd/konfig-demo/main.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/lixenwraith/konfig"
)

// Limits bounds the connection pool.
type Limits struct {
	MaxConns int           `toml:"max_conns" default:"10" help:"maximum open connections"`
	Timeout  time.Duration `toml:"timeout" default:"30s" help:"dial timeout"`
}

// Database describes the backing store.
type Database struct {
	URL    string   `toml:"url" default:"postgres://localhost:5432/app" help:"connection string"`
	Tags   []string `toml:"tags" default:"primary" help:"replica tags"`
	Limits Limits   `toml:"limits"`
}

// DemoConfig is the root schema of the demo.
type DemoConfig struct {
	Name     string   `toml:"name" help:"instance name"`
	Debug    bool     `toml:"debug" default:"false" help:"enable debug output"`
	Workers  int      `toml:"workers" help:"worker count"`
	Database Database `toml:"database"`
}

// SetDefaults computes defaults no tag can express.
func (c *DemoConfig) SetDefaults() {
	if c.Workers == 0 {
		c.Workers = 4
	}
}

func main() {
	cfg := konfig.NewCLI[DemoConfig]().
		WithDescription("Prints the configuration assembled from flags, defaults, or a TOML file.").
		MustParse(os.Args[1:])

	spew.Config.DisablePointerAddresses = true
	spew.Dump(cfg)

	fmt.Println("\n# TOML")
	if err := konfig.Print(os.Stdout, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
