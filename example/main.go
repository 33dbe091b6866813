// FILE: lixenwraith/konfig/example/main.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/konfig"
)

// ServerConfig defines the listener settings.
type ServerConfig struct {
	Host         string        `toml:"host" default:"localhost" help:"address to bind"`
	Port         int64         `toml:"port" help:"port to listen on"`
	ReadTimeout  time.Duration `toml:"read_timeout" default:"5s"`
	AllowOrigins []string      `toml:"allow_origins" default:"*" help:"CORS origins"`
}

// AppConfig is the configuration of the example server.
type AppConfig struct {
	Server   ServerConfig `toml:"server"`
	LogLevel string       `toml:"log_level" default:"info" help:"trace, debug, info, warn or error"`
}

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "example",
		Output: os.Stderr,
		Level:  hclog.LevelFromString(os.Getenv("KONFIG_LOG_LEVEL")),
	})

	serve, err := konfig.NewCLI[AppConfig]().
		WithDescription("Run the example server").
		WithLogger(logger.Named("konfig")).
		Command("serve", func(cmd *cobra.Command, cfg *AppConfig) error {
			logger.SetLevel(hclog.LevelFromString(cfg.LogLevel))
			logger.Info("starting server",
				"host", cfg.Server.Host,
				"port", cfg.Server.Port,
				"read_timeout", cfg.Server.ReadTimeout,
				"origins", cfg.Server.AllowOrigins)

			fmt.Fprintln(cmd.OutOrStdout(), "effective configuration:")
			return konfig.Print(cmd.OutOrStdout(), cfg)
		})
	if err != nil {
		logger.Error("invalid configuration schema", "error", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:           "example",
		Short:         "konfig example application",
		SilenceErrors: true,
	}
	root.AddCommand(serve)

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
