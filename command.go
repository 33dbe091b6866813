// FILE: lixenwraith/konfig/command.go
package konfig

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RunFunc receives the configuration constructed for a cobra command.
type RunFunc[T any] func(cmd *cobra.Command, cfg *T) error

// Command returns a cobra command carrying the flags of schema T.
// Its RunE constructs the instance exactly as Parse does and passes it to run.
//
// The command is single use: flag storage and Changed state are bound once,
// so a second execution fails instead of seeing values from the first.
// Call Command again for every execution.
func (c *CLI[T]) Command(use string, run RunFunc[T]) (*cobra.Command, error) {
	if c.err != nil {
		return nil, c.err
	}

	cmd := &cobra.Command{
		Use:           use,
		Short:         c.description,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().SortFlags = false
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	})
	cmd.SetUsageFunc(func(cmd *cobra.Command) error {
		fmt.Fprintf(cmd.OutOrStderr(), "Usage:\n  %s\n\nFlags:\n%s", cmd.UseLine(), flagUsages(cmd.Flags()))
		return nil
	})

	b, err := c.bind(cmd.Flags())
	if err != nil {
		return nil, err
	}

	ran := false
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if ran {
			return fmt.Errorf("command %s already executed; create a new command per execution", cmd.Name())
		}
		ran = true

		cfg, err := c.resolve(cmd.Flags(), b)
		if err != nil {
			return err
		}
		if run == nil {
			return nil
		}
		return run(cmd, cfg)
	}
	return cmd, nil
}

// Command returns a cobra command for schema T. See CLI.Command.
func Command[T any](use string, run RunFunc[T]) (*cobra.Command, error) {
	return NewCLI[T]().Command(use, run)
}
