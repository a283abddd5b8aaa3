// Package cmd implements the choreo CLI commands.
//
// The root command loads configuration and builds the logger once, before
// any subcommand that needs them runs. Subcommands annotated with
// skipConfig (config init, version) run without a config.
package cmd

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nextcore/choreo/pkg/config"
	"github.com/nextcore/choreo/pkg/errors"
	"github.com/nextcore/choreo/pkg/logging"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

const skipConfig = "skipConfig"

type commandContext struct {
	configFlag string
	verbose    bool
	logOutput  io.Writer

	config     *config.Config
	configPath string
	logger     *zap.Logger
}

func (c *commandContext) load() error {
	cfg, path, err := config.Load(strings.TrimSpace(c.configFlag))
	if err != nil {
		return err
	}
	log, _, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		Verbose:     c.verbose,
		Writer:      c.logOutput,
	})
	if err != nil {
		return err
	}
	c.config, c.configPath, c.logger = cfg, path, log
	errors.SetHandler(&errors.LogHandler{Logger: log, Verbose: c.verbose})
	return nil
}

func newRootCommand(ctx *commandContext) *cobra.Command {
	root := &cobra.Command{
		Use:   "choreo",
		Short: "Simulate the festival site's page transitions",
		Long: `choreo drives the festival site's transition engine through a scripted
visit and reports every status change, sound cue and navigation signal.

Configuration is read from --config, or choreo.yaml / choreo.toml in the
working directory, and CHOREO_* environment variables override it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfig] == "true" {
				return nil
			}
			return ctx.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if ctx.logger != nil {
				_ = ctx.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	root.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Log at debug level")

	root.AddCommand(newSimulateCommand(ctx))
	root.AddCommand(newConfigCommand(ctx))
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context) error {
	return newRootCommand(&commandContext{}).ExecuteContext(ctx)
}
