package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/petrolc/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Config is the loaded configuration, with flags applied. Set before
	// any subcommand runs.
	Config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the petrolc CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "petrolc",
		Short: "petrolc - compiler front-end data core",
		Long: `Tools for the petrolc value graph: decode value documents, hash and
inspect values, keep them in a content-addressed store, and run
harness scenarios.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: nearest petrolc.toml)")

	cmd.AddCommand(NewHashCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewStoreCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// setup loads the config, lets flags override it and installs the logger.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if o.ConfigPath != "" {
		cfg, err = config.Load(o.ConfigPath)
	} else {
		cfg, err = config.FindAndLoad(".")
	}
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeConfig, err)
	}

	if cmd.Flags().Changed("format") {
		cfg.Output.Format = o.Format
	}
	if !isValidFormat(cfg.Output.Format) {
		return WrapExitError(ExitCommandError, "invalid flags",
			fmt.Errorf("invalid format %q: must be one of %v", cfg.Output.Format, ValidFormats))
	}
	o.Format = cfg.Output.Format
	o.Config = cfg

	level, err := cfg.LogLevel()
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeConfig, err)
	}
	if o.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(newLogger(cmd.ErrOrStderr(), level))
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter builds the output formatter for a command.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}
