// Package cmd implements the noos command line interface.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jdholdren/noos/logger"
)

// Config is the process-level environment configuration. Everything
// per-invocation lives on flags instead.
type Config struct {
	// Path to the sqlite entry cache; defaults under the user config dir.
	Database string `env:"NOOS_DATABASE"`

	// Which format to use for logging: either text or json
	LoggerFormat string `env:"NOOS_LOGGER_FORMAT, default=text"`
}

// Flags shared by every subcommand.
type rootFlags struct {
	verbosity    string
	itemTemplate string
	pageTemplate string
}

// New assembles the full command tree.
func New(cfg Config) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "noos",
		Short:         "A pragmatic RSS aggregator with a browser interface and no built-in reader",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := logger.ParseLevel(flags.verbosity)
			if err != nil {
				return err
			}
			slog.SetDefault(logger.New(cfg.LoggerFormat, lvl))

			return nil
		},
		// Bare `noos` behaves like `noos dump`.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd.Context(), cfg, flags, defaultDumpFile)
		},
	}

	pf := root.PersistentFlags()
	// TODO: default to info once the cli stabilizes
	pf.StringVarP(&flags.verbosity, "verbosity", "v", "debug",
		"minimum level for logged messages: error, warn, info, debug or 0-3")
	pf.StringVar(&flags.itemTemplate, "item-template", "",
		"path to the html template for item/article rendering")
	pf.StringVar(&flags.pageTemplate, "page-template", "",
		"path to the html template for the page surrounding the articles")

	root.AddCommand(
		newDumpCmd(cfg, flags),
		newServeCmd(cfg, flags),
		newFeedCmd(),
	)

	return root
}
