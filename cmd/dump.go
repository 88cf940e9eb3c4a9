package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const defaultDumpFile = "noos.html"

func newDumpCmd(cfg Config, flags *rootFlags) *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:     "dump",
		Aliases: []string{"d"},
		Short:   "Dump the rendered html of the web interface to a file",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd.Context(), cfg, flags, file)
		},
	}
	c.Flags().StringVarP(&file, "file", "f", defaultDumpFile, "file to write the dumped HTML to")

	return c
}

func runDump(ctx context.Context, cfg Config, flags *rootFlags, file string) error {
	dir, err := configDir()
	if err != nil {
		return err
	}

	pageTpl, itemTpl, err := compiledTemplates(flags, dir)
	if err != nil {
		return err
	}

	store, _, _, closeDB, err := buildTimeline(ctx, cfg, dir)
	if err != nil {
		return err
	}
	defer closeDB()

	html := pageTpl.Render(store, itemTpl)
	if err := os.WriteFile(file, []byte(html), 0o644); err != nil {
		return fmt.Errorf("error writing output html: %w", err)
	}
	slog.Info("wrote rendered page", "file", file, "bytes", len(html))

	return nil
}
