package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jdholdren/noos/internal/feedlist"
)

func newFeedCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "feed",
		Short: "Manage individual feeds",
	}

	c.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all subscribed feeds",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := configDir()
				if err != nil {
					return err
				}
				urls, err := feedlist.Load(feedListPath(dir))
				if err != nil {
					return err
				}
				for _, u := range urls {
					fmt.Fprintln(cmd.OutOrStdout(), u)
				}

				return nil
			},
		},
		&cobra.Command{
			Use:   "add <url>",
			Short: "Add a new feed by URL",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := configDir()
				if err != nil {
					return err
				}
				if err := feedlist.Add(feedListPath(dir), args[0]); err != nil {
					return err
				}
				slog.Info("subscribed", "feed", args[0])

				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <url>",
			Short: "Remove a feed by URL",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := configDir()
				if err != nil {
					return err
				}
				if err := feedlist.Remove(feedListPath(dir), args[0]); err != nil {
					return err
				}
				slog.Info("unsubscribed", "feed", args[0])

				return nil
			},
		},
		&cobra.Command{
			Use:   "import <file>",
			Short: "Import all feeds from an OPML file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := configDir()
				if err != nil {
					return err
				}
				added, err := feedlist.ImportOPML(feedListPath(dir), args[0])
				if err != nil {
					return err
				}
				slog.Info("imported feeds", "file", args[0], "added", added)

				return nil
			},
		},
		&cobra.Command{
			Use:   "export <file>",
			Short: "Export all feeds to an OPML file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := configDir()
				if err != nil {
					return err
				}
				if err := feedlist.ExportOPML(feedListPath(dir), args[0]); err != nil {
					return err
				}
				slog.Info("exported feeds", "file", args[0])

				return nil
			},
		},
	)

	return c
}
