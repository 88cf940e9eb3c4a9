package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jdholdren/noos/internal/server"
)

// How often serve mode refreshes the subscribed feeds.
const refreshInterval = 15 * time.Minute

func newServeCmd(cfg Config, flags *rootFlags) *cobra.Command {
	var (
		port int
		bind string
	)

	c := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Start the web server",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg, flags, bind, port)
		},
	}
	c.Flags().IntVarP(&port, "port", "p", 9005, "port to serve on")
	c.Flags().StringVarP(&bind, "bind", "b", "127.0.0.1", "address to bind to")

	return c
}

func runServe(ctx context.Context, cfg Config, flags *rootFlags, bind string, port int) error {
	dir, err := configDir()
	if err != nil {
		return err
	}

	pageTpl, itemTpl, err := compiledTemplates(flags, dir)
	if err != nil {
		return err
	}

	store, syncer, urls, closeDB, err := buildTimeline(ctx, cfg, dir)
	if err != nil {
		return err
	}
	defer closeDB()

	s := server.New(server.Addr(bind, port), func() string {
		return pageTpl.Render(store, itemTpl)
	})

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("serving", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error listening: %s", err)
		}

		return nil
	})
	g.Go(func() error {
		// Block from shutting down until the group is canceled
		<-gCtx.Done()

		downCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(downCtx); err != nil {
			slog.Error("error shutting down server", "error", err)
		}

		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				if err := syncer.Sync(gCtx, urls); err != nil {
					slog.Error("error refreshing feeds", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("error running: %s", err)
	}

	return nil
}
