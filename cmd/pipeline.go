package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jdholdren/noos/internal/cache"
	"github.com/jdholdren/noos/internal/feedlist"
	"github.com/jdholdren/noos/internal/ingest"
	"github.com/jdholdren/noos/internal/render"
	"github.com/jdholdren/noos/internal/templates"
	"github.com/jdholdren/noos/internal/timeline"
)

// configDir returns the noos directory under the user config dir,
// home of channels.txt, template overrides, and the default cache.
func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error locating user config dir: %w", err)
	}

	return filepath.Join(base, "noos"), nil
}

func feedListPath(dir string) string {
	return filepath.Join(dir, "channels.txt")
}

// compiledTemplates loads and compiles both templates up front, so a
// bad template file aborts the run before any fetching happens.
func compiledTemplates(flags *rootFlags, dir string) (render.PageTemplate, render.ItemTemplate, error) {
	pageText, err := templates.Load(flags.pageTemplate, dir, templates.PageName)
	if err != nil {
		return render.PageTemplate{}, render.ItemTemplate{}, err
	}
	itemText, err := templates.Load(flags.itemTemplate, dir, templates.ItemName)
	if err != nil {
		return render.PageTemplate{}, render.ItemTemplate{}, err
	}

	return render.CompilePageTemplate(pageText), render.CompileItemTemplate(itemText), nil
}

// buildTimeline opens the cache, primes the store from it, and syncs
// every subscribed feed once. The returned closer releases the cache
// database.
func buildTimeline(ctx context.Context, cfg Config, dir string) (*timeline.Store, *ingest.Syncer, []string, func(), error) {
	dbPath := cfg.Database
	if dbPath == "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("error creating config dir: %w", err)
		}
		dbPath = filepath.Join(dir, "cache.db")
	}

	dbx, err := cache.Open(dbPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	closer := func() { dbx.Close() }

	repo := cache.New(dbx)
	store := timeline.NewStore()
	syncer := ingest.NewSyncer(store, repo)

	cached, err := repo.AllItems(ctx)
	if err != nil {
		closer()
		return nil, nil, nil, nil, err
	}
	syncer.Prime(cached)

	urls, err := feedlist.Load(feedListPath(dir))
	if err != nil {
		closer()
		return nil, nil, nil, nil, err
	}
	if len(urls) == 0 {
		slog.Warn("no subscribed feeds, see `noos feed add`")
	}

	if err := syncer.Sync(ctx, urls); err != nil {
		closer()
		return nil, nil, nil, nil, err
	}

	slog.Info("timeline ready", "entries", store.Len(), "feeds", len(urls))

	return store, syncer, urls, closer, nil
}
