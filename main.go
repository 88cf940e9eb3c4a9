// Noos is a pragmatic rss aggregator.
//
// It fetches entries from the feeds it has been told about, aggregates
// them into one chronological timeline, and renders the result to html
// through user-replaceable templates.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/sethvargo/go-envconfig"

	"github.com/jdholdren/noos/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Parse the config
	var cfg cmd.Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}

	if err := cmd.New(cfg).ExecuteContext(ctx); err != nil {
		slog.Error("error running", "error", err)
		os.Exit(1)
	}
}
