// Package ingest fetches subscribed feeds and appends their entries to
// the timeline, writing new entries through to the cache.
package ingest

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/jdholdren/noos/internal/timeline"
)

const userAgent = "noos/0.1 (+https://github.com/jdholdren/noos)"

// Entries whose publish date cannot be parsed are timelined as if
// published shortly before ingestion.
const fallbackOffset = time.Minute

// Descriptions longer than this get clamped so a single entry can't
// dominate the rendered page.
const maxDescription = 2048

// How many feeds are fetched at once.
const maxInFlight = 4

// Item is one fetched article: the renderable entry plus the identity
// used for caching and duplicate suppression.
type Item struct {
	GUID  string
	Entry timeline.Entry
}

// Recorder persists fetched feeds and entries between runs.
type Recorder interface {
	RecordFeed(ctx context.Context, url, title, link string, syncedAt time.Time) error
	RecordEntries(ctx context.Context, feedURL string, items []Item) error
}

// Syncer fetches feeds and fans their entries into the store. Safe for
// one Sync at a time; individual appends serialize through the store.
type Syncer struct {
	store *timeline.Store
	repo  Recorder // nil disables write-through

	client  *http.Client
	parser  *gofeed.Parser
	limiter *rate.Limiter
	seen    *lru.Cache[string, struct{}]
	strip   *bluemonday.Policy
}

// NewSyncer creates a Syncer appending into store. repo may be nil.
func NewSyncer(store *timeline.Store, repo Recorder) *Syncer {
	seen, _ := lru.New[string, struct{}](8192)

	return &Syncer{
		store: store,
		repo:  repo,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		parser:  gofeed.NewParser(),
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), maxInFlight),
		seen:    seen,
		strip:   bluemonday.StrictPolicy(),
	}
}

// Prime marks already-known items (e.g. loaded from the cache) as seen
// and appends their entries, so a following Sync only adds new ones.
func (s *Syncer) Prime(items []Item) {
	for _, it := range items {
		s.seen.Add(it.GUID, struct{}{})
		s.store.Append(it.Entry)
	}
}

// Sync fetches every feed concurrently. A failing feed is logged and
// skipped rather than sinking the whole pass; Sync only returns an
// error when the context is done.
func (s *Syncer) Sync(ctx context.Context, urls []string) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxInFlight)

	for _, url := range urls {
		g.Go(func() error {
			if err := s.syncFeed(gCtx, url); err != nil {
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				slog.Error("error syncing feed", "feed", url, "error", err)
			}

			return nil
		})
	}

	return g.Wait()
}

func (s *Syncer) syncFeed(ctx context.Context, url string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	var feed *gofeed.Feed
	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(500*time.Millisecond))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		f, err := s.fetch(ctx, url)
		if err != nil {
			return retry.RetryableError(err)
		}
		feed = f

		return nil
	}); err != nil {
		return fmt.Errorf("error fetching feed: %w", err)
	}

	now := time.Now()

	var undated int
	fresh := make([]Item, 0, len(feed.Items))
	for _, fi := range feed.Items {
		item, dated := s.convert(fi, feed, now)
		if !dated {
			undated++
		}

		if ok, _ := s.seen.ContainsOrAdd(item.GUID, struct{}{}); ok {
			continue
		}
		s.store.Append(item.Entry)
		fresh = append(fresh, item)
	}

	// One aggregate warning per batch, not one per entry.
	if undated > 0 {
		slog.Warn("entries without usable publish date, timelined near ingestion time",
			"feed", url,
			"count", undated,
		)
	}

	slog.Debug("synced feed", "feed", url, "entries", len(feed.Items), "new", len(fresh))

	if s.repo == nil {
		return nil
	}
	if err := s.repo.RecordFeed(ctx, url, feed.Title, feed.Link, now); err != nil {
		return fmt.Errorf("error recording feed: %w", err)
	}
	if err := s.repo.RecordEntries(ctx, url, fresh); err != nil {
		return fmt.Errorf("error recording entries: %w", err)
	}

	return nil
}

func (s *Syncer) fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error getting feed url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	feed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error parsing feed: %w", err)
	}

	return feed, nil
}

// convert builds an Item from one feed item. dated reports whether a
// usable publish date was found; without one the entry is stamped
// fallbackOffset before now and its date/time strings stay empty.
func (s *Syncer) convert(fi *gofeed.Item, feed *gofeed.Feed, now time.Time) (Item, bool) {
	e := timeline.Entry{
		Title:       displayOr(s.sanitize(fi.Title), timeline.NoTitle),
		Description: displayOr(s.sanitize(fi.Description), timeline.NoDescription),
		SourceName:  displayOr(s.sanitize(feed.Title), timeline.NoSource),
		SourceLink:  feed.Link,
		Link:        fi.Link,
	}

	published, dated := publishedAt(fi)
	if dated {
		e.Timestamp = published.Unix()
		e.DateString = published.Format(timeline.DateLayout)
		e.TimeString = published.Format(timeline.TimeLayout)
	} else {
		e.Timestamp = now.Add(-fallbackOffset).Unix()
	}

	return Item{GUID: guid(fi), Entry: e}, dated
}

// publishedAt resolves the publish date, retrying the raw string with
// dateparse for formats gofeed does not attempt.
func publishedAt(fi *gofeed.Item) (time.Time, bool) {
	if fi.PublishedParsed != nil {
		return *fi.PublishedParsed, true
	}
	if fi.UpdatedParsed != nil {
		return *fi.UpdatedParsed, true
	}
	if fi.Published != "" {
		if ts, err := dateparse.ParseAny(fi.Published); err == nil {
			return ts, true
		}
	}

	return time.Time{}, false
}

// guid picks the most stable identity the feed offers.
func guid(fi *gofeed.Item) string {
	if fi.GUID != "" {
		return fi.GUID
	}
	if fi.Link != "" {
		return fi.Link
	}

	return fi.Title
}

// sanitize strips all html tags and clamps runaway lengths. The
// result is plain text with raw entities: bluemonday re-escapes text
// content, and leaving that in place would get escaped a second time
// by the renderer.
func (s *Syncer) sanitize(text string) string {
	text = html.UnescapeString(s.strip.Sanitize(text))
	text = strings.TrimSpace(text)
	if len(text) > maxDescription {
		text = text[:maxDescription]
	}

	return text
}

// displayOr treats a field that is empty after sanitization as absent
// and substitutes its display fallback.
func displayOr(text, fallback string) string {
	if text == "" {
		return fallback
	}

	return text
}
