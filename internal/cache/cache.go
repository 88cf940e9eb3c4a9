// Package cache persists fetched feeds and entries in sqlite so a run
// can start from the previous run's timeline without refetching.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/jdholdren/noos/internal/ingest"
	"github.com/jdholdren/noos/internal/timeline"
)

const (
	feedNamespace  = "-fd"
	entryNamespace = "-ntry"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// Open opens (creating if needed) the cache database at path and
// applies pending migrations.
func Open(path string) (*sqlx.DB, error) {
	dbx, err := sqlx.Open("sqlite", fmt.Sprintf("%s?_txlock=immediate&_journal_mode=WAL&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err := runMigrations(dbx); err != nil {
		return nil, fmt.Errorf("error migrating: %w", err)
	}

	return dbx, nil
}

// Repo represents the surface for interacting with cached feeds and
// entries. It implements [ingest.Recorder].
type Repo struct {
	db *sqlx.DB
}

// New creates a new instance of Repo.
func New(dbx *sqlx.DB) Repo {
	return Repo{
		db: dbx,
	}
}

type (
	// Feed is one cached feed row.
	Feed struct {
		ID           string     `db:"id"`
		URL          string     `db:"url"`
		Title        string     `db:"title"`
		Link         string     `db:"link"`
		LastSyncedAt *time.Time `db:"last_synced_at"`
		CreatedAt    time.Time  `db:"created_at"`
	}

	// Entry is one cached entry row. The rendered fields mirror
	// [timeline.Entry]; guid is identity within its feed.
	Entry struct {
		ID          string `db:"id"`
		FeedID      string `db:"feed_id"`
		GUID        string `db:"guid"`
		Title       string `db:"title"`
		Description string `db:"description"`
		Link        string `db:"link"`
		SourceName  string `db:"source_name"`
		SourceLink  string `db:"source_link"`
		PublishedAt int64  `db:"published_at"`
		DateString  string `db:"date_string"`
		TimeString  string `db:"time_string"`
	}
)

// RecordFeed upserts the feed row for url and stamps its sync time.
func (r Repo) RecordFeed(ctx context.Context, url, title, link string, syncedAt time.Time) error {
	const q = `INSERT INTO feeds (id, url) VALUES (:id, :url) ON CONFLICT(url) DO NOTHING;`
	f := Feed{
		ID:  fmt.Sprintf("%s%s", uuid.NewString(), feedNamespace),
		URL: url,
	}
	if _, err := r.db.NamedExecContext(ctx, q, f); err != nil {
		return fmt.Errorf("error inserting feed: %w", err)
	}

	upd := sq.Update("feeds")
	if title != "" {
		upd = upd.Set("title", title)
	}
	if link != "" {
		upd = upd.Set("link", link)
	}
	upd = upd.Set("last_synced_at", syncedAt).Where(sq.Eq{"url": url})

	query, args, err := upd.ToSql()
	if err != nil {
		return fmt.Errorf("error constructing sql: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error updating feed: %w", err)
	}

	return nil
}

// RecordEntries inserts the batch for the feed at feedURL; entries
// whose guid is already cached are left untouched.
func (r Repo) RecordEntries(ctx context.Context, feedURL string, items []ingest.Item) error {
	if len(items) == 0 {
		return nil
	}

	feed, err := r.feedByURL(ctx, feedURL)
	if err != nil {
		return fmt.Errorf("error fetching feed for entries: %w", err)
	}

	rows := make([]Entry, 0, len(items))
	for _, it := range items {
		rows = append(rows, Entry{
			ID:          fmt.Sprintf("%s%s", uuid.NewString(), entryNamespace),
			FeedID:      feed.ID,
			GUID:        it.GUID,
			Title:       it.Entry.Title,
			Description: it.Entry.Description,
			Link:        it.Entry.Link,
			SourceName:  it.Entry.SourceName,
			SourceLink:  it.Entry.SourceLink,
			PublishedAt: it.Entry.Timestamp,
			DateString:  it.Entry.DateString,
			TimeString:  it.Entry.TimeString,
		})
	}

	const q = `INSERT INTO entries (id, feed_id, guid, title, description, link, source_name, source_link, published_at, date_string, time_string)
	VALUES (:id, :feed_id, :guid, :title, :description, :link, :source_name, :source_link, :published_at, :date_string, :time_string)
	ON CONFLICT(feed_id, guid) DO NOTHING;`
	if _, err := r.db.NamedExecContext(ctx, q, rows); err != nil {
		return fmt.Errorf("error inserting entries: %w", err)
	}

	return nil
}

// AllItems retrieves every cached entry, ready to prime a syncer.
func (r Repo) AllItems(ctx context.Context) ([]ingest.Item, error) {
	const q = `SELECT * FROM entries ORDER BY published_at ASC;`

	var rows []Entry
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("error selecting entries: %w", err)
	}

	items := make([]ingest.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, ingest.Item{
			GUID: row.GUID,
			Entry: timeline.Entry{
				Title:       row.Title,
				Description: row.Description,
				SourceName:  row.SourceName,
				SourceLink:  row.SourceLink,
				Link:        row.Link,
				Timestamp:   row.PublishedAt,
				DateString:  row.DateString,
				TimeString:  row.TimeString,
			},
		})
	}

	return items, nil
}

// Feeds retrieves all cached feed rows.
func (r Repo) Feeds(ctx context.Context) ([]Feed, error) {
	const q = `SELECT * FROM feeds;`

	var feeds []Feed
	if err := r.db.SelectContext(ctx, &feeds, q); err != nil {
		return nil, fmt.Errorf("error selecting feeds: %w", err)
	}

	return feeds, nil
}

func (r Repo) feedByURL(ctx context.Context, url string) (Feed, error) {
	const q = `SELECT * FROM feeds WHERE url = ?;`

	var feed Feed
	err := r.db.GetContext(ctx, &feed, q, url)
	if errors.Is(err, sql.ErrNoRows) {
		return Feed{}, ErrNotFound
	}
	if err != nil {
		return Feed{}, fmt.Errorf("error fetching feed: %w", err)
	}

	return feed, nil
}
