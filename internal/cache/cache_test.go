package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/noos/internal/ingest"
	"github.com/jdholdren/noos/internal/timeline"
)

func testRepo(t *testing.T) Repo {
	t.Helper()

	dbx, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { dbx.Close() })

	return New(dbx)
}

func testItems() []ingest.Item {
	return []ingest.Item{
		{
			GUID: "guid-1",
			Entry: timeline.Entry{
				Title:       "One",
				Description: "first",
				SourceName:  "Feed",
				SourceLink:  "https://feed.example",
				Link:        "https://feed.example/1",
				Timestamp:   200,
				DateString:  "1970-01-01",
				TimeString:  "00:03:20",
			},
		},
		{
			GUID: "guid-2",
			Entry: timeline.Entry{
				Title:      "Two",
				SourceName: "Feed",
				SourceLink: "https://feed.example",
				Timestamp:  100,
			},
		},
	}
}

func TestRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)

	require.NoError(t, repo.RecordFeed(ctx, "https://feed.example/rss", "Feed", "https://feed.example", time.Now()))
	require.NoError(t, repo.RecordEntries(ctx, "https://feed.example/rss", testItems()))

	items, err := repo.AllItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Ordered by published_at ascending.
	assert.Equal(t, "guid-2", items[0].GUID)
	assert.Equal(t, "guid-1", items[1].GUID)

	one := items[1].Entry
	assert.Equal(t, "One", one.Title)
	assert.Equal(t, "first", one.Description)
	assert.Equal(t, "https://feed.example/1", one.Link)
	assert.Equal(t, int64(200), one.Timestamp)
	assert.Equal(t, "1970-01-01", one.DateString)
	assert.Equal(t, "00:03:20", one.TimeString)
}

func TestRepo_RecordFeedIsUpsert(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)

	first := time.Now().Add(-time.Hour)
	require.NoError(t, repo.RecordFeed(ctx, "https://feed.example/rss", "", "", first))
	require.NoError(t, repo.RecordFeed(ctx, "https://feed.example/rss", "Feed", "https://feed.example", time.Now()))

	feeds, err := repo.Feeds(ctx)
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	assert.Equal(t, "Feed", feeds[0].Title)
	assert.Equal(t, "https://feed.example", feeds[0].Link)
	require.NotNil(t, feeds[0].LastSyncedAt)
	assert.True(t, feeds[0].LastSyncedAt.After(first))
}

func TestRepo_DuplicateGUIDsIgnored(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)

	require.NoError(t, repo.RecordFeed(ctx, "https://feed.example/rss", "Feed", "", time.Now()))
	require.NoError(t, repo.RecordEntries(ctx, "https://feed.example/rss", testItems()))
	require.NoError(t, repo.RecordEntries(ctx, "https://feed.example/rss", testItems()))

	items, err := repo.AllItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRepo_EntriesForUnknownFeed(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)

	err := repo.RecordEntries(ctx, "https://nowhere.example/rss", testItems())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRepo_EmptyBatchIsANoop(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)

	require.NoError(t, repo.RecordEntries(ctx, "https://nowhere.example/rss", nil))
}
