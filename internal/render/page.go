package render

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jdholdren/noos/internal/timeline"
)

// PageKind names a placeholder recognized in page templates.
type PageKind string

const (
	PageItems        PageKind = "items"
	PageItemCount    PageKind = "item_count"
	PageChannelCount PageKind = "channel_count"
	PageDate         PageKind = "date"
	PageTime         PageKind = "time"
	PageTimestamp    PageKind = "timestamp"
)

var pageKinds = []PageKind{
	PageItems,
	PageItemCount,
	PageChannelCount,
	PageDate,
	PageTime,
	PageTimestamp,
}

// PageTemplate is a compiled template over the page-level placeholder
// kinds. Its ${items} placeholder expands to the concatenation of
// item-template renders over the timeline.
type PageTemplate struct {
	c compiled[PageKind]
}

// CompilePageTemplate scans the text once per page-level kind and
// records every occurrence. The result is immutable for its lifetime.
func CompilePageTemplate(text string) PageTemplate {
	return PageTemplate{c: compile(text, pageKinds)}
}

// Render renders the store's current contents at the current wall clock.
func (t PageTemplate) Render(store *timeline.Store, item ItemTemplate) string {
	return t.RenderAt(store, item, time.Now())
}

// RenderAt renders the page as of the given instant.
//
// Entries dated after now are skipped; the rest render newest-first.
// The aggregate counts reflect only the entries actually rendered, and
// date/time/timestamp here reflect now, not any entry.
func (t PageTemplate) RenderAt(store *timeline.Store, item ItemTemplate, now time.Time) string {
	if !t.c.contains(PageItems) {
		slog.Warn("page template has no ${items} placeholder, passing it through unchanged")
		return t.c.text
	}

	entries := store.Snapshot()
	n := 0
	for _, e := range entries {
		if e.Timestamp <= now.Unix() {
			entries[n] = e
			n++
		}
	}
	entries = entries[:n]

	// Newest first; ties keep snapshot order so output is a pure
	// function of the store contents.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})

	var items strings.Builder
	channels := make(map[string]struct{})
	for _, e := range entries {
		items.WriteString(item.Render(e))
		channels[e.SourceLink] = struct{}{}
	}

	return t.c.render(t.c.values(func(k PageKind) string {
		switch k {
		case PageItems:
			// Constituent entries were escaped during item rendering;
			// escaping again would mangle their markup.
			return items.String()
		case PageItemCount:
			return escape(strconv.Itoa(len(entries)))
		case PageChannelCount:
			return escape(strconv.Itoa(len(channels)))
		case PageDate:
			return escape(now.Format(timeline.DateLayout))
		case PageTime:
			return escape(now.Format(timeline.TimeLayout))
		case PageTimestamp:
			return escape(strconv.FormatInt(now.Unix(), 10))
		}

		return ""
	}))
}
