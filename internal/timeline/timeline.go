// Package timeline holds the in-memory collection of article entries
// shared between ingestion and rendering.
package timeline

import "sync"

// Display fallbacks for fields the source never supplied. Ingestion
// applies these when it builds an Entry; the renderer only reads fields.
const (
	NoTitle       = "(No title)"
	NoDescription = "(No description)"
	NoSource      = "(No source)"
)

// Layouts for the derived date and time strings.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Entry is one article-sized unit of renderable data. Entries are
// immutable once appended to a Store.
type Entry struct {
	Title       string
	Description string
	SourceName  string // human-readable name of the originating feed
	SourceLink  string // canonical URL of the originating feed
	Link        string
	Timestamp   int64  // seconds since epoch; always set, see the ingest fallback policy
	DateString  string // empty when the publish date could not be parsed
	TimeString  string // same
}

// Store is the append-only timeline of entries. One lock serializes
// every operation and is held only for the duration of that operation,
// never across a render pass. Ordering and future-filtering are
// render-time concerns; insertion order is irrelevant.
type Store struct {
	mu      sync.Mutex
	entries []Entry
}

func NewStore() *Store {
	return &Store{}
}

// Append adds one entry.
func (s *Store) Append(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, e)
}

// Snapshot returns a copy of the current contents, consistent at a
// single point in time. Callers may reorder or filter it freely.
func (s *Store) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)

	return out
}

// Len reports the number of stored entries, including any dated in
// the future that a render pass would skip.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}
