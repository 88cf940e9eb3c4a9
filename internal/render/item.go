package render

import (
	"strconv"

	"github.com/jdholdren/noos/internal/timeline"
)

// ItemKind names a placeholder recognized in item templates.
type ItemKind string

const (
	ItemTitle       ItemKind = "title"
	ItemDescription ItemKind = "description"
	ItemSource      ItemKind = "source"
	ItemLink        ItemKind = "link"
	ItemDate        ItemKind = "date"
	ItemTime        ItemKind = "time"
	ItemTimestamp   ItemKind = "timestamp"
	ItemChannelLink ItemKind = "channel_link"
)

var itemKinds = []ItemKind{
	ItemTitle,
	ItemDescription,
	ItemSource,
	ItemLink,
	ItemDate,
	ItemTime,
	ItemTimestamp,
	ItemChannelLink,
}

// itemFields maps each kind to its accessor on an entry. Adding a
// placeholder kind is a one-place change here plus the consts above.
var itemFields = map[ItemKind]func(timeline.Entry) string{
	ItemTitle:       func(e timeline.Entry) string { return e.Title },
	ItemDescription: func(e timeline.Entry) string { return e.Description },
	ItemSource:      func(e timeline.Entry) string { return e.SourceName },
	ItemLink:        func(e timeline.Entry) string { return e.Link },
	ItemDate:        func(e timeline.Entry) string { return e.DateString },
	ItemTime:        func(e timeline.Entry) string { return e.TimeString },
	ItemTimestamp:   func(e timeline.Entry) string { return strconv.FormatInt(e.Timestamp, 10) },
	ItemChannelLink: func(e timeline.Entry) string { return e.SourceLink },
}

// ItemTemplate is a compiled template over the item-level placeholder
// kinds, rendering one entry at a time.
type ItemTemplate struct {
	c compiled[ItemKind]
}

// CompileItemTemplate scans the text once per item-level kind and
// records every occurrence. The result is immutable for its lifetime.
func CompileItemTemplate(text string) ItemTemplate {
	return ItemTemplate{c: compile(text, itemKinds)}
}

// Render substitutes one entry's fields into the template. Output is
// deterministic: it depends only on the template and the entry, never
// on the render wall clock.
func (t ItemTemplate) Render(e timeline.Entry) string {
	return t.c.render(t.c.values(func(k ItemKind) string {
		return escape(itemFields[k](e))
	}))
}
