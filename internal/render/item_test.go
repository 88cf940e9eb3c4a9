package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/noos/internal/timeline"
)

func testEntry() timeline.Entry {
	return timeline.Entry{
		Title:       "Hello",
		Description: "World",
		SourceName:  "Example Feed",
		SourceLink:  "https://example.com",
		Link:        "https://example.com/hello",
		Timestamp:   1700000000,
		DateString:  "2023-11-14",
		TimeString:  "22:13:20",
	}
}

func TestItemRender_SubstitutesAllKinds(t *testing.T) {
	tpl := CompileItemTemplate(
		`<a href="${link}">${title}</a> ${description} by ${source} (${channel_link}) ${date} ${time} ${timestamp}`,
	)

	got := tpl.Render(testEntry())

	assert.Equal(t,
		`<a href="https://example.com/hello">Hello</a> World by Example Feed (https://example.com) 2023-11-14 22:13:20 1700000000`,
		got,
	)
}

func TestItemRender_EscapesValues(t *testing.T) {
	tpl := CompileItemTemplate("<h2>${title}</h2><p>${description}</p>")

	e := testEntry()
	e.Title = "<script>alert(1)</script>"
	e.Description = "Tom & Jerry"

	got := tpl.Render(e)

	assert.Contains(t, got, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, got, "Tom &amp; Jerry")
	assert.NotContains(t, got, "<script>")
}

func TestItemRender_EscapedPlaceholderIsLiteral(t *testing.T) {
	tpl := CompileItemTemplate(`\${title} is rendered for ${title}`)

	got := tpl.Render(testEntry())

	// The backslash is consumed, the token survives verbatim.
	assert.Equal(t, "${title} is rendered for Hello", got)
}

func TestItemRender_ZeroPlaceholdersRoundTrips(t *testing.T) {
	const text = "<li>nothing dynamic here</li>"
	tpl := CompileItemTemplate(text)

	assert.Equal(t, text, tpl.Render(testEntry()))
}

func TestItemRender_MultipleOccurrencesAreIndependent(t *testing.T) {
	tpl := CompileItemTemplate("${title}|${title}|${title}")

	assert.Equal(t, "Hello|Hello|Hello", tpl.Render(testEntry()))
}

func TestItemRender_EmptyFieldsRenderEmpty(t *testing.T) {
	tpl := CompileItemTemplate(`[${link}][${date}][${time}][${channel_link}]`)

	e := testEntry()
	e.Link = ""
	e.DateString = ""
	e.TimeString = ""
	e.SourceLink = ""

	assert.Equal(t, "[][][][]", tpl.Render(e))
}

func TestItemRender_Deterministic(t *testing.T) {
	tpl := CompileItemTemplate("<p>${title} @ ${timestamp}</p>")
	e := testEntry()

	assert.Equal(t, tpl.Render(e), tpl.Render(e))
}

func TestItemRender_SizePredictionIsExact(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"no placeholders", "static text only"},
		{"single", "<h1>${title}</h1>"},
		{"repeated", "${title} ${title} ${title}"},
		{"all kinds", "${title}${description}${source}${link}${date}${time}${timestamp}${channel_link}"},
		{"escaped only", `\${title}\${items}`},
		{"mixed", `a ${title} b \${title} c ${description} d`},
		{"placeholder at start and end", "${title} middle ${timestamp}"},
	}

	e := testEntry()
	e.Title = `needs <escaping> & "quotes" & 'apostrophes'`
	e.Description = "" // shrinking substitution

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tpl := CompileItemTemplate(tc.text)
			vals := tpl.c.values(func(k ItemKind) string {
				return escape(itemFields[k](e))
			})

			out := tpl.c.render(vals)
			require.Equal(t, tpl.c.renderSize(vals), len(out))
			assert.Equal(t, out, tpl.Render(e))
		})
	}
}

func TestItemRender_UsesEntryTimestampNotWallClock(t *testing.T) {
	tpl := CompileItemTemplate("${date} ${time} ${timestamp}")
	e := testEntry()

	got := tpl.Render(e)

	assert.Equal(t, "2023-11-14 22:13:20 1700000000", got)
	assert.False(t, strings.Contains(got, "now"))
}
