// Package render implements the html template engine.
//
// Templates are plain text with ${name} placeholders from a closed,
// per-template-kind set. They are compiled once: every live occurrence
// is located up front so each render is a single splice pass with the
// output size known exactly in advance. Template text is trusted and
// never escaped; every substituted scalar value is entity-escaped on
// the way in, which is the engine's sole injection defense.
package render

import (
	"html"
	"log/slog"
	"sort"
	"strings"
)

// Span is a half-open byte range [Start, End) into a template string.
// Offsets are only valid against the exact string they were scanned from.
type Span struct {
	Start int
	End   int
}

// FindPlaceholder locates every ${name} occurrence in text, in order.
//
// An occurrence immediately preceded by a backslash is escaped: it is
// literal text, not a substitution site, and the backslash itself is
// consumed when rendering. Escaped spans include the leading backslash.
// Matching is case-sensitive and anchored by the ${ and } delimiters,
// so a name never matches inside a longer placeholder.
func FindPlaceholder(text, name string) (live, escaped []Span) {
	token := "${" + name + "}"

	for i := 0; ; {
		j := strings.Index(text[i:], token)
		if j < 0 {
			break
		}

		start := i + j
		end := start + len(token)
		if start > 0 && text[start-1] == '\\' {
			escaped = append(escaped, Span{Start: start - 1, End: end})
		} else {
			live = append(live, Span{Start: start, End: end})
		}
		i = end
	}

	return live, escaped
}

// A substitution site within a compiled template. Escaped sites emit
// their own text minus the leading backslash instead of a value.
type substitution[K ~string] struct {
	Span
	kind    K
	escaped bool
}

// compiled is a template over a closed set of placeholder kinds. It
// owns the original text and the combined occurrence list, sorted by
// start offset. Compiled templates are immutable and safe to share
// between any number of concurrent renders.
type compiled[K ~string] struct {
	text string
	subs []substitution[K]
}

func compile[K ~string](text string, kinds []K) compiled[K] {
	var subs []substitution[K]
	for _, k := range kinds {
		live, escaped := FindPlaceholder(text, string(k))
		if len(live) == 0 {
			slog.Debug("placeholder not present in template", "placeholder", "${"+string(k)+"}")
		}
		for _, s := range live {
			subs = append(subs, substitution[K]{Span: s, kind: k})
		}
		for _, s := range escaped {
			subs = append(subs, substitution[K]{Span: s, kind: k, escaped: true})
		}
	}

	// Kinds are distinct names anchored by delimiters, so sites never
	// overlap and sorting by start gives the splice order.
	sort.Slice(subs, func(i, j int) bool { return subs[i].Start < subs[j].Start })

	return compiled[K]{text: text, subs: subs}
}

// contains reports whether at least one live site of kind k exists.
func (c compiled[K]) contains(k K) bool {
	for _, s := range c.subs {
		if !s.escaped && s.kind == k {
			return true
		}
	}

	return false
}

// values resolves the substitution value for each distinct kind that
// actually occurs live, so each value is computed (and escaped) once
// no matter how many sites repeat it.
func (c compiled[K]) values(value func(K) string) map[K]string {
	vals := make(map[K]string)
	for _, s := range c.subs {
		if s.escaped {
			continue
		}
		if _, ok := vals[s.kind]; !ok {
			vals[s.kind] = value(s.kind)
		}
	}

	return vals
}

// renderSize predicts the exact byte length of the rendered output:
// the template length, plus per live site the value length minus the
// placeholder literal, minus one consumed backslash per escaped site.
func (c compiled[K]) renderSize(vals map[K]string) int {
	size := len(c.text)
	for _, s := range c.subs {
		if s.escaped {
			size--
			continue
		}
		size += len(vals[s.kind]) - (s.End - s.Start)
	}

	return size
}

// render assembles the output in one pass over the sorted site list,
// copying template text between sites verbatim. vals must hold the
// final (already escaped) text for every kind present.
func (c compiled[K]) render(vals map[K]string) string {
	var b strings.Builder
	b.Grow(c.renderSize(vals))

	last := 0
	for _, s := range c.subs {
		b.WriteString(c.text[last:s.Start])
		if s.escaped {
			// Drop the backslash, keep the literal ${name}.
			b.WriteString(c.text[s.Start+1 : s.End])
		} else {
			b.WriteString(vals[s.kind])
		}
		last = s.End
	}
	b.WriteString(c.text[last:])

	return b.String()
}

// escape rewrites & < > " ' to their entity forms.
func escape(s string) string {
	return html.EscapeString(s)
}
