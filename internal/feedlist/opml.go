package feedlist

import (
	"encoding/xml"
	"fmt"
	"os"
)

// The subset of OPML that feed readers exchange subscription lists in.
type (
	opml struct {
		XMLName xml.Name `xml:"opml"`
		Version string   `xml:"version,attr"`
		Head    opmlHead `xml:"head"`
		Body    opmlBody `xml:"body"`
	}

	opmlHead struct {
		Title string `xml:"title"`
	}

	opmlBody struct {
		Outlines []outline `xml:"outline"`
	}

	outline struct {
		Text     string    `xml:"text,attr"`
		Type     string    `xml:"type,attr,omitempty"`
		XMLURL   string    `xml:"xmlUrl,attr,omitempty"`
		Outlines []outline `xml:"outline,omitempty"`
	}
)

// ImportOPML merges every feed found in the OPML file into the list at
// path and reports how many were new.
func ImportOPML(path, opmlPath string) (int, error) {
	raw, err := os.ReadFile(opmlPath)
	if err != nil {
		return 0, fmt.Errorf("error reading opml file: %w", err)
	}

	var doc opml
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("error parsing opml file: %w", err)
	}

	urls, err := Load(path)
	if err != nil {
		return 0, err
	}

	known := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		known[u] = struct{}{}
	}

	added := 0
	for _, u := range collectURLs(doc.Body.Outlines) {
		if _, ok := known[u]; ok {
			continue
		}
		known[u] = struct{}{}
		urls = append(urls, u)
		added++
	}
	if added == 0 {
		return 0, nil
	}

	return added, Save(path, urls)
}

// ExportOPML writes the list at path as an OPML file.
func ExportOPML(path, opmlPath string) error {
	urls, err := Load(path)
	if err != nil {
		return err
	}

	doc := opml{
		Version: "2.0",
		Head:    opmlHead{Title: "noos subscriptions"},
	}
	for _, u := range urls {
		doc.Body.Outlines = append(doc.Body.Outlines, outline{
			Text:   u,
			Type:   "rss",
			XMLURL: u,
		})
	}

	raw, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding opml: %w", err)
	}
	raw = append([]byte(xml.Header), raw...)

	if err := os.WriteFile(opmlPath, raw, 0o644); err != nil {
		return fmt.Errorf("error writing opml file: %w", err)
	}

	return nil
}

// collectURLs walks nested outlines; folders hold their feeds as
// children.
func collectURLs(outlines []outline) []string {
	var urls []string
	for _, o := range outlines {
		if o.XMLURL != "" {
			urls = append(urls, o.XMLURL)
		}
		urls = append(urls, collectURLs(o.Outlines)...)
	}

	return urls
}
